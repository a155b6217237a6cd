package store

import "github.com/harentsoaR/care-tracker-api/internal/models"

// DoctorOf returns the doctor a patient is assigned to.
func (s *Store) DoctorOf(patientID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doctorOf(patientID)
}

// PatientsOf returns the patients whose assignedTo is doctorID, in
// registration order.
func (s *Store) PatientsOf(doctorID string) []models.User {
	if doctorID == "" {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var patients []models.User
	for _, u := range s.users {
		if u.IsPatient() && u.AssignedTo == doctorID {
			patients = append(patients, u)
		}
	}
	return patients
}

// PatientIDsOf is PatientsOf reduced to ids.
func (s *Store) PatientIDsOf(doctorID string) []string {
	patients := s.PatientsOf(doctorID)
	ids := make([]string, 0, len(patients))
	for _, p := range patients {
		ids = append(ids, p.ID)
	}
	return ids
}

// IsAssigned reports whether patientID is assigned to doctorID.
func (s *Store) IsAssigned(doctorID, patientID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isAssigned(doctorID, patientID)
}

func (s *Store) doctorOf(patientID string) (string, bool) {
	p, ok := s.userByID(patientID)
	if !ok || !p.IsPatient() || p.AssignedTo == "" {
		return "", false
	}
	return p.AssignedTo, true
}

func (s *Store) isAssigned(doctorID, patientID string) bool {
	if doctorID == "" {
		return false
	}
	d, ok := s.doctorOf(patientID)
	return ok && d == doctorID
}
