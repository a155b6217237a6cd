package services

import (
	"github.com/harentsoaR/care-tracker-api/internal/models"
	"github.com/harentsoaR/care-tracker-api/internal/store"
)

// Views derives read-only projections from the store. Every result is a
// fresh slice, empty rather than nil, in insertion order.
type Views struct {
	store *store.Store
}

func NewViews(s *store.Store) *Views {
	return &Views{store: s}
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0)
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

func (v *Views) TestsForPatient(patientID string) []models.Test {
	return filter(v.store.Tests(), func(t models.Test) bool { return t.PatientID == patientID })
}

func (v *Views) TestsAssignedByDoctor(doctorID string) []models.Test {
	return filter(v.store.Tests(), func(t models.Test) bool { return t.DoctorID == doctorID })
}

func (v *Views) TipsForPatient(patientID string) []models.CareTip {
	return filter(v.store.CareTips(), func(ct models.CareTip) bool { return ct.PatientID == patientID })
}

func (v *Views) TipsByDoctor(doctorID string) []models.CareTip {
	return filter(v.store.CareTips(), func(ct models.CareTip) bool { return ct.DoctorID == doctorID })
}

func (v *Views) MilestonesForPatient(patientID string) []models.Milestone {
	return filter(v.store.Milestones(), func(m models.Milestone) bool { return m.PatientID == patientID })
}

// Conversation returns the messages exchanged between a and b in the order
// they were sent.
func (v *Views) Conversation(a, b string) []models.Message {
	return filter(v.store.Messages(), func(m models.Message) bool { return m.Between(a, b) })
}

// InboxOf returns every message userID sent or received.
func (v *Views) InboxOf(userID string) []models.Message {
	return filter(v.store.Messages(), func(m models.Message) bool { return m.Involves(userID) })
}

func (v *Views) PatientsOf(doctorID string) []models.User {
	patients := v.store.PatientsOf(doctorID)
	if patients == nil {
		return []models.User{}
	}
	return patients
}

// Progress summarises a patient's milestones.
type Progress struct {
	Total           int     `json:"total"`
	Completed       int     `json:"completed"`
	Remaining       int     `json:"remaining"`
	TotalPoints     int     `json:"totalPoints"`
	PercentComplete float64 `json:"percentComplete"`
}

// ProgressSummary counts completed milestones and their points. A patient
// without milestones is at 0 percent.
func (v *Views) ProgressSummary(patientID string) Progress {
	var p Progress
	for _, m := range v.MilestonesForPatient(patientID) {
		p.Total++
		if m.Completed {
			p.Completed++
			p.TotalPoints += m.Points
		}
	}
	p.Remaining = p.Total - p.Completed
	if p.Total > 0 {
		p.PercentComplete = float64(p.Completed) / float64(p.Total) * 100
	}
	return p
}

// DoctorDashboard is everything the doctor screen shows.
type DoctorDashboard struct {
	Doctor          models.User      `json:"doctor"`
	Patients        []models.User    `json:"patients"`
	Tests           []models.Test    `json:"tests"`
	CareTips        []models.CareTip `json:"careTips"`
	Inbox           []models.Message `json:"inbox"`
	SelectedPatient string           `json:"selectedPatient,omitempty"`
	Conversation    []models.Message `json:"conversation"`
}

// DoctorDashboard builds the doctor view. selectedPatientID may be empty;
// a patient not assigned to the doctor is treated as no selection.
func (v *Views) DoctorDashboard(doctor models.User, selectedPatientID string) DoctorDashboard {
	d := DoctorDashboard{
		Doctor:       doctor,
		Patients:     v.PatientsOf(doctor.ID),
		Tests:        v.TestsAssignedByDoctor(doctor.ID),
		CareTips:     v.TipsByDoctor(doctor.ID),
		Inbox:        v.InboxOf(doctor.ID),
		Conversation: []models.Message{},
	}
	if selectedPatientID != "" && v.store.IsAssigned(doctor.ID, selectedPatientID) {
		d.SelectedPatient = selectedPatientID
		d.Conversation = v.Conversation(doctor.ID, selectedPatientID)
	}
	return d
}

// PatientDashboard is everything the patient screen shows.
type PatientDashboard struct {
	Patient      models.User        `json:"patient"`
	DoctorID     string             `json:"doctorId,omitempty"`
	Milestones   []models.Milestone `json:"milestones"`
	Progress     Progress           `json:"progress"`
	Tests        []models.Test      `json:"tests"`
	CareTips     []models.CareTip   `json:"careTips"`
	Conversation []models.Message   `json:"conversation"`
}

func (v *Views) PatientDashboard(patient models.User) PatientDashboard {
	d := PatientDashboard{
		Patient:      patient,
		Milestones:   v.MilestonesForPatient(patient.ID),
		Progress:     v.ProgressSummary(patient.ID),
		Tests:        v.TestsForPatient(patient.ID),
		CareTips:     v.TipsForPatient(patient.ID),
		Conversation: []models.Message{},
	}
	if doctorID, ok := v.store.DoctorOf(patient.ID); ok {
		d.DoctorID = doctorID
		d.Conversation = v.Conversation(patient.ID, doctorID)
	}
	return d
}
