package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harentsoaR/care-tracker-api/internal/models"
)

func TestTestsViewsAgreeAfterCreate(t *testing.T) {
	s := newTestStore(t)
	views := NewViews(s)

	_, err := s.CreateTest("d1", "p2", models.NewTest{Title: "Grip"})
	require.NoError(t, err)
	_, err = s.CreateTest("d1", "p3", models.NewTest{Title: "Balance"})
	require.NoError(t, err)

	var byDoctor []models.Test
	for _, test := range views.TestsAssignedByDoctor("d1") {
		if test.PatientID == "p2" {
			byDoctor = append(byDoctor, test)
		}
	}
	var forPatient []models.Test
	for _, test := range views.TestsForPatient("p2") {
		if test.DoctorID == "d1" {
			forPatient = append(forPatient, test)
		}
	}
	assert.Equal(t, byDoctor, forPatient)
	assert.Len(t, forPatient, 1)
}

func TestTipsViews(t *testing.T) {
	s := newTestStore(t)
	views := NewViews(s)

	tip, err := s.CreateCareTip("d1", "p3", models.NewCareTip{Title: "Sleep"})
	require.NoError(t, err)

	assert.Equal(t, []models.CareTip{tip}, views.TipsForPatient("p3"))
	assert.Equal(t, []models.CareTip{tip}, views.TipsByDoctor("d1"))
	assert.Empty(t, views.TipsForPatient("p2"))
	assert.NotNil(t, views.TipsForPatient("p2"))
}

func TestConversation(t *testing.T) {
	s := newTestStore(t)
	views := NewViews(s)

	m1, err := s.SendMessage("d1", "p2", "first")
	require.NoError(t, err)
	_, err = s.SendMessage("d1", "p3", "other pair")
	require.NoError(t, err)
	m3, err := s.SendMessage("p2", "", "second")
	require.NoError(t, err)
	m4, err := s.SendMessage("d1", "p2", "third")
	require.NoError(t, err)

	conv := views.Conversation("d1", "p2")
	assert.Equal(t, []models.Message{m1, m3, m4}, conv)
	assert.Equal(t, conv, views.Conversation("p2", "d1"))
	for _, m := range conv {
		assert.True(t, m.Between("d1", "p2"))
	}
}

func TestInboxOf(t *testing.T) {
	s := newTestStore(t)
	views := NewViews(s)

	_, err := s.SendMessage("d1", "p2", "a")
	require.NoError(t, err)
	_, err = s.SendMessage("d1", "p3", "b")
	require.NoError(t, err)

	assert.Len(t, views.InboxOf("d1"), 2)
	assert.Len(t, views.InboxOf("p3"), 1)
	assert.Empty(t, views.InboxOf("nobody"))
}

func TestProgressSummary(t *testing.T) {
	views := NewViews(newTestStore(t))

	p := views.ProgressSummary("p2")

	assert.Equal(t, Progress{Total: 4, Completed: 2, Remaining: 2, TotalPoints: 40, PercentComplete: 50}, p)
}

func TestProgressSummary_NoMilestones(t *testing.T) {
	views := NewViews(newTestStore(t))

	p := views.ProgressSummary("p3")

	assert.Equal(t, 0.0, p.PercentComplete)
	assert.Equal(t, 0, p.Total)
	assert.Equal(t, 0, p.TotalPoints)
}

func TestProgressSummary_FollowsToggle(t *testing.T) {
	s := newTestStore(t)
	views := NewViews(s)

	_, err := s.ToggleMilestoneCompletion("m2", "p2")
	require.NoError(t, err)

	p := views.ProgressSummary("p2")
	assert.Equal(t, 3, p.Completed)
	assert.Equal(t, 60, p.TotalPoints)
	assert.InDelta(t, 75.0, p.PercentComplete, 1e-9)
}

func TestPatientsOfView(t *testing.T) {
	views := NewViews(newTestStore(t))

	patients := views.PatientsOf("d1")
	require.Len(t, patients, 2)
	assert.Equal(t, "p2", patients[0].ID)
	assert.NotNil(t, views.PatientsOf("p2"))
	assert.Empty(t, views.PatientsOf("p2"))
}

func TestDoctorDashboard(t *testing.T) {
	s := newTestStore(t)
	views := NewViews(s)
	doctor, _ := s.UserByID("d1")

	_, err := s.SendMessage("d1", "p2", "hi John")
	require.NoError(t, err)
	_, err = s.SendMessage("d1", "p3", "hi Jane")
	require.NoError(t, err)

	d := views.DoctorDashboard(doctor, "")
	assert.Len(t, d.Patients, 2)
	assert.Len(t, d.Inbox, 2)
	assert.Empty(t, d.Conversation)
	assert.Empty(t, d.SelectedPatient)

	d = views.DoctorDashboard(doctor, "p3")
	assert.Equal(t, "p3", d.SelectedPatient)
	require.Len(t, d.Conversation, 1)
	assert.Equal(t, "hi Jane", d.Conversation[0].Content)

	d = views.DoctorDashboard(doctor, "someone-else")
	assert.Empty(t, d.SelectedPatient)
	assert.Empty(t, d.Conversation)
}

func TestPatientDashboard(t *testing.T) {
	s := newTestStore(t)
	views := NewViews(s)
	patient, _ := s.UserByID("p2")

	_, err := s.CreateTest("d1", "p2", models.NewTest{Title: "Grip"})
	require.NoError(t, err)
	_, err = s.SendMessage("p2", "", "hello")
	require.NoError(t, err)

	d := views.PatientDashboard(patient)
	assert.Equal(t, "d1", d.DoctorID)
	assert.Len(t, d.Milestones, 4)
	assert.Len(t, d.Tests, 1)
	assert.Len(t, d.Conversation, 1)
	assert.Equal(t, 50.0, d.Progress.PercentComplete)
}
