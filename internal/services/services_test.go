package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/harentsoaR/care-tracker-api/internal/models"
	"github.com/harentsoaR/care-tracker-api/internal/store"
)

var fixedNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func testSeed() store.Seed {
	return store.Seed{
		Users: []models.User{
			{ID: "d1", Email: "doc@example.com", Password: "pw1", Name: "Dr. Smith", Role: models.RoleDoctor},
			{ID: "p2", Email: "john@example.com", Password: "pw2", Name: "John", Role: models.RolePatient, AssignedTo: "d1"},
			{ID: "p3", Email: "jane@example.com", Password: "pw3", Name: "Jane", Role: models.RolePatient, AssignedTo: "d1"},
		},
		Milestones: []models.Milestone{
			{ID: "m1", PatientID: "p2", Title: "Walk 10 minutes", Points: 10, Completed: true},
			{ID: "m2", PatientID: "p2", Title: "Walk 20 minutes", Points: 20},
			{ID: "m3", PatientID: "p2", Title: "Stairs", Points: 30, Completed: true},
			{ID: "m4", PatientID: "p2", Title: "Jog", Points: 40},
		},
	}
}

func newTestStore(t *testing.T, opts ...store.Option) *store.Store {
	t.Helper()
	opts = append([]store.Option{store.WithClock(func() time.Time { return fixedNow })}, opts...)
	s, err := store.New(testSeed(), opts...)
	require.NoError(t, err)
	return s
}
