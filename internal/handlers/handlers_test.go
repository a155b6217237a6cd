package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harentsoaR/care-tracker-api/internal/metrics"
	"github.com/harentsoaR/care-tracker-api/internal/models"
	"github.com/harentsoaR/care-tracker-api/internal/services"
	"github.com/harentsoaR/care-tracker-api/internal/store"
	"github.com/harentsoaR/care-tracker-api/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router *gin.Engine
	store  *store.Store
	jwt    *utils.JWTManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	m := metrics.New(false)
	notifier := services.NewNotificationService(nil, m)
	s, err := store.New(store.Seed{
		Users: []models.User{
			{ID: "d1", Email: "doc@example.com", Password: "pw1", Name: "Dr. Smith", Role: models.RoleDoctor},
			{ID: "p2", Email: "john@example.com", Password: "pw2", Name: "John", Role: models.RolePatient, AssignedTo: "d1"},
			{ID: "d3", Email: "other@example.com", Password: "pw3", Name: "Dr. Jones", Role: models.RoleDoctor},
		},
		Milestones: []models.Milestone{
			{ID: "m1", PatientID: "p2", Title: "Walk", Points: 10},
		},
	}, store.WithObserver(notifier))
	require.NoError(t, err)

	jwt := utils.NewJWTManager("test-secret", time.Hour)
	h := NewHandler(s, services.NewAuthService(s, utils.PlainMatcher{}, nil), jwt, notifier)
	return &testServer{
		router: NewRouter(h, RouterConfig{Metrics: m}),
		store:  s,
		jwt:    jwt,
	}
}

func (ts *testServer) token(t *testing.T, userID string) string {
	t.Helper()
	u, ok := ts.store.UserByID(userID)
	require.True(t, ok)
	token, err := ts.jwt.Generate(u)
	require.NoError(t, err)
	return token
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/auth/login", "", LoginRequest{Email: "doc@example.com", Password: "pw1"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[authResponse](t, w)
	assert.Equal(t, "d1", resp.User.ID)
	assert.NotEmpty(t, resp.Token)
	assert.NotContains(t, w.Body.String(), "pw1")

	w = ts.do(t, http.MethodPost, "/auth/login", "", LoginRequest{Email: "doc@example.com", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid credentials", decode[map[string]string](t, w)["error"])
}

func TestSignup(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/auth/signup", "", SignupRequest{Name: "New", Email: "new@example.com", Password: "pw", Role: models.RolePatient, AssignedTo: "d3"})
	require.Equal(t, http.StatusCreated, w.Code)
	resp := decode[authResponse](t, w)
	assert.Equal(t, "p4", resp.User.ID)

	w = ts.do(t, http.MethodPost, "/auth/signup", "", SignupRequest{Name: "Dup", Email: "doc@example.com", Password: "pw", Role: models.RoleDoctor})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = ts.do(t, http.MethodPost, "/auth/signup", "", map[string]string{"email": "x@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	me := ts.do(t, http.MethodGet, "/api/me", resp.Token, nil)
	require.Equal(t, http.StatusOK, me.Code)
	assert.Equal(t, "new@example.com", decode[models.User](t, me).Email)
}

func TestCreateTest(t *testing.T) {
	ts := newTestServer(t)
	doctor := ts.token(t, "d1")

	w := ts.do(t, http.MethodPost, "/api/tests", doctor, CreateTestRequest{PatientID: "p2", Title: "Grip", DueDate: "2024-03-15"})
	require.Equal(t, http.StatusCreated, w.Code)
	test := decode[models.Test](t, w)
	assert.Equal(t, "d1", test.DoctorID)
	assert.Equal(t, models.DefaultTestCategory, test.Category)

	w = ts.do(t, http.MethodPost, "/api/tests", doctor, CreateTestRequest{Title: "No patient"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "please select a patient first", decode[map[string]string](t, w)["error"])

	w = ts.do(t, http.MethodPost, "/api/tests", ts.token(t, "d3"), CreateTestRequest{PatientID: "p2", Title: "Foreign"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPost, "/api/tests", ts.token(t, "p2"), CreateTestRequest{PatientID: "p2", Title: "Self"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	assert.Len(t, ts.store.Tests(), 1)

	list := ts.do(t, http.MethodGet, "/api/tests", ts.token(t, "p2"), nil)
	require.Equal(t, http.StatusOK, list.Code)
	assert.Len(t, decode[[]models.Test](t, list), 1)
}

func TestRecordTestResults(t *testing.T) {
	ts := newTestServer(t)
	created, err := ts.store.CreateTest("d1", "p2", models.NewTest{Title: "Grip"})
	require.NoError(t, err)

	w := ts.do(t, http.MethodPut, "/api/tests/"+created.ID+"/results", ts.token(t, "d3"), RecordResultsRequest{Results: "40kg"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(t, http.MethodPut, "/api/tests/t99/results", ts.token(t, "d1"), RecordResultsRequest{Results: "40kg"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, http.MethodPut, "/api/tests/"+created.ID+"/results", ts.token(t, "d1"), RecordResultsRequest{Results: "40kg"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[models.Test](t, w).Completed)
}

func TestCareTips(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/tips", ts.token(t, "d1"), CreateCareTipRequest{PatientID: "p2", Title: "Hydrate"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, models.DefaultCareTipCategory, decode[models.CareTip](t, w).Category)

	w = ts.do(t, http.MethodGet, "/api/tips", ts.token(t, "p2"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.CareTip](t, w), 1)
}

func TestToggleMilestone(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPatch, "/api/milestones/m1/toggle", ts.token(t, "p2"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[models.Milestone](t, w).Completed)

	w = ts.do(t, http.MethodPatch, "/api/milestones/m1/toggle", ts.token(t, "d1"), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(t, http.MethodPatch, "/api/milestones/m9/toggle", ts.token(t, "p2"), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, http.MethodGet, "/api/progress", ts.token(t, "p2"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	progress := decode[services.Progress](t, w)
	assert.Equal(t, 100.0, progress.PercentComplete)
	assert.Equal(t, 10, progress.TotalPoints)
}

func TestMessages(t *testing.T) {
	ts := newTestServer(t)
	doctor := ts.token(t, "d1")
	patient := ts.token(t, "p2")

	w := ts.do(t, http.MethodPost, "/api/messages", patient, SendMessageRequest{Content: "Hello doctor"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "d1", decode[models.Message](t, w).ReceiverID)

	w = ts.do(t, http.MethodPost, "/api/messages", doctor, SendMessageRequest{Content: "No receiver"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPost, "/api/messages", doctor, SendMessageRequest{ReceiverID: "p2", Content: "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPost, "/api/messages", doctor, SendMessageRequest{ReceiverID: "p2", Content: "Hi John"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = ts.do(t, http.MethodGet, "/api/messages?with=p2", doctor, nil)
	require.Equal(t, http.StatusOK, w.Code)
	conv := decode[[]models.Message](t, w)
	require.Len(t, conv, 2)
	assert.Equal(t, "Hello doctor", conv[0].Content)
	assert.Equal(t, "Hi John", conv[1].Content)

	w = ts.do(t, http.MethodGet, "/api/messages", ts.token(t, "d3"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]models.Message](t, w))
}

func TestDashboard(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/dashboard?patientId=p2", ts.token(t, "d1"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	doctorView := decode[services.DoctorDashboard](t, w)
	assert.Equal(t, "p2", doctorView.SelectedPatient)
	require.Len(t, doctorView.Patients, 1)

	w = ts.do(t, http.MethodGet, "/api/dashboard", ts.token(t, "p2"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	patientView := decode[services.PatientDashboard](t, w)
	assert.Equal(t, "d1", patientView.DoctorID)
	assert.Len(t, patientView.Milestones, 1)
}

func TestPatientsRequireDoctor(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/patients", ts.token(t, "p2"), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = ts.do(t, http.MethodGet, "/api/patients", ts.token(t, "d1"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.User](t, w), 1)
}

func TestUnknownUserToken(t *testing.T) {
	ts := newTestServer(t)
	token, err := ts.jwt.Generate(models.User{ID: "ghost", Role: models.RolePatient})
	require.NoError(t, err)

	w := ts.do(t, http.MethodGet, "/api/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodPost, "/auth/login", "", LoginRequest{Email: "doc@example.com", Password: "pw1"})
	ts.do(t, http.MethodPost, "/api/tests", ts.token(t, "d1"), CreateTestRequest{PatientID: "p2", Title: "Grip"})

	w := ts.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `care_tracker_store_mutations_total{kind="test",op="created"} 1`))
	assert.True(t, strings.Contains(body, `care_tracker_auth_attempts_total{action="login",result="success"} 1`))
}
