package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/care-tracker-api/internal/models"
)

type CreateTestRequest struct {
	PatientID   string `json:"patientId"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Category    string `json:"category"`
}

type CreateCareTipRequest struct {
	PatientID   string `json:"patientId"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type RecordResultsRequest struct {
	Results string `json:"results" binding:"required"`
}

// GetDashboard returns the doctor or patient dashboard depending on the
// caller's role. Doctors may pass ?patientId= to open a conversation.
func (h *Handler) GetDashboard(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	if user.IsDoctor() {
		c.JSON(http.StatusOK, h.Views.DoctorDashboard(user, c.Query("patientId")))
		return
	}
	c.JSON(http.StatusOK, h.Views.PatientDashboard(user))
}

// GetPatients lists the doctor's assigned patients.
func (h *Handler) GetPatients(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.Views.PatientsOf(user.ID))
}

// GetTests returns the tests a doctor assigned or a patient received.
func (h *Handler) GetTests(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	if user.IsDoctor() {
		c.JSON(http.StatusOK, h.Views.TestsAssignedByDoctor(user.ID))
		return
	}
	c.JSON(http.StatusOK, h.Views.TestsForPatient(user.ID))
}

// --- CREATE TEST (Doctor Only) ---
func (h *Handler) CreateTest(c *gin.Context) {
	var req CreateTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	test, err := h.Store.CreateTest(c.GetString("userID"), req.PatientID, models.NewTest{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Category:    req.Category,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, test)
}

// --- RECORD TEST RESULTS (Assigning Doctor Only) ---
func (h *Handler) RecordTestResults(c *gin.Context) {
	var req RecordResultsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	test, err := h.Store.RecordTestResults(c.Param("id"), c.GetString("userID"), req.Results)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, test)
}

func (h *Handler) GetCareTips(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	if user.IsDoctor() {
		c.JSON(http.StatusOK, h.Views.TipsByDoctor(user.ID))
		return
	}
	c.JSON(http.StatusOK, h.Views.TipsForPatient(user.ID))
}

// --- CREATE CARE TIP (Doctor Only) ---
func (h *Handler) CreateCareTip(c *gin.Context) {
	var req CreateCareTipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	tip, err := h.Store.CreateCareTip(c.GetString("userID"), req.PatientID, models.NewCareTip{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tip)
}

func (h *Handler) GetMilestones(c *gin.Context) {
	c.JSON(http.StatusOK, h.Views.MilestonesForPatient(c.GetString("userID")))
}

// --- TOGGLE MILESTONE (Owning Patient Only) ---
func (h *Handler) ToggleMilestone(c *gin.Context) {
	m, err := h.Store.ToggleMilestoneCompletion(c.Param("id"), c.GetString("userID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) GetProgress(c *gin.Context) {
	c.JSON(http.StatusOK, h.Views.ProgressSummary(c.GetString("userID")))
}
