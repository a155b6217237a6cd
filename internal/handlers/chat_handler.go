// internal/handlers/chat_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type SendMessageRequest struct {
	// ReceiverID is required for doctors. Patients may omit it; their
	// messages always go to their assigned doctor.
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
}

// GetMessages returns the conversation with ?with=<userId>, or the caller's
// whole inbox when no counterpart is given.
func (h *Handler) GetMessages(c *gin.Context) {
	userID := c.GetString("userID")
	if with := c.Query("with"); with != "" {
		c.JSON(http.StatusOK, h.Views.Conversation(userID, with))
		return
	}
	c.JSON(http.StatusOK, h.Views.InboxOf(userID))
}

func (h *Handler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format, expecting {\"content\": \"...\"}"})
		return
	}

	msg, err := h.Store.SendMessage(c.GetString("userID"), req.ReceiverID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}
