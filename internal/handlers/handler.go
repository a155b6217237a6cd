package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/harentsoaR/care-tracker-api/internal/apperrors"
	"github.com/harentsoaR/care-tracker-api/internal/logger"
	"github.com/harentsoaR/care-tracker-api/internal/middleware"
	"github.com/harentsoaR/care-tracker-api/internal/models"
	"github.com/harentsoaR/care-tracker-api/internal/services"
	"github.com/harentsoaR/care-tracker-api/internal/store"
	"github.com/harentsoaR/care-tracker-api/internal/utils"
)

// Handler holds what the HTTP layer needs to reach the record store.
type Handler struct {
	Store           *store.Store
	Auth            *services.AuthService
	Views           *services.Views
	JWT             *utils.JWTManager
	NotificationSvc *services.NotificationService
}

func NewHandler(s *store.Store, auth *services.AuthService, jwt *utils.JWTManager, notificationSvc *services.NotificationService) *Handler {
	return &Handler{
		Store:           s,
		Auth:            auth,
		Views:           services.NewViews(s),
		JWT:             jwt,
		NotificationSvc: notificationSvc,
	}
}

// currentUser loads the user behind the request's token. A token for a user
// that no longer resolves is treated as unauthenticated.
func (h *Handler) currentUser(c *gin.Context) (models.User, bool) {
	user, ok := h.Store.UserByID(c.GetString(middleware.UserIDKey))
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return models.User{}, false
	}
	return user, true
}

var statusByKind = map[apperrors.Kind]int{
	apperrors.KindAuthentication: http.StatusUnauthorized,
	apperrors.KindConflict:       http.StatusConflict,
	apperrors.KindValidation:     http.StatusBadRequest,
	apperrors.KindNotFound:       http.StatusNotFound,
	apperrors.KindForbidden:      http.StatusForbidden,
}

// respondError maps store and service errors to a status and a
// {"error": message} body.
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		if status, ok := statusByKind[appErr.Kind]; ok {
			c.JSON(status, gin.H{"error": appErr.Message})
			return
		}
	}
	logger.FromContext(c).Error("request failed", zap.Error(err))
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
