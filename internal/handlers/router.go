package handlers

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/harentsoaR/care-tracker-api/internal/logger"
	"github.com/harentsoaR/care-tracker-api/internal/metrics"
	"github.com/harentsoaR/care-tracker-api/internal/middleware"
	"github.com/harentsoaR/care-tracker-api/internal/models"
)

type RouterConfig struct {
	AllowOrigins []string
	Logger       *zap.Logger
	Metrics      *metrics.Metrics
}

// NewRouter wires every route onto a fresh gin engine.
func NewRouter(h *Handler, cfg RouterConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(middleware.RequestID(), logger.GinMiddleware(cfg.Logger), logger.Recovery(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if len(cfg.AllowOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			AllowCredentials: true,
		}))
	}

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Metrics.Registry, promhttp.HandlerOpts{})))
	}

	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/signup", h.Signup)
		authRoutes.POST("/login", h.Login)
	}

	doctorOnly := middleware.RequireRole(models.RoleDoctor)
	patientOnly := middleware.RequireRole(models.RolePatient)

	apiRoutes := r.Group("/api")
	apiRoutes.Use(middleware.AuthMiddleware(h.JWT)) // Protect all /api routes
	{
		apiRoutes.GET("/me", h.GetCurrentUser)
		apiRoutes.GET("/dashboard", h.GetDashboard)

		apiRoutes.GET("/patients", doctorOnly, h.GetPatients)

		apiRoutes.GET("/tests", h.GetTests)
		apiRoutes.POST("/tests", doctorOnly, h.CreateTest)
		apiRoutes.PUT("/tests/:id/results", doctorOnly, h.RecordTestResults)

		apiRoutes.GET("/tips", h.GetCareTips)
		apiRoutes.POST("/tips", doctorOnly, h.CreateCareTip)

		apiRoutes.GET("/milestones", patientOnly, h.GetMilestones)
		apiRoutes.PATCH("/milestones/:id/toggle", h.ToggleMilestone)
		apiRoutes.GET("/progress", patientOnly, h.GetProgress)

		apiRoutes.GET("/messages", h.GetMessages)
		apiRoutes.POST("/messages", h.SendMessage)
	}

	return r
}
