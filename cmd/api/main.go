package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/harentsoaR/care-tracker-api/internal/config"
	"github.com/harentsoaR/care-tracker-api/internal/handlers"
	"github.com/harentsoaR/care-tracker-api/internal/logger"
	"github.com/harentsoaR/care-tracker-api/internal/metrics"
	"github.com/harentsoaR/care-tracker-api/internal/seed"
	"github.com/harentsoaR/care-tracker-api/internal/services"
	"github.com/harentsoaR/care-tracker-api/internal/store"
	"github.com/harentsoaR/care-tracker-api/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	zlog, err := logger.New(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Seed Data ---
	initial, source, err := loadSeed(ctx, cfg.Seed)
	if err != nil {
		zlog.Fatal("Failed to load seed data", zap.Error(err))
	}
	zlog.Info("Seed data loaded", zap.String("source", source))

	// --- Initialize Services ---
	m := metrics.New(true)
	notificationSvc := services.NewNotificationService(zlog, m)

	recordStore, err := store.New(initial, store.WithLogger(zlog.Named("store")), store.WithObserver(notificationSvc))
	if err != nil {
		zlog.Fatal("Seed data is inconsistent", zap.Error(err))
	}

	matcher, err := utils.NewPasswordMatcher(cfg.PasswordScheme)
	if err != nil {
		zlog.Fatal("Invalid password scheme", zap.Error(err))
	}
	authSvc := services.NewAuthService(recordStore, matcher, zlog.Named("auth"))
	jwt := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TTL)

	// --- Initialize Handlers ---
	h := handlers.NewHandler(recordStore, authSvc, jwt, notificationSvc)

	// --- Gin Router ---
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := handlers.NewRouter(h, handlers.RouterConfig{
		AllowOrigins: cfg.CORS.AllowOrigins,
		Logger:       zlog,
		Metrics:      m,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("Starting server", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("Graceful shutdown failed", zap.Error(err))
	}
}

// loadSeed picks the seed source: MongoDB, then a JSON file, then the
// embedded demo data.
func loadSeed(ctx context.Context, cfg config.SeedConfig) (store.Seed, string, error) {
	switch {
	case cfg.MongoURI != "":
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		client, err := seed.Connect(connectCtx, cfg.MongoURI)
		if err != nil {
			return store.Seed{}, "", err
		}
		defer client.Disconnect(context.Background())
		s, err := seed.LoadMongo(connectCtx, client.Database(cfg.MongoDatabase))
		return s, "mongodb:" + cfg.MongoDatabase, err
	case cfg.File != "":
		s, err := seed.LoadFile(cfg.File)
		return s, cfg.File, err
	default:
		s, err := seed.Default()
		return s, "embedded", err
	}
}
