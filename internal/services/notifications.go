package services

import (
	"go.uber.org/zap"

	"github.com/harentsoaR/care-tracker-api/internal/metrics"
	"github.com/harentsoaR/care-tracker-api/internal/store"
)

// NotificationService is the store observer: it logs every applied mutation
// for the counterpart to pick up on their next refresh and counts it.
// Nothing is pushed to clients.
type NotificationService struct {
	logger  *zap.Logger
	metrics *metrics.Metrics
}

var _ store.Observer = (*NotificationService)(nil)

func NewNotificationService(logger *zap.Logger, m *metrics.Metrics) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{logger: logger.Named("activity"), metrics: m}
}

// Observe implements store.Observer.
func (s *NotificationService) Observe(ev store.Event) {
	if s.metrics != nil {
		s.metrics.Mutations.WithLabelValues(string(ev.Kind), string(ev.Op)).Inc()
	}
	s.logger.Info(activityMessage(ev),
		zap.String("kind", string(ev.Kind)),
		zap.String("op", string(ev.Op)),
		zap.String("id", ev.ID),
		zap.String("actor_id", ev.ActorID),
	)
}

// RecordAuth counts a login or signup attempt.
func (s *NotificationService) RecordAuth(action string, err error) {
	if s == nil || s.metrics == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	s.metrics.LoginResults.WithLabelValues(action, result).Inc()
}

func activityMessage(ev store.Event) string {
	switch {
	case ev.Kind == store.KindTest && ev.Op == store.OpCreated:
		return "test assigned"
	case ev.Kind == store.KindTest && ev.Op == store.OpUpdated:
		return "test results recorded"
	case ev.Kind == store.KindCareTip:
		return "care tip added"
	case ev.Kind == store.KindMessage:
		return "message sent"
	case ev.Kind == store.KindMilestone:
		return "milestone toggled"
	case ev.Kind == store.KindUser:
		return "user registered"
	default:
		return "record changed"
	}
}
