package audit

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/canchago/go-court-reservation/internal/pkg/logger"
)

// Event is a security/business occurrence worth an audit trail entry: every
// failed or state-changing operation emits one. Durable storage of events is
// the audit collaborator's responsibility, not this core's.
type Event struct {
	Action        string // e.g. reservation.hold, reservation.cancel
	ActorID       string
	Role          string
	ReservationID string
	Outcome       string // created, confirmed, cancelled, rejected, noop
	Detail        string
	At            time.Time
}

// Sink receives audit events.
type Sink interface {
	Record(ctx context.Context, ev Event)
}

// LogSink writes events to the structured log, which the collaborator tails.
type LogSink struct {
	log *zap.Logger
}

func NewLogSink() *LogSink {
	return &LogSink{log: logger.Get()}
}

func (s *LogSink) Record(_ context.Context, ev Event) {
	s.log.Info("audit event",
		zap.String("action", ev.Action),
		zap.String("actor_id", ev.ActorID),
		zap.String("role", ev.Role),
		zap.String("reservation_id", ev.ReservationID),
		zap.String("outcome", ev.Outcome),
		zap.String("detail", ev.Detail),
		zap.Time("at", ev.At),
	)
}

// NopSink discards events; used in tests.
type NopSink struct{}

func (NopSink) Record(context.Context, Event) {}
