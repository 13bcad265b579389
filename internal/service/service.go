// Package service contains the business logic for the fleet dashboard API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fleetdash/backend/internal/events"
	"github.com/fleetdash/backend/internal/expiry"
	"github.com/fleetdash/backend/internal/metrics"
)

// Clock returns the current time. Services take it as a dependency so tests
// can pin "now".
type Clock func() time.Time

// notifier publishes change events on behalf of a service.
// A failed publish is logged; the write that caused it has already succeeded.
type notifier struct {
	pub events.Publisher
	log *slog.Logger
	now Clock
}

func newNotifier(pub events.Publisher, log *slog.Logger, now Clock) notifier {
	if pub == nil {
		pub = events.Discard
	}
	if log == nil {
		log = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return notifier{pub: pub, log: log, now: now}
}

func (n notifier) notify(ctx context.Context, t events.Type, id uuid.UUID, payload any) {
	if err := n.pub.Publish(ctx, events.New(t, id, n.now(), payload)); err != nil {
		n.log.WarnContext(ctx, "publish change event", "type", string(t), "entity_id", id.String(), "error", err)
	}
}

// evaluate classifies one date and records the outcome.
func evaluate(in expiry.Input, now time.Time) expiry.Status {
	s := expiry.Evaluate(in, now)
	metrics.ExpiryClassificationsTotal.WithLabelValues(string(s)).Inc()
	return s
}
