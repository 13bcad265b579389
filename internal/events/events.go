// Package events publishes change notifications for fleet records so other
// consumers (the dashboard's realtime channel, audit sinks) can follow writes
// without polling the database.
//
// Publishing is best effort: a failed publish is logged and counted, it never
// fails the write that produced it.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Type names what happened to which kind of record, e.g. "trip.created".
type Type string

const (
	VehicleCreated  Type = "vehicle.created"
	VehicleUpdated  Type = "vehicle.updated"
	VehicleDeleted  Type = "vehicle.deleted"
	TripCreated     Type = "trip.created"
	TripUpdated     Type = "trip.updated"
	TripDeleted     Type = "trip.deleted"
	DocumentCreated Type = "document.created"
	DocumentUpdated Type = "document.updated"
	DocumentDeleted Type = "document.deleted"
)

// Event is one change notification. Payload is the record after the change,
// or nil for deletions.
type Event struct {
	Type       Type      `json:"type"`
	EntityID   uuid.UUID `json:"entity_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload,omitempty"`
}

// New builds an Event stamped with at in UTC.
func New(t Type, id uuid.UUID, at time.Time, payload any) Event {
	return Event{Type: t, EntityID: id, OccurredAt: at.UTC(), Payload: payload}
}

// Publisher delivers events to a sink.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(ctx context.Context, e Event) error

func (f PublisherFunc) Publish(ctx context.Context, e Event) error { return f(ctx, e) }

// Discard drops every event. Useful for tools that reuse services without a broker.
var Discard Publisher = PublisherFunc(func(context.Context, Event) error { return nil })
