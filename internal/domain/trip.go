package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip is a single journey made by one vehicle.
// Code is the human-readable identifier shown to operators; ID is the
// system identifier. EndedAt is nil while the trip is in progress.
type Trip struct {
	ID          uuid.UUID
	Code        string
	VehicleID   uuid.UUID
	DriverName  string
	Origin      string
	Destination string
	StartedAt   time.Time
	EndedAt     *time.Time
	DistanceKm  *float64
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TripFilter narrows a trip listing. A nil VehicleID means all vehicles.
type TripFilter struct {
	VehicleID *uuid.UUID
}
