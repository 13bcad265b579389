package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fleetdash/backend/internal/domain"
	"github.com/fleetdash/backend/internal/events"
	"github.com/fleetdash/backend/internal/metrics"
	"github.com/fleetdash/backend/internal/repo"
)

// DefaultCodeAttempts is how many trip codes Create draws before giving up.
const DefaultCodeAttempts = 5

// CodeGenerator produces candidate trip codes. *tripcode.Generator satisfies it.
type CodeGenerator interface {
	Generate(now time.Time) string
}

// TripService implements business logic for Trip operations.
type TripService struct {
	trips    repo.TripRepo
	vehicles repo.VehicleRepo
	codes    CodeGenerator
	attempts int
	notifier
}

// NewTripService constructs a TripService. attempts below 1 uses DefaultCodeAttempts.
func NewTripService(trips repo.TripRepo, vehicles repo.VehicleRepo, codes CodeGenerator, attempts int, pub events.Publisher, log *slog.Logger, now Clock) *TripService {
	if attempts < 1 {
		attempts = DefaultCodeAttempts
	}
	return &TripService{
		trips:    trips,
		vehicles: vehicles,
		codes:    codes,
		attempts: attempts,
		notifier: newNotifier(pub, log, now),
	}
}

// Create validates the trip, verifies the vehicle exists, assigns a fresh
// trip code, and persists it. Any code on the input is ignored.
//
// The code generator does not guarantee uniqueness, so a unique-constraint
// rejection draws a new code; after the configured number of attempts Create
// returns domain.ErrConflict.
func (s *TripService) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	trip, err := normalizeTrip(trip)
	if err != nil {
		return domain.Trip{}, err
	}
	if err := s.checkVehicle(ctx, trip.VehicleID); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	for attempt := 1; attempt <= s.attempts; attempt++ {
		trip.Code = s.codes.Generate(s.now())
		metrics.TripCodesGeneratedTotal.Inc()

		created, err := s.trips.Create(ctx, trip)
		if errors.Is(err, domain.ErrConflict) {
			metrics.TripCodeCollisionsTotal.Inc()
			s.log.WarnContext(ctx, "trip code collision", "code", trip.Code, "attempt", attempt)
			continue
		}
		if err != nil {
			return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
		}
		s.notify(ctx, events.TripCreated, created.ID, created)
		return created, nil
	}
	return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w: no free trip code after %d attempts", domain.ErrConflict, s.attempts)
}

// GetByID returns a single trip by ID.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	t, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return t, nil
}

// ListPaged returns one page of trips, most recent first, and the total
// number matching f. Always returns a non-nil slice.
func (s *TripService) ListPaged(ctx context.Context, f domain.TripFilter, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	trips, total, err := s.trips.ListPaged(ctx, f, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.ListPaged: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, total, nil
}

// Update validates and persists changes to an existing trip. The code never changes.
func (s *TripService) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	trip, err := normalizeTrip(trip)
	if err != nil {
		return domain.Trip{}, err
	}
	if err := s.checkVehicle(ctx, trip.VehicleID); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	updated, err := s.trips.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	s.notify(ctx, events.TripUpdated, updated.ID, updated)
	return updated, nil
}

// Delete removes a trip by ID.
func (s *TripService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.trips.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	s.notify(ctx, events.TripDeleted, id, nil)
	return nil
}

// checkVehicle reports ErrVehicleNotFound when the trip's vehicle does not exist.
func (s *TripService) checkVehicle(ctx context.Context, id uuid.UUID) error {
	_, err := s.vehicles.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrVehicleNotFound
	}
	if err != nil {
		return fmt.Errorf("vehicle: %w", err)
	}
	return nil
}

// normalizeTrip enforces the rules common to Create and Update.
//   - vehicle, driver, origin, destination and start time are required
//   - ended_at, if set, must not be before started_at
//   - distance, if set, must not be negative
func normalizeTrip(t domain.Trip) (domain.Trip, error) {
	t.DriverName = strings.TrimSpace(t.DriverName)
	t.Origin = strings.TrimSpace(t.Origin)
	t.Destination = strings.TrimSpace(t.Destination)
	t.Notes = strings.TrimSpace(t.Notes)

	switch {
	case t.VehicleID == uuid.Nil:
		return t, fmt.Errorf("%w: vehicle_id is required", domain.ErrValidation)
	case t.DriverName == "":
		return t, fmt.Errorf("%w: driver_name is required", domain.ErrValidation)
	case t.Origin == "":
		return t, fmt.Errorf("%w: origin is required", domain.ErrValidation)
	case t.Destination == "":
		return t, fmt.Errorf("%w: destination is required", domain.ErrValidation)
	case t.StartedAt.IsZero():
		return t, fmt.Errorf("%w: started_at is required", domain.ErrValidation)
	case t.EndedAt != nil && t.EndedAt.Before(t.StartedAt):
		return t, fmt.Errorf("%w: ended_at must not be before started_at", domain.ErrValidation)
	case t.DistanceKm != nil && *t.DistanceKm < 0:
		return t, fmt.Errorf("%w: distance_km must not be negative", domain.ErrValidation)
	}
	return t, nil
}
