package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fleetdash/backend/internal/domain"
	"github.com/fleetdash/backend/internal/events"
	"github.com/fleetdash/backend/internal/expiry"
	"github.com/fleetdash/backend/internal/repo"
)

// Marker is the map view of a vehicle: where it is, and the most urgent of
// its expiry dates.
type Marker struct {
	ID          uuid.UUID
	PlateNumber string
	Name        string
	Latitude    float64
	Longitude   float64
	Status      domain.VehicleStatus
	Expiry      expiry.Status
}

// VehicleService implements business logic for Vehicle operations.
type VehicleService struct {
	vehicles repo.VehicleRepo
	notifier
}

// NewVehicleService constructs a VehicleService. pub may be nil.
func NewVehicleService(vehicles repo.VehicleRepo, pub events.Publisher, log *slog.Logger, now Clock) *VehicleService {
	return &VehicleService{vehicles: vehicles, notifier: newNotifier(pub, log, now)}
}

// Create validates and persists a new vehicle. An empty status defaults to active.
// Returns domain.ErrValidation for invalid input, domain.ErrConflict for a
// duplicate plate number.
func (s *VehicleService) Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	if v.Status == "" {
		v.Status = domain.VehicleActive
	}
	v, err := normalizeVehicle(v)
	if err != nil {
		return domain.Vehicle{}, err
	}
	created, err := s.vehicles.Create(ctx, v)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("service.VehicleService.Create: %w", err)
	}
	s.notify(ctx, events.VehicleCreated, created.ID, created)
	return created, nil
}

// GetByID returns a single vehicle by ID.
func (s *VehicleService) GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error) {
	v, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("service.VehicleService.GetByID: %w", err)
	}
	return v, nil
}

// ListPaged returns one page of vehicles ordered by plate number and the total count.
func (s *VehicleService) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Vehicle, int64, error) {
	vs, total, err := s.vehicles.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.VehicleService.ListPaged: %w", err)
	}
	if vs == nil {
		vs = []domain.Vehicle{}
	}
	return vs, total, nil
}

// Markers returns every vehicle as a map marker, with the worst expiry status
// across its dated fields evaluated at now.
func (s *VehicleService) Markers(ctx context.Context, now time.Time) ([]Marker, error) {
	vs, err := s.vehicles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.VehicleService.Markers: %w", err)
	}

	markers := make([]Marker, 0, len(vs))
	for _, v := range vs {
		fields := v.ExpiryFields()
		statuses := make([]expiry.Status, 0, len(fields))
		for _, f := range fields {
			statuses = append(statuses, evaluate(expiry.FromDate(f.Date), now))
		}
		markers = append(markers, Marker{
			ID:          v.ID,
			PlateNumber: v.PlateNumber,
			Name:        v.Name,
			Latitude:    v.Latitude,
			Longitude:   v.Longitude,
			Status:      v.Status,
			Expiry:      expiry.Worst(statuses...),
		})
	}
	return markers, nil
}

// Update validates and persists changes to an existing vehicle.
func (s *VehicleService) Update(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	v, err := normalizeVehicle(v)
	if err != nil {
		return domain.Vehicle{}, err
	}
	updated, err := s.vehicles.Update(ctx, v)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("service.VehicleService.Update: %w", err)
	}
	s.notify(ctx, events.VehicleUpdated, updated.ID, updated)
	return updated, nil
}

// Delete removes a vehicle together with its trips and documents.
func (s *VehicleService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.vehicles.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.VehicleService.Delete: %w", err)
	}
	s.notify(ctx, events.VehicleDeleted, id, nil)
	return nil
}

// normalizeVehicle trims text fields and enforces the vehicle rules:
//   - plate number and name are required
//   - latitude within [-90, 90], longitude within [-180, 180]
//   - status is one of the known statuses
func normalizeVehicle(v domain.Vehicle) (domain.Vehicle, error) {
	v.PlateNumber = strings.ToUpper(strings.TrimSpace(v.PlateNumber))
	v.Name = strings.TrimSpace(v.Name)
	v.Notes = strings.TrimSpace(v.Notes)

	switch {
	case v.PlateNumber == "":
		return v, fmt.Errorf("%w: plate_number is required", domain.ErrValidation)
	case v.Name == "":
		return v, fmt.Errorf("%w: name is required", domain.ErrValidation)
	case v.Latitude < -90 || v.Latitude > 90:
		return v, fmt.Errorf("%w: latitude must be between -90 and 90", domain.ErrValidation)
	case v.Longitude < -180 || v.Longitude > 180:
		return v, fmt.Errorf("%w: longitude must be between -180 and 180", domain.ErrValidation)
	case !v.Status.Valid():
		return v, fmt.Errorf("%w: status must be one of active, maintenance, inactive", domain.ErrValidation)
	}
	return v, nil
}
