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

// DefaultExpiringWithin is the look-ahead used when none is given, matching
// the warning threshold.
const DefaultExpiringWithin = expiry.WarningDays

// MaxExpiringWithin bounds the look-ahead of Expiring.
const MaxExpiringWithin = 366

// DocumentService implements business logic for vehicle documents.
type DocumentService struct {
	vehicles  repo.VehicleRepo
	documents repo.DocumentRepo
	notifier
}

// NewDocumentService constructs a DocumentService.
func NewDocumentService(vehicles repo.VehicleRepo, documents repo.DocumentRepo, pub events.Publisher, log *slog.Logger, now Clock) *DocumentService {
	return &DocumentService{vehicles: vehicles, documents: documents, notifier: newNotifier(pub, log, now)}
}

// Create verifies the parent vehicle exists, validates, then persists.
func (s *DocumentService) Create(ctx context.Context, d domain.Document) (domain.Document, error) {
	if _, err := s.vehicles.GetByID(ctx, d.VehicleID); err != nil {
		return domain.Document{}, fmt.Errorf("service.DocumentService.Create: %w", err)
	}
	d, err := normalizeDocument(d)
	if err != nil {
		return domain.Document{}, err
	}
	created, err := s.documents.Create(ctx, d)
	if err != nil {
		return domain.Document{}, fmt.Errorf("service.DocumentService.Create: %w", err)
	}
	s.notify(ctx, events.DocumentCreated, created.ID, created)
	return created, nil
}

// GetByID returns a document scoped to its vehicle.
func (s *DocumentService) GetByID(ctx context.Context, vehicleID, documentID uuid.UUID) (domain.Document, error) {
	d, err := s.documents.GetByID(ctx, vehicleID, documentID)
	if err != nil {
		return domain.Document{}, fmt.Errorf("service.DocumentService.GetByID: %w", err)
	}
	return d, nil
}

// ListByVehicle returns a vehicle's documents, soonest expiry first.
// Returns domain.ErrNotFound if the vehicle does not exist.
func (s *DocumentService) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]domain.Document, error) {
	if _, err := s.vehicles.GetByID(ctx, vehicleID); err != nil {
		return nil, fmt.Errorf("service.DocumentService.ListByVehicle: %w", err)
	}
	docs, err := s.documents.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("service.DocumentService.ListByVehicle: %w", err)
	}
	if docs == nil {
		return []domain.Document{}, nil
	}
	return docs, nil
}

// Update validates and persists changes to a document.
func (s *DocumentService) Update(ctx context.Context, d domain.Document) (domain.Document, error) {
	d, err := normalizeDocument(d)
	if err != nil {
		return domain.Document{}, err
	}
	updated, err := s.documents.Update(ctx, d)
	if err != nil {
		return domain.Document{}, fmt.Errorf("service.DocumentService.Update: %w", err)
	}
	s.notify(ctx, events.DocumentUpdated, updated.ID, updated)
	return updated, nil
}

// Delete removes a document scoped to its vehicle.
func (s *DocumentService) Delete(ctx context.Context, vehicleID, documentID uuid.UUID) error {
	if err := s.documents.Delete(ctx, vehicleID, documentID); err != nil {
		return fmt.Errorf("service.DocumentService.Delete: %w", err)
	}
	s.notify(ctx, events.DocumentDeleted, documentID, nil)
	return nil
}

// Expiring returns every document whose recorded expiry is at most within
// days after now's date, expired ones included, soonest first. Documents
// without an expiry date are never returned.
func (s *DocumentService) Expiring(ctx context.Context, within int, now time.Time) ([]domain.Document, error) {
	if within < 0 || within > MaxExpiringWithin {
		return nil, fmt.Errorf("%w: within must be between 0 and %d", domain.ErrValidation, MaxExpiringWithin)
	}
	docs, err := s.documents.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.DocumentService.Expiring: %w", err)
	}

	out := []domain.Document{}
	for _, d := range docs {
		days, err := expiry.DaysLeft(expiry.FromDate(d.ExpiresAt), now)
		if err != nil {
			continue
		}
		if days <= within {
			out = append(out, d)
		}
	}
	return out, nil
}

// normalizeDocument trims text fields and checks the kind.
func normalizeDocument(d domain.Document) (domain.Document, error) {
	d.Kind = domain.DocumentKind(strings.ToLower(strings.TrimSpace(string(d.Kind))))
	d.Number = strings.TrimSpace(d.Number)
	d.Notes = strings.TrimSpace(d.Notes)

	if !d.Kind.Valid() {
		return d, fmt.Errorf("%w: kind must be one of insurance, registration, inspection, permit, other", domain.ErrValidation)
	}
	return d, nil
}
