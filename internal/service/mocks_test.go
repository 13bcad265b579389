package service_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fleetdash/backend/internal/domain"
	"github.com/fleetdash/backend/internal/events"
	"github.com/fleetdash/backend/internal/repo"
)

// Hand-written test doubles. Each method is a function field; set only the
// ones a test needs.

type mockVehicleRepo struct {
	create    func(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Vehicle, error)
	list      func(ctx context.Context) ([]domain.Vehicle, error)
	listPaged func(ctx context.Context, p domain.PaginationParams) ([]domain.Vehicle, int64, error)
	update    func(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)
	delete    func(ctx context.Context, id uuid.UUID) error
}

func (m *mockVehicleRepo) Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	return m.create(ctx, v)
}
func (m *mockVehicleRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error) {
	return m.getByID(ctx, id)
}
func (m *mockVehicleRepo) List(ctx context.Context) ([]domain.Vehicle, error) {
	return m.list(ctx)
}
func (m *mockVehicleRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Vehicle, int64, error) {
	return m.listPaged(ctx, p)
}
func (m *mockVehicleRepo) Update(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	return m.update(ctx, v)
}
func (m *mockVehicleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ repo.VehicleRepo = (*mockVehicleRepo)(nil)

type mockTripRepo struct {
	create    func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	listPaged func(ctx context.Context, f domain.TripFilter, p domain.PaginationParams) ([]domain.Trip, int64, error)
	update    func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	delete    func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) ListPaged(ctx context.Context, f domain.TripFilter, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.listPaged(ctx, f, p)
}
func (m *mockTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.update(ctx, trip)
}
func (m *mockTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ repo.TripRepo = (*mockTripRepo)(nil)

type mockDocumentRepo struct {
	create        func(ctx context.Context, d domain.Document) (domain.Document, error)
	getByID       func(ctx context.Context, vehicleID, documentID uuid.UUID) (domain.Document, error)
	listByVehicle func(ctx context.Context, vehicleID uuid.UUID) ([]domain.Document, error)
	list          func(ctx context.Context) ([]domain.Document, error)
	update        func(ctx context.Context, d domain.Document) (domain.Document, error)
	delete        func(ctx context.Context, vehicleID, documentID uuid.UUID) error
}

func (m *mockDocumentRepo) Create(ctx context.Context, d domain.Document) (domain.Document, error) {
	return m.create(ctx, d)
}
func (m *mockDocumentRepo) GetByID(ctx context.Context, vehicleID, documentID uuid.UUID) (domain.Document, error) {
	return m.getByID(ctx, vehicleID, documentID)
}
func (m *mockDocumentRepo) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]domain.Document, error) {
	return m.listByVehicle(ctx, vehicleID)
}
func (m *mockDocumentRepo) List(ctx context.Context) ([]domain.Document, error) {
	return m.list(ctx)
}
func (m *mockDocumentRepo) Update(ctx context.Context, d domain.Document) (domain.Document, error) {
	return m.update(ctx, d)
}
func (m *mockDocumentRepo) Delete(ctx context.Context, vehicleID, documentID uuid.UUID) error {
	return m.delete(ctx, vehicleID, documentID)
}

var _ repo.DocumentRepo = (*mockDocumentRepo)(nil)

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// now is the pinned evaluation time for every service test.
var now = time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)

func clock() time.Time { return now }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// vehicleExists is a VehicleRepo whose GetByID finds every id.
func vehicleExists() *mockVehicleRepo {
	return &mockVehicleRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Vehicle, error) {
			return domain.Vehicle{ID: id}, nil
		},
	}
}

// vehicleMissing is a VehicleRepo whose GetByID finds nothing.
func vehicleMissing() *mockVehicleRepo {
	return &mockVehicleRepo{
		getByID: func(context.Context, uuid.UUID) (domain.Vehicle, error) {
			return domain.Vehicle{}, domain.ErrNotFound
		},
	}
}
