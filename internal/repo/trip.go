// Package repo contains all database access logic for the fleet dashboard.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/fleetdash/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool lets integration tests
// pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// pgForeignKeyViolation is the SQLSTATE for foreign_key_violation.
const pgForeignKeyViolation = "23503"

// mapWriteError converts constraint violations into domain sentinels.
// Unique violations become ErrConflict. Every foreign key references
// vehicles, so a dangling one is ErrVehicleNotFound.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return domain.ErrVehicleNotFound
		}
	}
	return err
}

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres implementation.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record.
	// Returns domain.ErrConflict if the trip code is already taken.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its UUID primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// ListPaged returns one page of trips ordered by started_at descending,
	// and the total number of trips matching the filter.
	ListPaged(ctx context.Context, f domain.TripFilter, p domain.PaginationParams) ([]domain.Trip, int64, error)

	// Update overwrites the mutable fields of an existing trip. The code is
	// immutable. Returns domain.ErrNotFound if no trip with that ID exists.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// Delete removes a trip by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, code, vehicle_id, driver_name, origin, destination,
	started_at, ended_at, distance_km, notes, created_at, updated_at`

// Create inserts a new trip row and returns the full persisted record.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (code, vehicle_id, driver_name, origin, destination,
		                   started_at, ended_at, distance_km, notes)
		VALUES (@code, @vehicle_id, @driver_name, @origin, @destination,
		        @started_at, @ended_at, @distance_km, @notes)
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"code":        trip.Code,
		"vehicle_id":  trip.VehicleID,
		"driver_name": trip.DriverName,
		"origin":      trip.Origin,
		"destination": trip.Destination,
		"started_at":  trip.StartedAt,
		"ended_at":    trip.EndedAt, // nil becomes NULL
		"distance_km": trip.DistanceKm,
		"notes":       trip.Notes,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", mapWriteError(err))
	}
	return result, nil
}

// GetByID retrieves a trip by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListPaged returns one page of trips, most recent first.
// COUNT(*) OVER() carries the unpaged total on every row so one round trip suffices.
func (r *pgTripRepo) ListPaged(ctx context.Context, f domain.TripFilter, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	const q = `
		SELECT ` + tripColumns + `, COUNT(*) OVER() AS total
		FROM trips
		WHERE (@vehicle_id::uuid IS NULL OR vehicle_id = @vehicle_id::uuid)
		ORDER BY started_at DESC, id
		LIMIT @limit OFFSET @offset`

	args := pgx.NamedArgs{
		"vehicle_id": f.VehicleID,
		"limit":      p.Limit,
		"offset":     p.Offset(),
	}

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	trips := []domain.Trip{}
	var total int64
	for rows.Next() {
		t, err := scanTrip(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListPaged: rows: %w", err)
	}
	return trips, total, nil
}

// Update overwrites the mutable fields of a trip and returns the updated record.
func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET vehicle_id  = @vehicle_id,
		    driver_name = @driver_name,
		    origin      = @origin,
		    destination = @destination,
		    started_at  = @started_at,
		    ended_at    = @ended_at,
		    distance_km = @distance_km,
		    notes       = @notes,
		    updated_at  = now()
		WHERE id = @id
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"id":          trip.ID,
		"vehicle_id":  trip.VehicleID,
		"driver_name": trip.DriverName,
		"origin":      trip.Origin,
		"destination": trip.Destination,
		"started_at":  trip.StartedAt,
		"ended_at":    trip.EndedAt,
		"distance_km": trip.DistanceKm,
		"notes":       trip.Notes,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", mapWriteError(err))
	}
	return result, nil
}

// Delete removes a trip by primary key.
func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanTrip maps a single database row into a domain.Trip.
// extra receives any trailing columns (e.g. the window total).
func scanTrip(s scanner, extra ...any) (domain.Trip, error) {
	var (
		t         domain.Trip
		id        pgtype.UUID
		vehicleID pgtype.UUID
		endedAt   pgtype.Timestamptz
		distance  pgtype.Float8
	)

	dest := []any{
		&id, &t.Code, &vehicleID, &t.DriverName, &t.Origin, &t.Destination,
		&t.StartedAt, &endedAt, &distance, &t.Notes, &t.CreatedAt, &t.UpdatedAt,
	}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.VehicleID = uuid.UUID(vehicleID.Bytes)
	if endedAt.Valid {
		ea := endedAt.Time
		t.EndedAt = &ea
	}
	if distance.Valid {
		d := distance.Float64
		t.DistanceKm = &d
	}
	return t, nil
}
