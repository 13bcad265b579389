package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/fleetdash/backend/internal/domain"
)

// VehicleRepo defines the persistence operations for Vehicles.
type VehicleRepo interface {
	// Create inserts a new vehicle and returns the persisted record.
	// Returns domain.ErrConflict if the plate number is already registered.
	Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)

	// GetByID retrieves a vehicle by UUID.
	// Returns domain.ErrNotFound if no vehicle with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error)

	// List returns every vehicle ordered by plate number. Used by the map
	// view and the overview, which need the whole fleet.
	List(ctx context.Context) ([]domain.Vehicle, error)

	// ListPaged returns one page of vehicles ordered by plate number and the total count.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Vehicle, int64, error)

	// Update overwrites the mutable fields of a vehicle.
	// Returns domain.ErrNotFound or domain.ErrConflict.
	Update(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error)

	// Delete removes a vehicle and, by cascade, its trips and documents.
	Delete(ctx context.Context, id uuid.UUID) error
}

type pgVehicleRepo struct {
	db db
}

// NewVehicleRepo constructs a VehicleRepo backed by the provided db connection.
func NewVehicleRepo(db db) VehicleRepo {
	return &pgVehicleRepo{db: db}
}

const vehicleColumns = `id, plate_number, name, latitude, longitude, status,
	insurance_expiry, registration_expiry, inspection_expiry, notes, created_at, updated_at`

func vehicleArgs(v domain.Vehicle) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":                  v.ID,
		"plate_number":        v.PlateNumber,
		"name":                v.Name,
		"latitude":            v.Latitude,
		"longitude":           v.Longitude,
		"status":              string(v.Status),
		"insurance_expiry":    v.InsuranceExpiry,
		"registration_expiry": v.RegistrationExpiry,
		"inspection_expiry":   v.InspectionExpiry,
		"notes":               v.Notes,
	}
}

func (r *pgVehicleRepo) Create(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	const q = `
		INSERT INTO vehicles (plate_number, name, latitude, longitude, status,
		                      insurance_expiry, registration_expiry, inspection_expiry, notes)
		VALUES (@plate_number, @name, @latitude, @longitude, @status,
		        @insurance_expiry, @registration_expiry, @inspection_expiry, @notes)
		RETURNING ` + vehicleColumns

	result, err := scanVehicle(r.db.QueryRow(ctx, q, vehicleArgs(v)))
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.Create: %w", mapWriteError(err))
	}
	return result, nil
}

func (r *pgVehicleRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error) {
	const q = `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = @id`

	result, err := scanVehicle(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgVehicleRepo) List(ctx context.Context) ([]domain.Vehicle, error) {
	const q = `SELECT ` + vehicleColumns + ` FROM vehicles ORDER BY plate_number`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.VehicleRepo.List: %w", err)
	}
	defer rows.Close()

	vehicles := []domain.Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.VehicleRepo.List: scan: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.VehicleRepo.List: rows: %w", err)
	}
	return vehicles, nil
}

func (r *pgVehicleRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Vehicle, int64, error) {
	const q = `
		SELECT ` + vehicleColumns + `, COUNT(*) OVER() AS total
		FROM vehicles
		ORDER BY plate_number
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.VehicleRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	vehicles := []domain.Vehicle{}
	var total int64
	for rows.Next() {
		v, err := scanVehicle(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.VehicleRepo.ListPaged: scan: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.VehicleRepo.ListPaged: rows: %w", err)
	}
	return vehicles, total, nil
}

func (r *pgVehicleRepo) Update(ctx context.Context, v domain.Vehicle) (domain.Vehicle, error) {
	const q = `
		UPDATE vehicles
		SET plate_number        = @plate_number,
		    name                = @name,
		    latitude            = @latitude,
		    longitude           = @longitude,
		    status              = @status,
		    insurance_expiry    = @insurance_expiry,
		    registration_expiry = @registration_expiry,
		    inspection_expiry   = @inspection_expiry,
		    notes               = @notes,
		    updated_at          = now()
		WHERE id = @id
		RETURNING ` + vehicleColumns

	result, err := scanVehicle(r.db.QueryRow(ctx, q, vehicleArgs(v)))
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("repo.VehicleRepo.Update: %w", mapWriteError(err))
	}
	return result, nil
}

func (r *pgVehicleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM vehicles WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.VehicleRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.VehicleRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanVehicle maps a single database row into a domain.Vehicle.
func scanVehicle(s scanner, extra ...any) (domain.Vehicle, error) {
	var (
		v            domain.Vehicle
		id           pgtype.UUID
		status       string
		insurance    pgtype.Date
		registration pgtype.Date
		inspection   pgtype.Date
	)

	dest := []any{
		&id, &v.PlateNumber, &v.Name, &v.Latitude, &v.Longitude, &status,
		&insurance, &registration, &inspection, &v.Notes, &v.CreatedAt, &v.UpdatedAt,
	}
	if err := s.Scan(append(dest, extra...)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Vehicle{}, domain.ErrNotFound
		}
		return domain.Vehicle{}, err
	}

	v.ID = uuid.UUID(id.Bytes)
	v.Status = domain.VehicleStatus(status)
	v.InsuranceExpiry = datePtr(insurance)
	v.RegistrationExpiry = datePtr(registration)
	v.InspectionExpiry = datePtr(inspection)
	return v, nil
}

// datePtr converts a nullable DATE column into a *time.Time.
func datePtr(d pgtype.Date) *time.Time {
	if !d.Valid {
		return nil
	}
	t := d.Time
	return &t
}
