package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/fleetdash/backend/internal/domain"
)

// DocumentRepo defines the persistence operations for vehicle Documents.
// Single-row operations are scoped by vehicleID to enforce ownership.
type DocumentRepo interface {
	// Create inserts a document. Returns domain.ErrNotFound if the vehicle is gone.
	Create(ctx context.Context, d domain.Document) (domain.Document, error)

	// GetByID retrieves a document by ID, scoped to the given vehicle.
	GetByID(ctx context.Context, vehicleID, documentID uuid.UUID) (domain.Document, error)

	// ListByVehicle returns a vehicle's documents, soonest expiry first,
	// documents without an expiry date last.
	ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]domain.Document, error)

	// List returns every document across the fleet in the same order.
	List(ctx context.Context) ([]domain.Document, error)

	// Update overwrites the mutable fields of a document, scoped to its vehicle.
	Update(ctx context.Context, d domain.Document) (domain.Document, error)

	// Delete removes a document, scoped to its vehicle.
	Delete(ctx context.Context, vehicleID, documentID uuid.UUID) error
}

type pgDocumentRepo struct {
	db db
}

// NewDocumentRepo constructs a DocumentRepo backed by the provided db connection.
func NewDocumentRepo(db db) DocumentRepo {
	return &pgDocumentRepo{db: db}
}

const documentColumns = `id, vehicle_id, kind, number, expires_at, notes, created_at, updated_at`

func (r *pgDocumentRepo) Create(ctx context.Context, d domain.Document) (domain.Document, error) {
	const q = `
		INSERT INTO documents (vehicle_id, kind, number, expires_at, notes)
		VALUES (@vehicle_id, @kind, @number, @expires_at, @notes)
		RETURNING ` + documentColumns

	args := pgx.NamedArgs{
		"vehicle_id": d.VehicleID,
		"kind":       string(d.Kind),
		"number":     d.Number,
		"expires_at": d.ExpiresAt,
		"notes":      d.Notes,
	}

	result, err := scanDocument(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Document{}, fmt.Errorf("repo.DocumentRepo.Create: %w", mapWriteError(err))
	}
	return result, nil
}

func (r *pgDocumentRepo) GetByID(ctx context.Context, vehicleID, documentID uuid.UUID) (domain.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE id = @id AND vehicle_id = @vehicle_id`

	result, err := scanDocument(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": documentID, "vehicle_id": vehicleID}))
	if err != nil {
		return domain.Document{}, fmt.Errorf("repo.DocumentRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgDocumentRepo) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]domain.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE vehicle_id = @vehicle_id
		ORDER BY expires_at ASC NULLS LAST, kind`

	docs, err := r.query(ctx, q, pgx.NamedArgs{"vehicle_id": vehicleID})
	if err != nil {
		return nil, fmt.Errorf("repo.DocumentRepo.ListByVehicle: %w", err)
	}
	return docs, nil
}

func (r *pgDocumentRepo) List(ctx context.Context) ([]domain.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents
		ORDER BY expires_at ASC NULLS LAST, vehicle_id, kind`

	docs, err := r.query(ctx, q, pgx.NamedArgs{})
	if err != nil {
		return nil, fmt.Errorf("repo.DocumentRepo.List: %w", err)
	}
	return docs, nil
}

func (r *pgDocumentRepo) query(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.Document, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []domain.Document{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return docs, nil
}

func (r *pgDocumentRepo) Update(ctx context.Context, d domain.Document) (domain.Document, error) {
	const q = `
		UPDATE documents
		SET kind       = @kind,
		    number     = @number,
		    expires_at = @expires_at,
		    notes      = @notes,
		    updated_at = now()
		WHERE id = @id AND vehicle_id = @vehicle_id
		RETURNING ` + documentColumns

	args := pgx.NamedArgs{
		"id":         d.ID,
		"vehicle_id": d.VehicleID,
		"kind":       string(d.Kind),
		"number":     d.Number,
		"expires_at": d.ExpiresAt,
		"notes":      d.Notes,
	}

	result, err := scanDocument(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Document{}, fmt.Errorf("repo.DocumentRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgDocumentRepo) Delete(ctx context.Context, vehicleID, documentID uuid.UUID) error {
	const q = `DELETE FROM documents WHERE id = @id AND vehicle_id = @vehicle_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": documentID, "vehicle_id": vehicleID})
	if err != nil {
		return fmt.Errorf("repo.DocumentRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.DocumentRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func scanDocument(s scanner) (domain.Document, error) {
	var (
		d         domain.Document
		id        pgtype.UUID
		vehicleID pgtype.UUID
		kind      string
		expiresAt pgtype.Date
	)
	err := s.Scan(&id, &vehicleID, &kind, &d.Number, &expiresAt, &d.Notes, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Document{}, domain.ErrNotFound
		}
		return domain.Document{}, err
	}
	d.ID = uuid.UUID(id.Bytes)
	d.VehicleID = uuid.UUID(vehicleID.Bytes)
	d.Kind = domain.DocumentKind(kind)
	d.ExpiresAt = datePtr(expiresAt)
	return d, nil
}
