package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/fleetdash/backend/internal/domain"
	"github.com/fleetdash/backend/internal/repo"
)

// ExportService assembles the flat compliance export: one row per dated
// obligation across the whole fleet.
type ExportService struct {
	vehicles  repo.VehicleRepo
	documents repo.DocumentRepo
}

// NewExportService constructs an ExportService backed by the provided repos.
func NewExportService(vehicles repo.VehicleRepo, documents repo.DocumentRepo) *ExportService {
	return &ExportService{vehicles: vehicles, documents: documents}
}

// Export returns, for each vehicle ordered by plate, its three own expiry
// fields followed by its documents. Unrecorded dates are included so the
// export shows what is missing.
func (s *ExportService) Export(ctx context.Context) ([]domain.ComplianceRow, error) {
	var (
		vehicles  []domain.Vehicle
		documents []domain.Document
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		vehicles, err = s.vehicles.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		documents, err = s.documents.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	byVehicle := make(map[uuid.UUID][]domain.Document, len(vehicles))
	for _, d := range documents {
		byVehicle[d.VehicleID] = append(byVehicle[d.VehicleID], d)
	}

	sort.SliceStable(vehicles, func(i, j int) bool {
		return vehicles[i].PlateNumber < vehicles[j].PlateNumber
	})

	rows := []domain.ComplianceRow{}
	for _, v := range vehicles {
		base := domain.ComplianceRow{VehicleID: v.ID, PlateNumber: v.PlateNumber, VehicleName: v.Name}
		for _, f := range v.ExpiryFields() {
			row := base
			row.Source = domain.SourceVehicle
			row.Field = f.Name
			row.ExpiresAt = f.Date
			rows = append(rows, row)
		}
		for _, d := range byVehicle[v.ID] {
			row := base
			row.Source = domain.SourceDocument
			row.Field = string(d.Kind)
			row.DocumentNumber = d.Number
			row.ExpiresAt = d.ExpiresAt
			rows = append(rows, row)
		}
	}
	return rows, nil
}
