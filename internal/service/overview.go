package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fleetdash/backend/internal/domain"
	"github.com/fleetdash/backend/internal/expiry"
	"github.com/fleetdash/backend/internal/repo"
)

// OverviewService builds the dashboard summary.
type OverviewService struct {
	vehicles  repo.VehicleRepo
	documents repo.DocumentRepo
}

// NewOverviewService constructs an OverviewService.
func NewOverviewService(vehicles repo.VehicleRepo, documents repo.DocumentRepo) *OverviewService {
	return &OverviewService{vehicles: vehicles, documents: documents}
}

// Overview loads vehicles and documents concurrently and classifies every
// expiry date against the same now. Every status appears in the result, with
// zero counts where nothing matched.
func (s *OverviewService) Overview(ctx context.Context, now time.Time) (domain.Overview, error) {
	var (
		vehicles  []domain.Vehicle
		documents []domain.Document
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		vehicles, err = s.vehicles.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		documents, err = s.documents.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.Overview{}, fmt.Errorf("service.OverviewService.Overview: %w", err)
	}

	ov := domain.Overview{
		Vehicles:  len(vehicles),
		Documents: len(documents),
		VehiclesByState: map[domain.VehicleStatus]int{
			domain.VehicleActive:      0,
			domain.VehicleMaintenance: 0,
			domain.VehicleInactive:    0,
		},
		ExpiryByStatus: make(map[string]int, len(expiry.Statuses)),
	}
	for _, st := range expiry.Statuses {
		ov.ExpiryByStatus[string(st)] = 0
	}

	for _, v := range vehicles {
		ov.VehiclesByState[v.Status]++
		for _, f := range v.ExpiryFields() {
			ov.ExpiryByStatus[string(evaluate(expiry.FromDate(f.Date), now))]++
		}
	}
	for _, d := range documents {
		ov.ExpiryByStatus[string(evaluate(expiry.FromDate(d.ExpiresAt), now))]++
	}
	return ov, nil
}
