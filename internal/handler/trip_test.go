package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetdash/backend/internal/domain"
	"github.com/fleetdash/backend/internal/handler"
)

func tripFixture() domain.Trip {
	start := time.Date(2026, 1, 14, 6, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 14, 18, 0, 0, 0, time.UTC)
	dist := 412.5
	return domain.Trip{
		ID:          uuid.New(),
		Code:        "TRP-202601-K3M9P",
		VehicleID:   uuid.New(),
		DriverName:  "Budi",
		Origin:      "Jakarta",
		Destination: "Bandung",
		StartedAt:   start,
		EndedAt:     &end,
		DistanceKm:  &dist,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

type tripJSON struct {
	ID         uuid.UUID `json:"id"`
	Code       string    `json:"code"`
	VehicleID  uuid.UUID `json:"vehicle_id"`
	DistanceKm *float64  `json:"distance_km"`
}

func tripHandler(svc handler.TripServicer) http.Handler {
	return newHTTPHandler(handler.Deps{Trips: svc})
}

// ---- POST /trips -----------------------------------------------------------

func TestCreateTrip_201(t *testing.T) {
	fixture := tripFixture()
	var got domain.Trip
	svc := &mockTripServicer{
		create: func(_ context.Context, trip domain.Trip) (domain.Trip, error) {
			got = trip
			return fixture, nil
		},
	}

	body := jsonBody(t, map[string]any{
		"vehicle_id":  fixture.VehicleID,
		"driver_name": "Budi",
		"origin":      "Jakarta",
		"destination": "Bandung",
		"started_at":  fixture.StartedAt,
	})
	rec := serve(tripHandler(svc), authed(http.MethodPost, "/trips", body))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, fixture.VehicleID, got.VehicleID)
	assert.Empty(t, got.Code, "the code is assigned by the service")
	assert.Nil(t, got.EndedAt)

	var resp tripJSON
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, fixture.ID, resp.ID)
	assert.Equal(t, fixture.Code, resp.Code)
}

func TestCreateTrip_400_CodeNotAccepted(t *testing.T) {
	body := jsonBody(t, map[string]any{"code": "TRP-202601-AAAAA", "driver_name": "Budi"})

	rec := serve(tripHandler(&mockTripServicer{}), authed(http.MethodPost, "/trips", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTrip_422_ValidationError(t *testing.T) {
	svc := &mockTripServicer{
		create: func(context.Context, domain.Trip) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w: origin is required", domain.ErrValidation)
		},
	}
	body := jsonBody(t, map[string]any{"vehicle_id": uuid.New(), "driver_name": "Budi"})

	rec := serve(tripHandler(svc), authed(http.MethodPost, "/trips", body))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "origin is required", decodeError(t, rec).Error.Message)
}

func TestCreateTrip_404_UnknownVehicle(t *testing.T) {
	svc := &mockTripServicer{
		create: func(context.Context, domain.Trip) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("service.TripService.Create: vehicle: %w", domain.ErrNotFound)
		},
	}
	body := jsonBody(t, map[string]any{"vehicle_id": uuid.New()})

	rec := serve(tripHandler(svc), authed(http.MethodPost, "/trips", body))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateTrip_409_CodesExhausted(t *testing.T) {
	svc := &mockTripServicer{
		create: func(context.Context, domain.Trip) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w: no free trip code after 5 attempts", domain.ErrConflict)
		},
	}
	body := jsonBody(t, map[string]any{"vehicle_id": uuid.New()})

	rec := serve(tripHandler(svc), authed(http.MethodPost, "/trips", body))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

// ---- GET /trips ------------------------------------------------------------

func TestListTrips_200(t *testing.T) {
	var gotFilter domain.TripFilter
	svc := &mockTripServicer{
		list: func(_ context.Context, f domain.TripFilter, _ domain.PaginationParams) ([]domain.Trip, int64, error) {
			gotFilter = f
			return []domain.Trip{tripFixture(), tripFixture()}, 2, nil
		},
	}

	rec := serve(tripHandler(svc), authed(http.MethodGet, "/trips", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, gotFilter.VehicleID)

	var resp struct {
		Data []tripJSON `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Data, 2)
}

func TestListTrips_FilterByVehicle(t *testing.T) {
	vehicleID := uuid.New()
	var gotFilter domain.TripFilter
	svc := &mockTripServicer{
		list: func(_ context.Context, f domain.TripFilter, _ domain.PaginationParams) ([]domain.Trip, int64, error) {
			gotFilter = f
			return []domain.Trip{}, 0, nil
		},
	}

	rec := serve(tripHandler(svc), authed(http.MethodGet, "/trips?vehicle_id="+vehicleID.String(), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotFilter.VehicleID)
	assert.Equal(t, vehicleID, *gotFilter.VehicleID)
	assert.Contains(t, rec.Body.String(), `"data":[]`)
}

func TestListTrips_400_BadVehicleFilter(t *testing.T) {
	rec := serve(tripHandler(&mockTripServicer{}), authed(http.MethodGet, "/trips?vehicle_id=truck-7", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ---- GET /trips/{id} -------------------------------------------------------

func TestGetTrip_200(t *testing.T) {
	fixture := tripFixture()
	svc := &mockTripServicer{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Trip, error) {
			require.Equal(t, fixture.ID, id)
			return fixture, nil
		},
	}

	rec := serve(tripHandler(svc), authed(http.MethodGet, "/trips/"+fixture.ID.String(), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp tripJSON
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.DistanceKm)
	assert.InDelta(t, 412.5, *resp.DistanceKm, 1e-9)
}

func TestGetTrip_404(t *testing.T) {
	svc := &mockTripServicer{
		getByID: func(context.Context, uuid.UUID) (domain.Trip, error) {
			return domain.Trip{}, domain.ErrNotFound
		},
	}

	rec := serve(tripHandler(svc), authed(http.MethodGet, "/trips/"+uuid.NewString(), nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "trip not found", decodeError(t, rec).Error.Message)
}

// ---- PUT /trips/{id} -------------------------------------------------------

func TestUpdateTrip_200(t *testing.T) {
	fixture := tripFixture()
	var got domain.Trip
	svc := &mockTripServicer{
		update: func(_ context.Context, trip domain.Trip) (domain.Trip, error) {
			got = trip
			return fixture, nil
		},
	}
	body := jsonBody(t, map[string]any{
		"vehicle_id":  fixture.VehicleID,
		"driver_name": "Sari",
		"origin":      "Jakarta",
		"destination": "Bogor",
		"started_at":  fixture.StartedAt,
	})

	rec := serve(tripHandler(svc), authed(http.MethodPut, "/trips/"+fixture.ID.String(), body))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, fixture.ID, got.ID)
	assert.Equal(t, "Sari", got.DriverName)
}

func TestUpdateTrip_404(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{"unknown trip", domain.ErrNotFound, "trip not found"},
		{"unknown vehicle", domain.ErrVehicleNotFound, "vehicle not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockTripServicer{
				update: func(context.Context, domain.Trip) (domain.Trip, error) {
					return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", tt.err)
				},
			}
			body := jsonBody(t, map[string]any{"vehicle_id": uuid.New()})

			rec := serve(tripHandler(svc), authed(http.MethodPut, "/trips/"+uuid.NewString(), body))

			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Equal(t, tt.message, decodeError(t, rec).Error.Message)
		})
	}
}

// ---- DELETE /trips/{id} ----------------------------------------------------

func TestDeleteTrip(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"deleted", nil, http.StatusNoContent},
		{"missing", fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockTripServicer{
				delete: func(context.Context, uuid.UUID) error { return tt.err },
			}

			rec := serve(tripHandler(svc), authed(http.MethodDelete, "/trips/"+uuid.NewString(), nil))

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
