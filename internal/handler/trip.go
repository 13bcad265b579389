package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/fleetdash/backend/internal/domain"
)

// tripRequest is the body of POST /trips and PUT /trips/{id}.
// The code is assigned by the server and cannot be supplied.
type tripRequest struct {
	VehicleID   uuid.UUID  `json:"vehicle_id"`
	DriverName  string     `json:"driver_name"`
	Origin      string     `json:"origin"`
	Destination string     `json:"destination"`
	StartedAt   time.Time  `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at"`
	DistanceKm  *float64   `json:"distance_km"`
	Notes       string     `json:"notes"`
}

type tripResponse struct {
	ID          uuid.UUID  `json:"id"`
	Code        string     `json:"code"`
	VehicleID   uuid.UUID  `json:"vehicle_id"`
	DriverName  string     `json:"driver_name"`
	Origin      string     `json:"origin"`
	Destination string     `json:"destination"`
	StartedAt   time.Time  `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at"`
	DistanceKm  *float64   `json:"distance_km"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var body tripRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	created, err := s.trips.Create(r.Context(), requestToTrip(body))
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// ListTrips handles GET /trips.
// Supports ?page= and ?limit= (defaults: page=1, limit=20, max=100) and an
// optional ?vehicle_id= filter.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	params, ok := paginationParams(w, r)
	if !ok {
		return
	}
	var f domain.TripFilter
	if raw := r.URL.Query().Get("vehicle_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			badRequest(w, "invalid vehicle_id")
			return
		}
		f.VehicleID = &id
	}

	trips, total, err := s.trips.ListPaged(r.Context(), f, params)
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}

	data := make([]tripResponse, len(trips))
	for i, t := range trips {
		data[i] = tripToResponse(t)
	}
	writeJSON(w, http.StatusOK, listResponse[tripResponse]{
		Data:       data,
		Pagination: newPagination(params, total),
	})
}

// GetTrip handles GET /trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// UpdateTrip handles PUT /trips/{id}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var body tripRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	trip := requestToTrip(body)
	trip.ID = id

	updated, err := s.trips.Update(r.Context(), trip)
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(updated))
}

// DeleteTrip handles DELETE /trips/{id}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := s.trips.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err, "trip")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func requestToTrip(b tripRequest) domain.Trip {
	return domain.Trip{
		VehicleID:   b.VehicleID,
		DriverName:  b.DriverName,
		Origin:      b.Origin,
		Destination: b.Destination,
		StartedAt:   b.StartedAt,
		EndedAt:     b.EndedAt,
		DistanceKm:  b.DistanceKm,
		Notes:       b.Notes,
	}
}

func tripToResponse(t domain.Trip) tripResponse {
	return tripResponse{
		ID:          t.ID,
		Code:        t.Code,
		VehicleID:   t.VehicleID,
		DriverName:  t.DriverName,
		Origin:      t.Origin,
		Destination: t.Destination,
		StartedAt:   t.StartedAt,
		EndedAt:     t.EndedAt,
		DistanceKm:  t.DistanceKm,
		Notes:       t.Notes,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
