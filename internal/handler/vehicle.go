package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/fleetdash/backend/internal/domain"
	"github.com/fleetdash/backend/internal/expiry"
)

// vehicleRequest is the body of POST /vehicles and PUT /vehicles/{id}.
// Coordinates are pointers so a missing field is distinguishable from 0.
type vehicleRequest struct {
	PlateNumber        string              `json:"plate_number"`
	Name               string              `json:"name"`
	Latitude           *float64            `json:"latitude"`
	Longitude          *float64            `json:"longitude"`
	Status             string              `json:"status"`
	InsuranceExpiry    *openapi_types.Date `json:"insurance_expiry"`
	RegistrationExpiry *openapi_types.Date `json:"registration_expiry"`
	InspectionExpiry   *openapi_types.Date `json:"inspection_expiry"`
	Notes              string              `json:"notes"`
}

// vehicleExpiry carries the classification of each dated vehicle field.
type vehicleExpiry struct {
	Insurance    expiry.Result `json:"insurance"`
	Registration expiry.Result `json:"registration"`
	Inspection   expiry.Result `json:"inspection"`
}

type vehicleResponse struct {
	ID                 uuid.UUID           `json:"id"`
	PlateNumber        string              `json:"plate_number"`
	Name               string              `json:"name"`
	Latitude           float64             `json:"latitude"`
	Longitude          float64             `json:"longitude"`
	Status             string              `json:"status"`
	InsuranceExpiry    *openapi_types.Date `json:"insurance_expiry"`
	RegistrationExpiry *openapi_types.Date `json:"registration_expiry"`
	InspectionExpiry   *openapi_types.Date `json:"inspection_expiry"`
	Expiry             vehicleExpiry       `json:"expiry"`
	Notes              string              `json:"notes,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

type markerExpiry struct {
	Status     expiry.Status     `json:"status"`
	ColorClass expiry.ColorClass `json:"color_class"`
}

type markerResponse struct {
	ID          uuid.UUID    `json:"id"`
	PlateNumber string       `json:"plate_number"`
	Name        string       `json:"name"`
	Latitude    float64      `json:"lat"`
	Longitude   float64      `json:"lng"`
	Status      string       `json:"status"`
	Expiry      markerExpiry `json:"expiry"`
}

// CreateVehicle handles POST /vehicles.
func (s *Server) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	v, ok := decodeVehicle(w, r)
	if !ok {
		return
	}
	created, err := s.vehicles.Create(r.Context(), v)
	if err != nil {
		s.writeError(w, r, err, "vehicle")
		return
	}
	writeJSON(w, http.StatusCreated, vehicleToResponse(created, s.classifierFor(w, r)))
}

// ListVehicles handles GET /vehicles with ?page= and ?limit=.
func (s *Server) ListVehicles(w http.ResponseWriter, r *http.Request) {
	params, ok := paginationParams(w, r)
	if !ok {
		return
	}
	vs, total, err := s.vehicles.ListPaged(r.Context(), params)
	if err != nil {
		s.writeError(w, r, err, "vehicle")
		return
	}

	c := s.classifierFor(w, r)
	data := make([]vehicleResponse, len(vs))
	for i, v := range vs {
		data[i] = vehicleToResponse(v, c)
	}
	writeJSON(w, http.StatusOK, listResponse[vehicleResponse]{
		Data:       data,
		Pagination: newPagination(params, total),
	})
}

// ListMarkers handles GET /vehicles/markers: every vehicle with its position
// and the most urgent of its expiry statuses, for the map view.
func (s *Server) ListMarkers(w http.ResponseWriter, r *http.Request) {
	markers, err := s.vehicles.Markers(r.Context(), s.now())
	if err != nil {
		s.writeError(w, r, err, "vehicle")
		return
	}
	data := make([]markerResponse, len(markers))
	for i, m := range markers {
		data[i] = markerResponse{
			ID:          m.ID,
			PlateNumber: m.PlateNumber,
			Name:        m.Name,
			Latitude:    m.Latitude,
			Longitude:   m.Longitude,
			Status:      string(m.Status),
			Expiry:      markerExpiry{Status: m.Expiry, ColorClass: expiry.ColorFor(m.Expiry)},
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": data})
}

// GetVehicle handles GET /vehicles/{id}.
func (s *Server) GetVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	v, err := s.vehicles.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, "vehicle")
		return
	}
	writeJSON(w, http.StatusOK, vehicleToResponse(v, s.classifierFor(w, r)))
}

// UpdateVehicle handles PUT /vehicles/{id}.
func (s *Server) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	v, ok := decodeVehicle(w, r)
	if !ok {
		return
	}
	v.ID = id
	updated, err := s.vehicles.Update(r.Context(), v)
	if err != nil {
		s.writeError(w, r, err, "vehicle")
		return
	}
	writeJSON(w, http.StatusOK, vehicleToResponse(updated, s.classifierFor(w, r)))
}

// DeleteVehicle handles DELETE /vehicles/{id}.
func (s *Server) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	if err := s.vehicles.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err, "vehicle")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

// decodeVehicle reads a vehicleRequest into a domain.Vehicle.
// Missing coordinates are rejected here; range checks belong to the service.
func decodeVehicle(w http.ResponseWriter, r *http.Request) (domain.Vehicle, bool) {
	var body vehicleRequest
	if !decodeJSON(w, r, &body) {
		return domain.Vehicle{}, false
	}
	if body.Latitude == nil || body.Longitude == nil {
		writeErrorBody(w, http.StatusUnprocessableEntity, "validation_error", "latitude and longitude are required")
		return domain.Vehicle{}, false
	}
	return domain.Vehicle{
		PlateNumber:        body.PlateNumber,
		Name:               body.Name,
		Latitude:           *body.Latitude,
		Longitude:          *body.Longitude,
		Status:             domain.VehicleStatus(body.Status),
		InsuranceExpiry:    fromDate(body.InsuranceExpiry),
		RegistrationExpiry: fromDate(body.RegistrationExpiry),
		InspectionExpiry:   fromDate(body.InspectionExpiry),
		Notes:              body.Notes,
	}, true
}

func vehicleToResponse(v domain.Vehicle, c classifier) vehicleResponse {
	return vehicleResponse{
		ID:                 v.ID,
		PlateNumber:        v.PlateNumber,
		Name:               v.Name,
		Latitude:           v.Latitude,
		Longitude:          v.Longitude,
		Status:             string(v.Status),
		InsuranceExpiry:    toDate(v.InsuranceExpiry),
		RegistrationExpiry: toDate(v.RegistrationExpiry),
		InspectionExpiry:   toDate(v.InspectionExpiry),
		Expiry: vehicleExpiry{
			Insurance:    c.classify(v.InsuranceExpiry),
			Registration: c.classify(v.RegistrationExpiry),
			Inspection:   c.classify(v.InspectionExpiry),
		},
		Notes:     v.Notes,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}
