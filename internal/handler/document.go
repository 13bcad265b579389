package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/fleetdash/backend/internal/domain"
	"github.com/fleetdash/backend/internal/expiry"
	"github.com/fleetdash/backend/internal/service"
)

type documentRequest struct {
	Kind      string              `json:"kind"`
	Number    string              `json:"number"`
	ExpiresAt *openapi_types.Date `json:"expires_at"`
	Notes     string              `json:"notes"`
}

type documentResponse struct {
	ID        uuid.UUID           `json:"id"`
	VehicleID uuid.UUID           `json:"vehicle_id"`
	Kind      string              `json:"kind"`
	Number    string              `json:"number"`
	ExpiresAt *openapi_types.Date `json:"expires_at"`
	Expiry    expiry.Result       `json:"expiry"`
	Notes     string              `json:"notes,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

type expiringResponse struct {
	Data   []documentResponse `json:"data"`
	Within int                `json:"within"`
	AsOf   openapi_types.Date `json:"as_of"`
}

// CreateDocument handles POST /vehicles/{id}/documents.
func (s *Server) CreateDocument(w http.ResponseWriter, r *http.Request) {
	vehicleID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var body documentRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	d := requestToDocument(body)
	d.VehicleID = vehicleID

	created, err := s.documents.Create(r.Context(), d)
	if err != nil {
		s.writeError(w, r, err, "vehicle")
		return
	}
	writeJSON(w, http.StatusCreated, documentToResponse(created, s.classifierFor(w, r)))
}

// ListDocuments handles GET /vehicles/{id}/documents, soonest expiry first.
func (s *Server) ListDocuments(w http.ResponseWriter, r *http.Request) {
	vehicleID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	docs, err := s.documents.ListByVehicle(r.Context(), vehicleID)
	if err != nil {
		s.writeError(w, r, err, "vehicle")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": documentsToResponse(docs, s.classifierFor(w, r))})
}

// GetDocument handles GET /vehicles/{id}/documents/{docID}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	vehicleID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	docID, ok := pathUUID(w, r, "docID")
	if !ok {
		return
	}
	d, err := s.documents.GetByID(r.Context(), vehicleID, docID)
	if err != nil {
		s.writeError(w, r, err, "document")
		return
	}
	writeJSON(w, http.StatusOK, documentToResponse(d, s.classifierFor(w, r)))
}

// UpdateDocument handles PUT /vehicles/{id}/documents/{docID}.
func (s *Server) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	vehicleID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	docID, ok := pathUUID(w, r, "docID")
	if !ok {
		return
	}
	var body documentRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	d := requestToDocument(body)
	d.ID = docID
	d.VehicleID = vehicleID

	updated, err := s.documents.Update(r.Context(), d)
	if err != nil {
		s.writeError(w, r, err, "document")
		return
	}
	writeJSON(w, http.StatusOK, documentToResponse(updated, s.classifierFor(w, r)))
}

// DeleteDocument handles DELETE /vehicles/{id}/documents/{docID}.
func (s *Server) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	vehicleID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	docID, ok := pathUUID(w, r, "docID")
	if !ok {
		return
	}
	if err := s.documents.Delete(r.Context(), vehicleID, docID); err != nil {
		s.writeError(w, r, err, "document")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListExpiringDocuments handles GET /documents/expiring?within=N: every
// document across the fleet that expires within N days or already has.
func (s *Server) ListExpiringDocuments(w http.ResponseWriter, r *http.Request) {
	within, err := queryInt(r, "within")
	if err != nil {
		badRequest(w, "within must be an integer")
		return
	}
	days := service.DefaultExpiringWithin
	if within != nil {
		days = *within
	}

	c := s.classifierFor(w, r)
	docs, err := s.documents.Expiring(r.Context(), days, c.now)
	if err != nil {
		s.writeError(w, r, err, "document")
		return
	}
	asOf := midnightUTC(c.now)
	writeJSON(w, http.StatusOK, expiringResponse{
		Data:   documentsToResponse(docs, c),
		Within: days,
		AsOf:   openapi_types.Date{Time: asOf},
	})
}

func requestToDocument(b documentRequest) domain.Document {
	return domain.Document{
		Kind:      domain.DocumentKind(b.Kind),
		Number:    b.Number,
		ExpiresAt: fromDate(b.ExpiresAt),
		Notes:     b.Notes,
	}
}

func documentToResponse(d domain.Document, c classifier) documentResponse {
	return documentResponse{
		ID:        d.ID,
		VehicleID: d.VehicleID,
		Kind:      string(d.Kind),
		Number:    d.Number,
		ExpiresAt: toDate(d.ExpiresAt),
		Expiry:    c.classify(d.ExpiresAt),
		Notes:     d.Notes,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func documentsToResponse(docs []domain.Document, c classifier) []documentResponse {
	out := make([]documentResponse, len(docs))
	for i, d := range docs {
		out[i] = documentToResponse(d, c)
	}
	return out
}

func midnightUTC(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
