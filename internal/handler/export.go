package handler

import (
	"encoding/csv"
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/fleetdash/backend/internal/domain"
	"github.com/fleetdash/backend/internal/expiry"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"vehicle_id", "plate_number", "vehicle_name", "source", "field",
	"document_number", "expires_at", "status", "label",
}

type exportRow struct {
	VehicleID      uuid.UUID           `json:"vehicle_id"`
	PlateNumber    string              `json:"plate_number"`
	VehicleName    string              `json:"vehicle_name"`
	Source         string              `json:"source"`
	Field          string              `json:"field"`
	DocumentNumber string              `json:"document_number,omitempty"`
	ExpiresAt      *openapi_types.Date `json:"expires_at"`
	Expiry         expiry.Result       `json:"expiry"`
}

// GetExport handles GET /export.
// It returns one row per dated field across the fleet (vehicle fields and
// documents), classified at request time. Use ?format=csv to receive CSV;
// default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "" && format != "json" && format != "csv" {
		badRequest(w, "format must be json or csv")
		return
	}

	rows, err := s.export.Export(r.Context())
	if err != nil {
		s.writeError(w, r, err, "export")
		return
	}

	c := s.classifierFor(w, r)
	out := make([]exportRow, len(rows))
	for i, row := range rows {
		out[i] = complianceToRow(row, c)
	}

	if format == "csv" {
		writeCSV(w, out)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": out})
}

// writeCSV streams rows as an attachment. Dates are written as YYYY-MM-DD;
// an unrecorded date is an empty cell.
func writeCSV(w http.ResponseWriter, rows []exportRow) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="compliance.csv"`)
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	_ = cw.Write(csvHeaders)
	for _, r := range rows {
		expires := ""
		if r.ExpiresAt != nil {
			expires = r.ExpiresAt.Format(time.DateOnly)
		}
		_ = cw.Write([]string{
			r.VehicleID.String(),
			r.PlateNumber,
			r.VehicleName,
			r.Source,
			r.Field,
			r.DocumentNumber,
			expires,
			string(r.Expiry.Status),
			r.Expiry.Label,
		})
	}
	cw.Flush()
}

func complianceToRow(r domain.ComplianceRow, c classifier) exportRow {
	return exportRow{
		VehicleID:      r.VehicleID,
		PlateNumber:    r.PlateNumber,
		VehicleName:    r.VehicleName,
		Source:         string(r.Source),
		Field:          r.Field,
		DocumentNumber: r.DocumentNumber,
		ExpiresAt:      toDate(r.ExpiresAt),
		Expiry:         c.classify(r.ExpiresAt),
	}
}
