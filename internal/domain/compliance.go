package domain

import (
	"time"

	"github.com/google/uuid"
)

// ComplianceSource says where a compliance row's date is stored.
type ComplianceSource string

const (
	SourceVehicle  ComplianceSource = "vehicle"
	SourceDocument ComplianceSource = "document"
)

// ComplianceRow is one dated obligation in the fleet compliance export: either
// one of a vehicle's own expiry fields or one of its documents.
// Field is the vehicle field name or the document kind.
type ComplianceRow struct {
	VehicleID      uuid.UUID
	PlateNumber    string
	VehicleName    string
	Source         ComplianceSource
	Field          string
	DocumentNumber string
	ExpiresAt      *time.Time
}
