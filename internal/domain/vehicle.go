// Package domain contains the core data types for the fleet dashboard backend.
// It depends only on uuid and the standard library and is imported by every
// other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// VehicleStatus is the operational state an operator assigns to a vehicle.
type VehicleStatus string

const (
	VehicleActive      VehicleStatus = "active"
	VehicleMaintenance VehicleStatus = "maintenance"
	VehicleInactive    VehicleStatus = "inactive"
)

// Valid reports whether s is one of the known vehicle statuses.
func (s VehicleStatus) Valid() bool {
	switch s {
	case VehicleActive, VehicleMaintenance, VehicleInactive:
		return true
	default:
		return false
	}
}

// Vehicle is a fleet vehicle plotted on the dashboard map.
// The three expiry dates are nil until an operator records them.
type Vehicle struct {
	ID                 uuid.UUID
	PlateNumber        string
	Name               string
	Latitude           float64
	Longitude          float64
	Status             VehicleStatus
	InsuranceExpiry    *time.Time
	RegistrationExpiry *time.Time
	InspectionExpiry   *time.Time
	Notes              string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ExpiryField names one dated field of a record.
type ExpiryField struct {
	Name string
	Date *time.Time
}

// ExpiryFields lists the vehicle's expiry dates in display order.
func (v Vehicle) ExpiryFields() []ExpiryField {
	return []ExpiryField{
		{Name: "insurance", Date: v.InsuranceExpiry},
		{Name: "registration", Date: v.RegistrationExpiry},
		{Name: "inspection", Date: v.InspectionExpiry},
	}
}
