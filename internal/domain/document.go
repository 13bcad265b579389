package domain

import (
	"time"

	"github.com/google/uuid"
)

// DocumentKind classifies a vehicle document.
type DocumentKind string

const (
	DocumentInsurance    DocumentKind = "insurance"
	DocumentRegistration DocumentKind = "registration"
	DocumentInspection   DocumentKind = "inspection"
	DocumentPermit       DocumentKind = "permit"
	DocumentOther        DocumentKind = "other"
)

// Valid reports whether k is one of the known document kinds.
func (k DocumentKind) Valid() bool {
	switch k {
	case DocumentInsurance, DocumentRegistration, DocumentInspection, DocumentPermit, DocumentOther:
		return true
	default:
		return false
	}
}

// Document is a dated paper belonging to a vehicle (policy, permit, ...).
// ExpiresAt is nil when the expiry has not been recorded yet.
type Document struct {
	ID        uuid.UUID
	VehicleID uuid.UUID
	Kind      DocumentKind
	Number    string
	ExpiresAt *time.Time
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
