package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a dashboard operator. PasswordHash is a bcrypt hash and never
// leaves the service layer.
type User struct {
	ID           uuid.UUID
	Email        string
	FullName     string
	PasswordHash string
	CreatedAt    time.Time
}

// Session is the verified identity carried by a request.
type Session struct {
	UserID    uuid.UUID
	Email     string
	ExpiresAt time.Time
}
