package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing plate number, latitude out of range).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned by repo functions when a write violates a unique
// constraint (duplicate plate number, duplicate trip code, duplicate email).
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrUnauthorized is returned when credentials or a session token are
// missing, wrong, or expired. Handlers should map this to HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")

// ErrVehicleNotFound is ErrNotFound for the vehicle a trip or document
// points at, as opposed to the trip or document itself. It matches
// errors.Is(err, ErrNotFound).
var ErrVehicleNotFound = fmt.Errorf("vehicle %w", ErrNotFound)
