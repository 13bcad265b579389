package domain

// Overview is the dashboard summary: how many expiry dates fall in each
// expiry status, and how many vehicles are in each operational status.
type Overview struct {
	Vehicles        int
	Documents       int
	VehiclesByState map[VehicleStatus]int
	ExpiryByStatus  map[string]int
}
