package handler

import (
	"net/http"
)

type overviewResponse struct {
	Vehicles         int            `json:"vehicles"`
	Documents        int            `json:"documents"`
	VehiclesByStatus map[string]int `json:"vehicles_by_status"`
	ExpiryByStatus   map[string]int `json:"expiry_by_status"`
}

// GetOverview handles GET /overview: the counts behind the dashboard's
// summary cards.
func (s *Server) GetOverview(w http.ResponseWriter, r *http.Request) {
	o, err := s.overview.Overview(r.Context(), s.now())
	if err != nil {
		s.writeError(w, r, err, "overview")
		return
	}

	byState := make(map[string]int, len(o.VehiclesByState))
	for k, v := range o.VehiclesByState {
		byState[string(k)] = v
	}
	writeJSON(w, http.StatusOK, overviewResponse{
		Vehicles:         o.Vehicles,
		Documents:        o.Documents,
		VehiclesByStatus: byState,
		ExpiryByStatus:   o.ExpiryByStatus,
	})
}
