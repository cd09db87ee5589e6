package handlers

import (
	"net/http"

	"ecopulse/internal/service"
)

// NewRegionCarbonHandler returns GET /api/region-carbon handler.
func NewRegionCarbonHandler(intensity *service.RegionCarbonService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		region := r.URL.Query().Get("region")
		writeJSON(w, http.StatusOK, intensity.Resolve(r.Context(), region))
	}
}
