package handlers

import (
	"net/http"

	"ecopulse/internal/service"
)

// NewModelsHandler returns GET /api/meta/models handler.
func NewModelsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"models": service.KnownModels()})
	}
}

// NewRegionsHandler returns GET /api/meta/regions handler.
func NewRegionsHandler(intensity *service.RegionCarbonService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"regions":              service.KnownRegions(),
			"fallback_intensities": service.FallbackIntensities(),
		})
	}
}
