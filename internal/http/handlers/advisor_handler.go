package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"ecopulse/internal/service"
)

type adviseRequest struct {
	Model          string          `json:"model"`
	Region         string          `json:"region"`
	Tokens         int64           `json:"tokens"`
	RuntimeSeconds float64         `json:"runtime_seconds"`
	CO2Grams       decimal.Decimal `json:"co2_grams"`
	EnergyKWh      decimal.Decimal `json:"energy_kwh"`
}

// NewAdvisorHandler returns POST /api/advisor handler.
func NewAdvisorHandler(advisor *service.AdvisorService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req adviseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		advice := advisor.Advise(r.Context(), service.AdviseInput{
			Model:          req.Model,
			Region:         req.Region,
			Tokens:         req.Tokens,
			RuntimeSeconds: req.RuntimeSeconds,
			CO2Grams:       req.CO2Grams,
			EnergyKWh:      req.EnergyKWh,
		})

		writeJSON(w, http.StatusOK, advice)
	}
}
