package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ecopulse/internal/http/middleware"
	"ecopulse/internal/service"
)

// EmissionsHandlers serves the usage accounting endpoints.
type EmissionsHandlers struct {
	emissions *service.EmissionService
	logger    *zap.Logger
}

// NewEmissionsHandlers returns handler.
func NewEmissionsHandlers(emissions *service.EmissionService, logger *zap.Logger) *EmissionsHandlers {
	return &EmissionsHandlers{emissions: emissions, logger: logger}
}

type accountUsageRequest struct {
	Model                 string           `json:"model"`
	Region                string           `json:"region"`
	Tokens                int64            `json:"tokens"`
	RuntimeSeconds        float64          `json:"runtime_seconds"`
	ModelPowerFactor      decimal.Decimal  `json:"model_power_factor"`
	RegionCarbonIntensity *decimal.Decimal `json:"region_carbon_intensity,omitempty"`
	WaterFactor           *decimal.Decimal `json:"water_factor,omitempty"`
}

// Create handles POST /api/emissions.
func (h *EmissionsHandlers) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req accountUsageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.emissions.Account(r.Context(), userID, service.AccountUsageInput{
		Model:                 req.Model,
		Region:                req.Region,
		Tokens:                req.Tokens,
		RuntimeSeconds:        req.RuntimeSeconds,
		ModelPowerFactor:      req.ModelPowerFactor,
		RegionCarbonIntensity: req.RegionCarbonIntensity,
		WaterFactor:           req.WaterFactor,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidTokens),
			errors.Is(err, service.ErrInvalidRuntime),
			errors.Is(err, service.ErrMissingPowerFactor):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("failed to account usage", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to account usage")
		}
		return
	}

	writeJSON(w, http.StatusCreated, record)
}

// History handles GET /api/emissions.
func (h *EmissionsHandlers) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	records, err := h.emissions.History(r.Context(), userID, queryLimit(r))
	if err != nil {
		h.logger.Error("failed to fetch emission history", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch history")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"records": records})
}

// Summary handles GET /api/emissions/summary.
func (h *EmissionsHandlers) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	from, err := queryTime(r, "from")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from timestamp")
		return
	}
	to, err := queryTime(r, "to")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid to timestamp")
		return
	}

	totals, err := h.emissions.Summary(r.Context(), userID, from, to)
	if err != nil {
		h.logger.Error("failed to summarize emissions", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to summarize emissions")
		return
	}

	writeJSON(w, http.StatusOK, totals)
}

// ScoreHistory handles GET /api/green-score/history.
func (h *EmissionsHandlers) ScoreHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	entries, err := h.emissions.ScoreHistory(r.Context(), userID, queryLimit(r))
	if err != nil {
		h.logger.Error("failed to fetch green score history", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch history")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}

func queryLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}

func queryTime(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
