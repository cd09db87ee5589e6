package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"ecopulse/internal/http/middleware"
	"ecopulse/internal/service"
)

// GreenModeHandlers serves the green mode toggle and optimization endpoints.
type GreenModeHandlers struct {
	greenMode *service.GreenModeService
	logger    *zap.Logger
}

// NewGreenModeHandlers returns handler.
func NewGreenModeHandlers(greenMode *service.GreenModeService, logger *zap.Logger) *GreenModeHandlers {
	return &GreenModeHandlers{greenMode: greenMode, logger: logger}
}

// Get handles GET /api/green-mode.
func (h *GreenModeHandlers) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	enabled, err := h.greenMode.Enabled(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to read green mode", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to read green mode")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"enabled": enabled})
}

type setGreenModeRequest struct {
	Enabled bool `json:"enabled"`
}

// Set handles POST /api/green-mode.
func (h *GreenModeHandlers) Set(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req setGreenModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.greenMode.SetEnabled(r.Context(), userID, req.Enabled); err != nil {
		h.logger.Error("failed to set green mode", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to set green mode")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"enabled": req.Enabled})
}

type optimizeRequest struct {
	Model          string   `json:"model"`
	Region         string   `json:"region"`
	Tokens         int64    `json:"tokens"`
	RuntimeSeconds float64  `json:"runtime_seconds"`
	Constraints    []string `json:"constraints,omitempty"`
}

// Optimize handles POST /api/green-mode/optimize.
func (h *GreenModeHandlers) Optimize(w http.ResponseWriter, r *http.Request) {
	var req optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	recommendation := h.greenMode.Optimize(r.Context(), service.OptimizeInput{
		Model:          req.Model,
		Region:         req.Region,
		Tokens:         req.Tokens,
		RuntimeSeconds: req.RuntimeSeconds,
		Constraints:    req.Constraints,
	})

	writeJSON(w, http.StatusOK, recommendation)
}
