package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"ecopulse/internal/service"
)

type scheduleRequest struct {
	Model            string     `json:"model"`
	Tokens           int64      `json:"tokens"`
	RuntimeSeconds   float64    `json:"runtime_seconds"`
	CandidateRegions []string   `json:"candidate_regions"`
	NotBefore        *time.Time `json:"not_before,omitempty"`
	NotAfter         *time.Time `json:"not_after,omitempty"`
}

// NewSchedulerHandler returns POST /api/scheduler handler.
func NewSchedulerHandler(scheduler *service.SchedulerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		recommendation, err := scheduler.Recommend(r.Context(), service.ScheduleInput{
			Model:            req.Model,
			Tokens:           req.Tokens,
			RuntimeSeconds:   req.RuntimeSeconds,
			CandidateRegions: req.CandidateRegions,
			NotBefore:        req.NotBefore,
			NotAfter:         req.NotAfter,
		})
		if err != nil {
			if errors.Is(err, service.ErrNoCandidateRegions) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			logger.Error("scheduling failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "scheduling failed")
			return
		}

		writeJSON(w, http.StatusOK, recommendation)
	}
}
