package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ecopulse/internal/http/middleware"
	"ecopulse/internal/repository"
	"ecopulse/internal/service"
)

// BudgetHandlers serves the carbon budget endpoints.
type BudgetHandlers struct {
	budgets *service.BudgetService
	logger  *zap.Logger
}

// NewBudgetHandlers returns handler.
func NewBudgetHandlers(budgets *service.BudgetService, logger *zap.Logger) *BudgetHandlers {
	return &BudgetHandlers{budgets: budgets, logger: logger}
}

type createBudgetRequest struct {
	PeriodStart   time.Time       `json:"period_start"`
	PeriodEnd     time.Time       `json:"period_end"`
	CO2GramsLimit decimal.Decimal `json:"co2_grams_limit"`
}

// Create handles POST /api/budgets.
func (h *BudgetHandlers) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	budget, err := h.budgets.Create(r.Context(), userID, service.CreateBudgetInput{
		PeriodStart:   req.PeriodStart,
		PeriodEnd:     req.PeriodEnd,
		CO2GramsLimit: req.CO2GramsLimit,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPeriod), errors.Is(err, service.ErrInvalidLimit):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("failed to create budget", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to create budget")
		}
		return
	}

	writeJSON(w, http.StatusCreated, budget)
}

// List handles GET /api/budgets.
func (h *BudgetHandlers) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	budgets, err := h.budgets.List(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list budgets", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list budgets")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"budgets": budgets})
}

// Status handles GET /api/budgets/{id}/status.
func (h *BudgetHandlers) Status(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	budgetID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid budget id")
		return
	}

	status, err := h.budgets.Status(r.Context(), userID, budgetID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBudgetNotFound):
			writeError(w, http.StatusNotFound, "budget not found")
		case errors.Is(err, service.ErrBudgetAccessDenied):
			writeError(w, http.StatusForbidden, "access denied")
		default:
			h.logger.Error("failed to compute budget status", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to compute budget status")
		}
		return
	}

	writeJSON(w, http.StatusOK, status)
}
