package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ecopulse/internal/http/middleware"
	"ecopulse/internal/models"
	"ecopulse/internal/report"
	"ecopulse/internal/service"
)

// UserLookup resolves an authenticated user ID to the account on file.
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ReportsHandlers serves downloadable reports.
type ReportsHandlers struct {
	users     UserLookup
	emissions *service.EmissionService
	logger    *zap.Logger
}

// NewReportsHandlers returns handler.
func NewReportsHandlers(users UserLookup, emissions *service.EmissionService, logger *zap.Logger) *ReportsHandlers {
	return &ReportsHandlers{users: users, emissions: emissions, logger: logger}
}

const esgRecentRecords = 20

// ESG handles GET /api/reports/esg.pdf.
func (h *ReportsHandlers) ESG(w http.ResponseWriter, r *http.Request) {
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

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to load user for report", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to build report")
		return
	}

	totals, err := h.emissions.Summary(r.Context(), userID, from, to)
	if err != nil {
		h.logger.Error("failed to summarize emissions for report", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to build report")
		return
	}

	recent, err := h.emissions.History(r.Context(), userID, esgRecentRecords)
	if err != nil {
		h.logger.Error("failed to fetch records for report", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to build report")
		return
	}

	pdf, err := report.GenerateESG(report.ESGReportInput{
		UserEmail: user.Email,
		From:      from,
		To:        to,
		Totals:    totals,
		Recent:    recent,
	})
	if err != nil {
		h.logger.Error("failed to render report", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to build report")
		return
	}

	writePDF(w, "esg-report.pdf", pdf)
}
