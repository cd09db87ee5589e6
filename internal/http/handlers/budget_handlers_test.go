package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ecopulse/internal/http/middleware"
	"ecopulse/internal/models"
	"ecopulse/internal/repository"
	"ecopulse/internal/service"
)

type budgetStoreStub struct {
	byID map[uuid.UUID]models.CarbonBudget
}

func (s *budgetStoreStub) Create(ctx context.Context, budget *models.CarbonBudget) error {
	budget.ID = uuid.New()
	budget.CreatedAt = time.Now().UTC()
	s.byID[budget.ID] = *budget
	return nil
}

func (s *budgetStoreStub) FindByUser(ctx context.Context, userID uuid.UUID) ([]models.CarbonBudget, error) {
	var out []models.CarbonBudget
	for _, b := range s.byID {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *budgetStoreStub) FindByID(ctx context.Context, id uuid.UUID) (*models.CarbonBudget, error) {
	b, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrBudgetNotFound
	}
	return &b, nil
}

type aggregatorStub struct {
	sum decimal.Decimal
}

func (s *aggregatorStub) SumCO2GramsBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	return s.sum, nil
}

type parserStub struct {
	id uuid.UUID
}

func (p parserStub) ParseToken(string) (uuid.UUID, string, error) {
	return p.id, models.RoleUser, nil
}

// authStub runs the real auth middleware with a parser that maps any bearer
// token to userID.
func authStub(userID uuid.UUID, next http.Handler) http.Handler {
	return middleware.AuthMiddleware(parserStub{id: userID})(next)
}

func authedRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Authorization", "Bearer test-token")
	return req
}

func TestBudgetStatusRouting(t *testing.T) {
	store := &budgetStoreStub{byID: make(map[uuid.UUID]models.CarbonBudget)}
	svc := service.NewBudgetService(store, &aggregatorStub{sum: decimal.RequireFromString("300")}, zap.NewNop())
	h := NewBudgetHandlers(svc, zap.NewNop())

	owner := uuid.New()
	budget, err := svc.Create(context.Background(), owner, service.CreateBudgetInput{
		PeriodStart:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:     time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		CO2GramsLimit: decimal.RequireFromString("1000"),
	})
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.Handle("GET /api/budgets/{id}/status", authStub(owner, http.HandlerFunc(h.Status)))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/budgets/"+budget.ID.String()+"/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var status service.BudgetStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	require.True(t, decimal.RequireFromString("300").Equal(status.UsedCO2Grams))
	require.True(t, decimal.RequireFromString("700").Equal(status.RemainingCO2Grams))

	// Unknown budget maps to 404, malformed id to 400.
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/budgets/"+uuid.NewString()+"/status", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/budgets/not-a-uuid/status", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBudgetStatusForeignBudgetIsForbidden(t *testing.T) {
	store := &budgetStoreStub{byID: make(map[uuid.UUID]models.CarbonBudget)}
	svc := service.NewBudgetService(store, &aggregatorStub{}, zap.NewNop())
	h := NewBudgetHandlers(svc, zap.NewNop())

	owner := uuid.New()
	budget, err := svc.Create(context.Background(), owner, service.CreateBudgetInput{
		PeriodStart:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:     time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		CO2GramsLimit: decimal.RequireFromString("1000"),
	})
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.Handle("GET /api/budgets/{id}/status", authStub(uuid.New(), http.HandlerFunc(h.Status)))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/budgets/"+budget.ID.String()+"/status", nil))
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBudgetCreateValidationStatusCodes(t *testing.T) {
	store := &budgetStoreStub{byID: make(map[uuid.UUID]models.CarbonBudget)}
	svc := service.NewBudgetService(store, &aggregatorStub{}, zap.NewNop())
	h := NewBudgetHandlers(svc, zap.NewNop())

	handler := authStub(uuid.New(), http.HandlerFunc(h.Create))

	rec := httptest.NewRecorder()
	body := `{"period_start":"2025-07-01T00:00:00Z","period_end":"2025-06-01T00:00:00Z","co2_grams_limit":"1000"}`
	handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/budgets", strings.NewReader(body)))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	body = `{"period_start":"2025-06-01T00:00:00Z","period_end":"2025-07-01T00:00:00Z","co2_grams_limit":"1000"}`
	handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/budgets", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)
}
