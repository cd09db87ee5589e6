package httpserver

import (
	"net/http"

	"ecopulse/internal/http/handlers"
	"ecopulse/internal/http/middleware"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	AuthHandlers      *handlers.AuthHandlers
	EmissionsHandlers *handlers.EmissionsHandlers
	BudgetHandlers    *handlers.BudgetHandlers
	GreenModeHandlers *handlers.GreenModeHandlers
	ReportsHandlers   *handlers.ReportsHandlers
	RegionCarbon      http.HandlerFunc
	Scheduler         http.HandlerFunc
	Advisor           http.HandlerFunc
	Models            http.HandlerFunc
	Regions           http.HandlerFunc
	LiveFeed          http.HandlerFunc
	Health            http.HandlerFunc
}

// NewRouter wires HTTP routes with middleware. Everything except health,
// auth, and the public catalog endpoints requires a bearer token.
func NewRouter(deps RouterDeps, authMiddleware func(http.Handler) http.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", deps.Health)

	mux.HandleFunc("POST /api/auth/signup", deps.AuthHandlers.Signup)
	mux.HandleFunc("POST /api/auth/login", deps.AuthHandlers.Login)

	mux.HandleFunc("GET /api/region-carbon", deps.RegionCarbon)
	mux.HandleFunc("GET /api/meta/models", deps.Models)
	mux.HandleFunc("GET /api/meta/regions", deps.Regions)

	authenticated := func(handler http.HandlerFunc) http.Handler {
		return middleware.Chain(handler, authMiddleware)
	}

	mux.Handle("POST /api/emissions", authenticated(deps.EmissionsHandlers.Create))
	mux.Handle("GET /api/emissions", authenticated(deps.EmissionsHandlers.History))
	mux.Handle("GET /api/emissions/summary", authenticated(deps.EmissionsHandlers.Summary))
	mux.Handle("GET /api/green-score/history", authenticated(deps.EmissionsHandlers.ScoreHistory))

	mux.Handle("POST /api/budgets", authenticated(deps.BudgetHandlers.Create))
	mux.Handle("GET /api/budgets", authenticated(deps.BudgetHandlers.List))
	mux.Handle("GET /api/budgets/{id}/status", authenticated(deps.BudgetHandlers.Status))

	mux.Handle("POST /api/scheduler", authenticated(deps.Scheduler))
	mux.Handle("POST /api/advisor", authenticated(deps.Advisor))

	mux.Handle("GET /api/green-mode", authenticated(deps.GreenModeHandlers.Get))
	mux.Handle("POST /api/green-mode", authenticated(deps.GreenModeHandlers.Set))
	mux.Handle("POST /api/green-mode/optimize", authenticated(deps.GreenModeHandlers.Optimize))

	mux.Handle("GET /api/reports/esg.pdf", authenticated(deps.ReportsHandlers.ESG))

	mux.Handle("GET /api/live", authenticated(deps.LiveFeed))

	return mux
}
