package app

import (
	"context"
	"database/sql"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	libdb "ecopulse/libs/db"
	libredis "ecopulse/libs/redis"

	"ecopulse/internal/config"
	"ecopulse/internal/crypto"
	"ecopulse/internal/engine"
	"ecopulse/internal/http/handlers"
	"ecopulse/internal/http/middleware"
	"ecopulse/internal/kvstore"
	"ecopulse/internal/live"
	"ecopulse/internal/password"
	"ecopulse/internal/repository"
	"ecopulse/internal/service"

	httpserver "ecopulse/internal/http"
)

// App wires the backend dependency graph.
type App struct {
	server      *httpserver.Server
	hub         *live.Hub
	db          *sql.DB
	redisClient *redis.Client
	logger      *zap.Logger
}

// New constructs the application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := libdb.NewPostgres(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	var redisClient *redis.Client
	var kv kvstore.Store
	if cfg.Redis.Addr != "" {
		redisClient, err = libredis.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			sqlDB.Close()
			return nil, err
		}
		kv = kvstore.NewRedisStore(redisClient)
	} else {
		logger.Warn("redis not configured, using in-process key-value store")
		kv = kvstore.NewMemoryStore()
	}

	cipher, err := crypto.NewFieldCipher(cfg.Encryption.FieldKeyB64)
	if err != nil {
		sqlDB.Close()
		if redisClient != nil {
			redisClient.Close()
		}
		return nil, err
	}

	userRepo := repository.NewUserRepository(sqlDB, cipher)
	emissionRepo := repository.NewEmissionRepository(sqlDB)
	budgetRepo := repository.NewBudgetRepository(sqlDB)
	scoreRepo := repository.NewGreenScoreRepository(sqlDB)

	engineClient := engine.NewClient(cfg.Engine.BaseURL, logger)

	hub := live.NewHub(logger)

	tokenService := service.NewTokenService(cfg.Auth.JWTSecret, cfg.TokenTTL())
	authService := service.NewAuthService(userRepo, password.NewBcryptHasher(0), tokenService, logger)
	intensityService := service.NewRegionCarbonService(engineClient, kv, logger)
	emissionService := service.NewEmissionService(emissionRepo, scoreRepo, intensityService, engineClient, hub, logger)
	budgetService := service.NewBudgetService(budgetRepo, emissionRepo, logger)
	schedulerService := service.NewSchedulerService(engineClient, intensityService, logger)
	greenModeService := service.NewGreenModeService(engineClient, kv, logger)
	advisorService := service.NewAdvisorService(engineClient, kv, logger)

	deps := httpserver.RouterDeps{
		AuthHandlers:      handlers.NewAuthHandlers(authService, logger),
		EmissionsHandlers: handlers.NewEmissionsHandlers(emissionService, logger),
		BudgetHandlers:    handlers.NewBudgetHandlers(budgetService, logger),
		GreenModeHandlers: handlers.NewGreenModeHandlers(greenModeService, logger),
		ReportsHandlers:   handlers.NewReportsHandlers(userRepo, emissionService, logger),
		RegionCarbon:      handlers.NewRegionCarbonHandler(intensityService),
		Scheduler:         handlers.NewSchedulerHandler(schedulerService, logger),
		Advisor:           handlers.NewAdvisorHandler(advisorService),
		Models:            handlers.NewModelsHandler(),
		Regions:           handlers.NewRegionsHandler(intensityService),
		LiveFeed:          handlers.NewLiveFeedHandler(hub, logger),
		Health:            handlers.NewHealthHandler(),
	}

	router := httpserver.NewRouter(deps, middleware.AuthMiddleware(tokenService))
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	app := &App{
		server:      server,
		hub:         hub,
		db:          sqlDB,
		redisClient: redisClient,
		logger:      logger,
	}

	if cfg.SeedDemo {
		app.seedDemoUsers(context.Background(), authService)
	}

	return app, nil
}

// Run starts the live feed hub and the HTTP server.
func (a *App) Run(ctx context.Context) error {
	go a.hub.Run(ctx)
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}

func (a *App) seedDemoUsers(ctx context.Context, auth *service.AuthService) {
	seeds := []struct {
		email    string
		password string
		fullName string
	}{
		{"demo@ecopulse.dev", "demo1234", "Demo User"},
		{"analyst@ecopulse.dev", "analyst1234", "Demo Analyst"},
	}
	for _, s := range seeds {
		if _, err := auth.Signup(ctx, s.email, s.password, s.fullName); err != nil {
			if errors.Is(err, service.ErrEmailInUse) {
				continue
			}
			a.logger.Warn("failed to seed demo user", zap.String("email", s.email), zap.Error(err))
		}
	}
}
