package server

import (
	"context"
	"errors"
	"net/http"

	"taskflow/backend/internal/cache"
	"taskflow/backend/internal/config"
	"taskflow/backend/internal/database"
	"taskflow/backend/internal/handlers"
	"taskflow/backend/internal/middleware"
	"taskflow/backend/internal/monitoring"
	"taskflow/backend/internal/repositories"
	"taskflow/backend/internal/services"

	"github.com/gin-gonic/gin"
)

// API owns the HTTP server and the middleware that needs stopping.
type API struct {
	httpSrv *http.Server
	router  *gin.Engine
	limiter *middleware.RateLimiter
	health  *monitoring.HealthChecker
}

// New wires repositories, services and handlers over pool and builds the
// router. revocations may be nil, in which case logout cannot invalidate
// access tokens before they expire.
func New(cfg *config.Config, pool *database.DatabasePool, revocations *cache.RevocationStore) (*API, error) {
	if cfg == nil || pool == nil || pool.DB == nil {
		return nil, errors.New("server: config and database pool are required")
	}

	userRepo := repositories.NewUserRepository(pool.DB)
	categoryRepo := repositories.NewCategoryRepository(pool.DB)
	taskRepo := repositories.NewTaskRepository(pool.DB)
	tokenRepo := repositories.NewTokenRepository(pool.DB)

	var revoker services.TokenRevoker
	if revocations != nil {
		revoker = revocations
	}
	issuer := services.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.AccessTokenTTL)
	authService := services.NewAuthService(userRepo, tokenRepo, issuer, revoker, cfg.Auth.RefreshTokenTTL)

	api := &API{
		health: monitoring.NewHealthChecker(0),
	}
	api.health.Register("database", pool.Health)
	if revocations != nil {
		api.health.Register("revocation_store", revocations.Health)
	}
	if cfg.RateLimit.Enabled {
		api.limiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMin, cfg.RateLimit.BurstSize, cfg.RateLimit.CleanupInterval)
	}

	router := gin.New()
	router.Use(
		middleware.RecoveryWithLog(),
		middleware.RequestID(),
		middleware.RequestLogger(),
		monitoring.MetricsMiddleware(),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
	})

	stats := map[string]monitoring.StatsFunc{
		"database": func() interface{} { return pool.Stats() },
	}
	if revocations != nil {
		stats["revocation_store"] = func() interface{} { return revocations.Stats() }
	}
	router.GET("/health", monitoring.HealthHandler(api.health))
	router.GET("/health/live", monitoring.LivenessHandler())
	router.GET("/health/ready", monitoring.ReadinessHandler(api.health))
	router.GET("/metrics", monitoring.MetricsHandler(stats))

	routes := routeSet{
		auth:       handlers.NewAuthHandler(services.NewRegisterService(userRepo, cfg.Auth.BCryptCost), authService),
		tasks:      handlers.NewTaskHandler(services.NewTaskService(taskRepo, categoryRepo)),
		categories: handlers.NewCategoryHandler(services.NewCategoryService(categoryRepo)),
		dashboard:  handlers.NewDashboardHandler(services.NewDashboardService(taskRepo)),
		verifier:   authService,
		limiter:    api.limiter,
	}
	routes.register(router.Group(""))
	routes.register(router.Group("/api"))

	api.router = router
	api.httpSrv = &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return api, nil
}

func (a *API) Handler() http.Handler {
	return a.router
}

// Start blocks serving HTTP until Shutdown is called.
func (a *API) Start() error {
	if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *API) Shutdown(ctx context.Context) error {
	if a.limiter != nil {
		a.limiter.Stop()
	}
	return a.httpSrv.Shutdown(ctx)
}
