package routes

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/BradenHooton/decoyra/internal/auth"
	"github.com/BradenHooton/decoyra/internal/handlers"
	"github.com/BradenHooton/decoyra/internal/metrics"
	"github.com/BradenHooton/decoyra/internal/middleware"
	pkghttp "github.com/BradenHooton/decoyra/pkg/http"
)

// Dependencies are the handlers and settings the routes are built from
type Dependencies struct {
	DecoyHandler   *handlers.DecoyHandler
	StatsHandler   *handlers.StatsHandler
	HealthHandler  *handlers.HealthHandler
	HoneypotKeys   *auth.APIKeySet
	StatsKeys      *auth.APIKeySet
	StatsRateLimit middleware.RateLimitConfig
	IPConfig       *pkghttp.IPConfig
	Logger         *slog.Logger
}

// RegisterRoutes registers all application routes
func RegisterRoutes(router chi.Router, deps Dependencies) {
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		pkghttp.WriteNotFound(w)
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		pkghttp.WriteMethodNotAllowed(w)
	})

	router.Get("/", deps.HealthHandler.Home)
	router.Get("/health", deps.HealthHandler.Health)
	router.Method(http.MethodGet, "/metrics", metrics.Handler())

	// Fake login forms - every attempt is recorded and rejected
	for _, endpoint := range handlers.LoginEndpoints {
		router.Post(endpoint.Path, deps.DecoyHandler.Login(endpoint))
	}

	router.With(auth.RequireAPIKey(deps.HoneypotKeys, deps.IPConfig, deps.Logger)).
		Post("/honeypot", deps.DecoyHandler.Honeypot)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RateLimitByIP(deps.StatsRateLimit, deps.IPConfig))
		r.Use(auth.RequireAPIKey(deps.StatsKeys, deps.IPConfig, deps.Logger))
		r.Get("/stats", deps.StatsHandler.GetStats)
	})
}
