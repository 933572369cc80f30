package routes

import (
	"net/http"
	"time"

	"github.com/futurewise/web-gateway/app"
	"github.com/futurewise/web-gateway/handlers"
	fwmiddleware "github.com/futurewise/web-gateway/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(fwmiddleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(fwmiddleware.RequestLogger(deps.Logger, deps.Metrics))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Route gating runs for every request so page handlers always see the identity
	r.Use(deps.RequestGuard.Handler)

	// Health check endpoints
	r.Get("/healthz", handlers.HealthCheck(deps))
	r.Get("/readyz", handlers.ReadinessCheck(deps))

	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   deps.Config.CORS.AllowedOrigins,
			AllowedMethods:   []string{"GET", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			ExposedHeaders:   []string{fwmiddleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           300,
		}))
		r.Get("/status", handlers.StatusHandler(deps))
	})

	// Pages
	r.Get("/", handlers.PageHandler(deps))
	r.Get(deps.Config.Auth.LoginPath, handlers.LoginPageHandler(deps))
	for _, prefix := range deps.Protected.Prefixes() {
		r.Get(prefix, handlers.PageHandler(deps))
		r.Get(prefix+"/*", handlers.PageHandler(deps))
	}

	r.NotFound(handlers.NotFoundHandler(deps))

	return r
}
