package app

import (
	"context"
	"fmt"

	"github.com/futurewise/web-gateway/config"
	"github.com/futurewise/web-gateway/internal/observability"
	"github.com/futurewise/web-gateway/internal/paths"
	"github.com/futurewise/web-gateway/middleware"
	"go.uber.org/zap"
)

// Version is reported by the status endpoint
const Version = "0.1.0"

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *observability.Metrics

	// Upstream API used for readiness
	Upstream UpstreamChecker

	// Auth
	Protected    *paths.PrefixSet
	RequestGuard *middleware.RequestGuard
}

// NewDependencies creates and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if cfg.Observability.MetricsEnabled {
		deps.Metrics = observability.NewMetrics()
	}

	upstream, err := NewHTTPUpstream(cfg.Auth.APIBase, cfg.Auth.HydrateTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize upstream checker: %w", err)
	}
	deps.Upstream = upstream

	deps.initAuth(cfg)

	logger.Info("all dependencies initialized successfully",
		zap.Strings("protected_prefixes", deps.Protected.Prefixes()),
		zap.String("api_base", cfg.Auth.APIBase),
		zap.Bool("metrics_enabled", deps.Metrics != nil),
	)
	return deps, nil
}

func (d *Dependencies) initAuth(cfg *config.Config) {
	d.Protected = paths.NewPrefixSet(cfg.Auth.ProtectedPrefixes...)
	d.RequestGuard = middleware.NewRequestGuard(middleware.GuardConfig{
		CookieName: cfg.Auth.CookieName,
		LoginPath:  cfg.Auth.LoginPath,
		Protected:  d.Protected,
	}, d.Metrics, d.Logger)
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	if closer, ok := d.Upstream.(interface{ CloseIdleConnections() }); ok {
		closer.CloseIdleConnections()
	}

	_ = d.Logger.Sync()
	return nil
}
