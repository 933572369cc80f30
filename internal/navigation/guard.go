// Package navigation implements the client-side route guard that runs once when
// a client host starts.
package navigation

import (
	"github.com/futurewise/web-gateway/internal/localstore"
	"github.com/futurewise/web-gateway/internal/paths"
	"go.uber.org/zap"
)

// Navigator performs client-side navigation
type Navigator interface {
	Goto(path string) error
}

// Guard redirects to the login path when the client starts on a protected path
// without a cached token. Only exact members of the protected set are checked,
// so /scenarios/42 is not guarded here; the request guard covers sub-paths.
type Guard struct {
	storage   localstore.Storage
	navigator Navigator
	protected paths.ExactSet
	tokenKey  string
	loginPath string
	logger    *zap.Logger
}

// Option configures a Guard
type Option func(*Guard)

// WithProtected replaces the default protected path set
func WithProtected(protected ...string) Option {
	return func(g *Guard) {
		g.protected = paths.NewExactSet(protected...)
	}
}

// WithTokenKey sets the local storage key holding the token hint
func WithTokenKey(key string) Option {
	return func(g *Guard) {
		if key != "" {
			g.tokenKey = key
		}
	}
}

// WithLoginPath sets the navigation target for unauthenticated starts
func WithLoginPath(path string) Option {
	return func(g *Guard) {
		if path != "" {
			g.loginPath = path
		}
	}
}

// WithLogger sets the guard's logger
func WithLogger(logger *zap.Logger) Option {
	return func(g *Guard) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGuard creates a Guard over the default protected paths
func NewGuard(storage localstore.Storage, navigator Navigator, opts ...Option) *Guard {
	g := &Guard{
		storage:   storage,
		navigator: navigator,
		protected: paths.NewExactSet(paths.DefaultProtected...),
		tokenKey:  localstore.TokenKey,
		loginPath: "/login",
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Start checks currentPath once and navigates to the login path when needed.
// It reports whether navigation happened.
func (g *Guard) Start(currentPath string) bool {
	if !g.protected.Match(currentPath) {
		return false
	}

	if token, ok := g.storage.GetItem(g.tokenKey); ok && token != "" {
		return false
	}

	if err := g.navigator.Goto(g.loginPath); err != nil {
		g.logger.Warn("navigation to login failed",
			zap.String("path", currentPath),
			zap.Error(err),
		)
		return false
	}

	g.logger.Debug("redirected to login", zap.String("path", currentPath))
	return true
}
