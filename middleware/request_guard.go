package middleware

import (
	"errors"
	"net/http"

	"github.com/futurewise/web-gateway/internal/observability"
	"github.com/futurewise/web-gateway/internal/paths"
	"github.com/futurewise/web-gateway/models"
	"github.com/futurewise/web-gateway/token"
	"go.uber.org/zap"
)

const (
	// DefaultAccessCookieName is the HTTP-only cookie carrying the access token
	DefaultAccessCookieName = "access_token"

	// DefaultLoginPath is where unauthenticated visitors are sent
	DefaultLoginPath = "/login"
)

// GuardConfig configures the RequestGuard
type GuardConfig struct {
	CookieName string
	LoginPath  string
	Protected  *paths.PrefixSet
}

// RequestGuard derives the caller identity from the access token cookie and
// redirects anonymous visitors away from protected routes.
//
// The token payload is decoded without signature verification. The identity is a
// routing and display hint only; the API verifies the token on every call.
type RequestGuard struct {
	cookieName string
	loginPath  string
	protected  *paths.PrefixSet
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewRequestGuard creates a new RequestGuard. Empty config fields fall back to defaults.
func NewRequestGuard(cfg GuardConfig, metrics *observability.Metrics, logger *zap.Logger) *RequestGuard {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultAccessCookieName
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = DefaultLoginPath
	}
	if cfg.Protected == nil {
		cfg.Protected = paths.NewPrefixSet(paths.DefaultProtected...)
	}
	return &RequestGuard{
		cookieName: cfg.CookieName,
		loginPath:  cfg.LoginPath,
		protected:  cfg.Protected,
		metrics:    metrics,
		logger:     logger,
	}
}

// Handler is the middleware entry point. It must run before any page handler.
func (g *RequestGuard) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := GetRequestIDFromContext(ctx)

		raw := g.readToken(r)
		identity, state := g.decodeIdentity(raw, requestID)
		ctx = WithIdentity(ctx, identity)

		// The gate keys on the presence of the raw cookie, not on a successful decode
		if raw == "" && g.protected.Match(r.URL.Path) {
			g.logger.Debug("redirecting anonymous request",
				zap.String("request_id", requestID),
				zap.String("path", r.URL.Path))
			g.metrics.RecordGuardDecision(observability.DecisionRedirect, state)
			w.Header().Set("Location", g.loginPath)
			w.WriteHeader(http.StatusFound)
			return
		}

		g.metrics.RecordGuardDecision(observability.DecisionAllow, state)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// readToken returns the access token cookie value, or "" when absent
func (g *RequestGuard) readToken(r *http.Request) string {
	cookie, err := r.Cookie(g.cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// decodeIdentity turns the raw token into an identity. Decode failures are logged
// and yield an anonymous identity; they never reach the caller.
func (g *RequestGuard) decodeIdentity(raw, requestID string) (*models.Identity, string) {
	if raw == "" {
		return nil, observability.IdentityAnonymous
	}

	claims, err := token.DecodeClaims(raw)
	if err != nil {
		reason := decodeFailureReason(err)
		g.logger.Debug("ignoring undecodable access token",
			zap.String("request_id", requestID),
			zap.String("reason", reason),
			zap.Error(err))
		g.metrics.RecordDecodeFailure(reason)
		return nil, observability.IdentityUndecodable
	}

	identity := claims.Identity()
	g.logger.Debug("identity extracted",
		zap.String("request_id", requestID),
		zap.String("user_id", identity.UserID),
		zap.String("tenant_id", identity.TenantID),
		zap.String("role", string(identity.Role)))
	return identity, observability.IdentityAuthenticated
}

func decodeFailureReason(err error) string {
	switch {
	case errors.Is(err, token.ErrMalformedToken):
		return "malformed"
	case errors.Is(err, token.ErrInvalidEncoding):
		return "encoding"
	case errors.Is(err, token.ErrInvalidPayload):
		return "payload"
	default:
		return "unknown"
	}
}
