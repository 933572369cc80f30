package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/futurewise/web-gateway/config"
	"github.com/futurewise/web-gateway/internal/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testConfig(t *testing.T, apiBase string) *config.Config {
	t.Helper()
	return &config.Config{
		Environment: "test",
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            3000,
			ReadTimeout:     time.Second,
			WriteTimeout:    time.Second,
			ShutdownTimeout: time.Second,
		},
		Auth: config.AuthConfig{
			CookieName:        "access_token",
			LoginPath:         "/login",
			ProtectedPrefixes: []string{"/imports", "/scenarios", "/management"},
			APIBase:           apiBase,
			TokenStorageKey:   "fw_token",
			HydrateTimeout:    time.Second,
		},
		Observability: config.ObservabilityConfig{LogLevel: "error", LogFormat: "json", MetricsEnabled: true},
	}
}

func TestNewDependencies(t *testing.T) {
	t.Run("successful initialization", func(t *testing.T) {
		ctx := context.Background()
		deps, err := NewDependencies(ctx, testConfig(t, "http://localhost:8000"), zaptest.NewLogger(t))
		require.NoError(t, err)

		assert.NotNil(t, deps.Metrics)
		assert.NotNil(t, deps.Upstream)
		assert.NotNil(t, deps.RequestGuard)
		assert.Equal(t, []string{"/imports", "/scenarios", "/management"}, deps.Protected.Prefixes())
		assert.NoError(t, deps.Close(ctx))
	})

	t.Run("metrics disabled", func(t *testing.T) {
		cfg := testConfig(t, "http://localhost:8000")
		cfg.Observability.MetricsEnabled = false

		deps, err := NewDependencies(context.Background(), cfg, zaptest.NewLogger(t))
		require.NoError(t, err)
		assert.Nil(t, deps.Metrics)
	})

	t.Run("invalid api base", func(t *testing.T) {
		_, err := NewDependencies(context.Background(), testConfig(t, "::bad"), zaptest.NewLogger(t))
		assert.Error(t, err)
	})

	t.Run("missing config", func(t *testing.T) {
		_, err := NewDependencies(context.Background(), nil, nil)
		assert.Error(t, err)
	})
}

func TestHTTPUpstream_Check(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, UpstreamHealthPath, r.URL.Path)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		upstream, err := NewHTTPUpstream(server.URL+"/", time.Second)
		require.NoError(t, err)
		assert.NoError(t, upstream.Check(context.Background()))
	})

	t.Run("unhealthy status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		upstream, err := NewHTTPUpstream(server.URL, time.Second)
		require.NoError(t, err)

		err = upstream.Check(context.Background())
		require.Error(t, err)
		assert.True(t, shared.IsExternalError(err))
		assert.Equal(t, http.StatusServiceUnavailable, shared.GetErrorDetails(err)["status"])
	})

	t.Run("unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		server.Close()

		upstream, err := NewHTTPUpstream(server.URL, time.Second)
		require.NoError(t, err)
		assert.ErrorIs(t, upstream.Check(context.Background()), shared.ErrUpstream)
	})
}
