package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/futurewise/web-gateway/app"
	"github.com/futurewise/web-gateway/config"
	"github.com/futurewise/web-gateway/internal/paths"
	"github.com/futurewise/web-gateway/middleware"
	"github.com/futurewise/web-gateway/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeUpstream struct {
	err error
}

func (f fakeUpstream) Check(context.Context) error {
	return f.err
}

func testDeps(env string, upstream app.UpstreamChecker) *app.Dependencies {
	return &app.Dependencies{
		Config: &config.Config{
			Environment: env,
			Auth:        config.AuthConfig{LoginPath: "/login"},
		},
		Logger:    zap.NewNop(),
		Upstream:  upstream,
		Protected: paths.NewPrefixSet(paths.DefaultProtected...),
	}
}

func TestPageHandler(t *testing.T) {
	deps := testDeps("development", nil)

	t.Run("anonymous caller", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		w := httptest.NewRecorder()

		PageHandler(deps)(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{
			"path": "/",
			"user": null,
			"capabilities": {"is_owner": false, "is_system_manager": false, "is_tenant_admin": false}
		}`, w.Body.String())
	})

	t.Run("identity and capabilities", func(t *testing.T) {
		identity := &models.Identity{UserID: "u1", TenantID: "alpha", Role: models.RoleSystemManager}
		req := httptest.NewRequest(http.MethodGet, "/scenarios/42", nil)
		req = req.WithContext(middleware.WithIdentity(req.Context(), identity))
		w := httptest.NewRecorder()

		PageHandler(deps)(w, req)

		assert.JSONEq(t, `{
			"path": "/scenarios/42",
			"user": {"user_id": "u1", "tenant_id": "alpha", "role": "system_manager"},
			"role_label": "System Manager",
			"role_color": "bg-purple-100 text-purple-800",
			"capabilities": {"is_owner": false, "is_system_manager": true, "is_tenant_admin": true}
		}`, w.Body.String())
	})
}

func TestLoginPageHandler(t *testing.T) {
	t.Run("development lists demo accounts", func(t *testing.T) {
		w := httptest.NewRecorder()
		LoginPageHandler(testDeps("development", nil))(w, httptest.NewRequest(http.MethodGet, "/login", nil))

		var body LoginPageData
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		require.Len(t, body.DemoAccounts, 6)
		assert.Equal(t, "alpha_admin", body.DemoAccounts[0].Key)
		assert.Equal(t, "Tenant Admin", body.DemoAccounts[0].RoleLabel)
		assert.Equal(t, "bg-blue-100 text-blue-800", body.DemoAccounts[0].RoleColor)
		assert.NotEmpty(t, body.DemoAccounts[0].Description)
		assert.Nil(t, body.User)
	})

	t.Run("production hides demo accounts", func(t *testing.T) {
		w := httptest.NewRecorder()
		LoginPageHandler(testDeps("production", nil))(w, httptest.NewRequest(http.MethodGet, "/login", nil))

		assert.NotContains(t, w.Body.String(), "demo_accounts")
	})
}

func TestNotFoundHandler(t *testing.T) {
	w := httptest.NewRecorder()
	NotFoundHandler(testDeps("development", nil))(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "not_found", body["error"])
	assert.Equal(t, "/nope", body["details"].(map[string]interface{})["path"])
}

func TestHealthCheck(t *testing.T) {
	w := httptest.NewRecorder()
	HealthCheck(testDeps("development", nil))(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var body HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body.Status)
	assert.NotEmpty(t, body.Timestamp)
}

func TestReadinessCheck(t *testing.T) {
	tests := []struct {
		name       string
		upstream   app.UpstreamChecker
		wantStatus int
		wantCheck  string
	}{
		{"upstream healthy", fakeUpstream{}, http.StatusOK, "healthy"},
		{"upstream failing", fakeUpstream{err: errors.New("refused")}, http.StatusServiceUnavailable, "unhealthy"},
		{"no upstream", nil, http.StatusServiceUnavailable, "not_configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			ReadinessCheck(testDeps("development", tt.upstream))(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			var body HealthResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCheck, body.Checks["api"])
		})
	}
}

func TestStatusHandler(t *testing.T) {
	w := httptest.NewRecorder()
	StatusHandler(testDeps("staging", nil))(w, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	var body struct {
		Data StatusResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, app.Version, body.Data.Version)
	assert.Equal(t, "staging", body.Data.Environment)
	assert.Equal(t, paths.DefaultProtected, body.Data.ProtectedPrefixes)
	assert.Equal(t, "/login", body.Data.LoginPath)
}
