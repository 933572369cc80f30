package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/futurewise/web-gateway/app"
	"github.com/futurewise/web-gateway/utils"
	"go.uber.org/zap"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthCheck always reports ok while the process is serving
func HealthCheck(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteJSON(w, http.StatusOK, HealthResponse{
			Status:    "ok",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// ReadinessCheck probes the upstream API that serves the current-user endpoint
func ReadinessCheck(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := make(map[string]string)
		status := "ready"
		httpStatus := http.StatusOK

		if deps.Upstream == nil {
			checks["api"] = "not_configured"
		} else if err := deps.Upstream.Check(ctx); err != nil {
			deps.Logger.Warn("upstream health check failed", zap.Error(err))
			checks["api"] = "unhealthy"
		} else {
			checks["api"] = "healthy"
		}

		if checks["api"] != "healthy" {
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
		}

		_ = utils.WriteJSON(w, httpStatus, HealthResponse{
			Status:    status,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Checks:    checks,
		})
	}
}

// StatusResponse describes the running gateway
type StatusResponse struct {
	Version           string   `json:"version"`
	Environment       string   `json:"environment"`
	ProtectedPrefixes []string `json:"protected_prefixes"`
	LoginPath         string   `json:"login_path"`
}

// StatusHandler returns application status information
func StatusHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteOK(w, StatusResponse{
			Version:           app.Version,
			Environment:       deps.Config.Environment,
			ProtectedPrefixes: deps.Protected.Prefixes(),
			LoginPath:         deps.Config.Auth.LoginPath,
		})
	}
}
