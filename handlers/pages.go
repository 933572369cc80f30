package handlers

import (
	"net/http"

	"github.com/futurewise/web-gateway/app"
	"github.com/futurewise/web-gateway/internal/demo"
	"github.com/futurewise/web-gateway/internal/rbac"
	"github.com/futurewise/web-gateway/internal/shared"
	"github.com/futurewise/web-gateway/middleware"
	"github.com/futurewise/web-gateway/models"
	"github.com/futurewise/web-gateway/utils"
	"go.uber.org/zap"
)

// PageData is the page-load payload handed to the rendering layer
type PageData struct {
	Path         string            `json:"path"`
	User         *models.Identity  `json:"user"`
	RoleLabel    string            `json:"role_label,omitempty"`
	RoleColor    string            `json:"role_color,omitempty"`
	Capabilities rbac.Capabilities `json:"capabilities"`
}

// LoginPageData extends PageData with the demo accounts offered in development
type LoginPageData struct {
	PageData
	DemoAccounts []DemoAccount `json:"demo_accounts,omitempty"`
}

// DemoAccount describes a demo login for the login page
type DemoAccount struct {
	Key         string          `json:"key"`
	Email       string          `json:"email"`
	Role        models.UserRole `json:"role"`
	RoleLabel   string          `json:"role_label"`
	RoleColor   string          `json:"role_color"`
	Description string          `json:"description"`
	TenantID    string          `json:"tenant_id"`
}

func newPageData(r *http.Request) PageData {
	identity := middleware.GetIdentityFromContext(r.Context())

	data := PageData{Path: r.URL.Path, User: identity}
	if identity != nil {
		data.RoleLabel = identity.Role.Label()
		data.RoleColor = identity.Role.Color()
		data.Capabilities = rbac.CapabilitiesFor(identity.Role)
	}
	return data
}

// PageHandler returns the page-load data for the requested path. The identity
// is whatever the request guard placed in the context, nil for anonymous callers.
func PageHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := utils.WriteJSON(w, http.StatusOK, newPageData(r)); err != nil {
			deps.Logger.Error("failed to write page data", zap.Error(err))
		}
	}
}

// LoginPageHandler serves the login page data. Outside production it lists the
// demo accounts so the UI can offer one-click logins.
func LoginPageHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := LoginPageData{PageData: newPageData(r)}

		if !deps.Config.IsProduction() {
			for _, key := range demo.Keys() {
				u, _ := demo.Lookup(key)
				data.DemoAccounts = append(data.DemoAccounts, DemoAccount{
					Key:         u.Key,
					Email:       u.Email,
					Role:        u.Role,
					RoleLabel:   u.Role.Label(),
					RoleColor:   u.Role.Color(),
					Description: demo.Describe(u.Role),
					TenantID:    u.TenantID,
				})
			}
		}

		if err := utils.WriteJSON(w, http.StatusOK, data); err != nil {
			deps.Logger.Error("failed to write login page data", zap.Error(err))
		}
	}
}

// NotFoundHandler answers unknown paths with a JSON 404
func NotFoundHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := shared.NewDomainError(shared.ErrorTypeNotFound, "page not found", nil).WithDetail("path", r.URL.Path)
		if writeErr := utils.WriteDomainError(w, err); writeErr != nil {
			deps.Logger.Error("failed to write not found response", zap.Error(writeErr))
		}
	}
}
