// Package demo holds the development accounts used to exercise role-based UI
// and the human readable role descriptions shown next to them.
package demo

import (
	"sort"

	"github.com/futurewise/web-gateway/models"
)

// User is a development account. The password is only meaningful to the local
// API's demo login and never to the gateway.
type User struct {
	Key         string          `json:"key"`
	Email       string          `json:"email" validate:"required,email"`
	Password    string          `json:"-"`
	Role        models.UserRole `json:"role" validate:"required,fwrole"`
	TenantID    string          `json:"tenant_id" validate:"required"`
	DisplayName string          `json:"display_name"`
}

// Users lists the demo accounts by key
var Users = map[string]User{
	"owner": {
		Key: "owner", Email: "owner@futurewise.local", Password: "secret",
		Role: models.RoleOwner, TenantID: "system", DisplayName: "System Owner",
	},
	"system_manager": {
		Key: "system_manager", Email: "sysman@futurewise.local", Password: "secret",
		Role: models.RoleSystemManager, TenantID: "system", DisplayName: "System Manager",
	},
	"alpha_admin": {
		Key: "alpha_admin", Email: "alpha.admin@futurewise.local", Password: "secret",
		Role: models.RoleTenantAdmin, TenantID: "alpha", DisplayName: "Alpha Admin",
	},
	"beta_admin": {
		Key: "beta_admin", Email: "beta.admin@futurewise.local", Password: "secret",
		Role: models.RoleTenantAdmin, TenantID: "beta", DisplayName: "Beta Admin",
	},
	"alpha_user": {
		Key: "alpha_user", Email: "alpha.user@futurewise.local", Password: "secret",
		Role: models.RoleTenantUser, TenantID: "alpha", DisplayName: "Alpha User",
	},
	"beta_user": {
		Key: "beta_user", Email: "beta.user@futurewise.local", Password: "secret",
		Role: models.RoleTenantUser, TenantID: "beta", DisplayName: "Beta User",
	},
}

// Keys returns the demo account keys in sorted order
func Keys() []string {
	keys := make([]string, 0, len(Users))
	for k := range Users {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Lookup returns the demo account for key
func Lookup(key string) (User, bool) {
	u, ok := Users[key]
	return u, ok
}

// RoleDescriptions explains each role to end users (German, as shown in the UI)
var RoleDescriptions = map[models.UserRole]string{
	models.RoleOwner:         "Vollzugriff auf das gesamte System, alle Tenants und Benutzer",
	models.RoleSystemManager: "System-weite Verwaltung, Tenant-Erstellung und -Übersicht",
	models.RoleTenantAdmin:   "Vollzugriff innerhalb des eigenen Tenants, Benutzerverwaltung",
	models.RoleTenantUser:    "Standard-Zugriff auf Daten und Szenarien des eigenen Tenants",
	models.RoleManager:       "Legacy-Rolle mit erweiterten Rechten (entspricht tenant_admin)",
	models.RoleAnalyst:       "Legacy-Rolle mit Standard-Rechten (entspricht tenant_user)",
	models.RoleViewer:        "Legacy-Rolle mit Nur-Lese-Zugriff",
}

// Describe returns the description for role, or "" for unknown roles
func Describe(role models.UserRole) string {
	return RoleDescriptions[role]
}
