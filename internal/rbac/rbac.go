package rbac

import "github.com/futurewise/web-gateway/models"

// roleRank orders roles from least to most privileged. Higher value = more permissions.
var roleRank = map[models.UserRole]int{
	models.RoleViewer:        1,
	models.RoleAnalyst:       2,
	models.RoleTenantUser:    3,
	models.RoleManager:       4,
	models.RoleTenantAdmin:   5,
	models.RoleSystemManager: 6,
	models.RoleOwner:         7,
}

// Rank returns the position of role in the hierarchy. Unknown roles rank 0.
func Rank(role models.UserRole) int {
	return roleRank[role]
}

// HasMinRole reports whether role is at least as privileged as minRole
func HasMinRole(role, minRole models.UserRole) bool {
	return Rank(role) >= Rank(minRole)
}

// IsOwner reports whether role is the system owner
func IsOwner(role models.UserRole) bool {
	return role == models.RoleOwner
}

// IsSystemManager reports whether role can manage the whole system
func IsSystemManager(role models.UserRole) bool {
	return role == models.RoleSystemManager || IsOwner(role)
}

// IsTenantAdmin reports whether role can administer a tenant
func IsTenantAdmin(role models.UserRole) bool {
	return role == models.RoleTenantAdmin || IsSystemManager(role)
}

// Capabilities bundles the derived role checks for the page-load layer
type Capabilities struct {
	IsOwner         bool `json:"is_owner"`
	IsSystemManager bool `json:"is_system_manager"`
	IsTenantAdmin   bool `json:"is_tenant_admin"`
}

// CapabilitiesFor computes the capabilities granted to role
func CapabilitiesFor(role models.UserRole) Capabilities {
	return Capabilities{
		IsOwner:         IsOwner(role),
		IsSystemManager: IsSystemManager(role),
		IsTenantAdmin:   IsTenantAdmin(role),
	}
}
