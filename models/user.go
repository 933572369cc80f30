package models

// UserRole represents the role tag carried by a user record and by access tokens
type UserRole string

const (
	RoleOwner         UserRole = "owner"
	RoleSystemManager UserRole = "system_manager"
	RoleTenantAdmin   UserRole = "tenant_admin"
	RoleTenantUser    UserRole = "tenant_user"
	RoleManager       UserRole = "manager"
	RoleAnalyst       UserRole = "analyst" // Legacy
	RoleViewer        UserRole = "viewer"  // Legacy
)

// DefaultRole is assigned when a token carries no role claim
const DefaultRole = RoleViewer

// AllRoles lists every known role, least privileged first
var AllRoles = []UserRole{
	RoleViewer,
	RoleAnalyst,
	RoleTenantUser,
	RoleManager,
	RoleTenantAdmin,
	RoleSystemManager,
	RoleOwner,
}

// RoleLabels maps roles to their human readable label
var RoleLabels = map[UserRole]string{
	RoleOwner:         "Owner",
	RoleSystemManager: "System Manager",
	RoleTenantAdmin:   "Tenant Admin",
	RoleTenantUser:    "Tenant User",
	RoleManager:       "Manager",
	RoleAnalyst:       "Analyst",
	RoleViewer:        "Viewer",
}

// RoleColors maps roles to the badge classes used by the UI
var RoleColors = map[UserRole]string{
	RoleOwner:         "bg-red-100 text-red-800",
	RoleSystemManager: "bg-purple-100 text-purple-800",
	RoleTenantAdmin:   "bg-blue-100 text-blue-800",
	RoleTenantUser:    "bg-green-100 text-green-800",
	RoleManager:       "bg-yellow-100 text-yellow-800",
	RoleAnalyst:       "bg-gray-100 text-gray-800",
	RoleViewer:        "bg-gray-100 text-gray-800",
}

// IsValid reports whether the role is one of the known tags
func (r UserRole) IsValid() bool {
	_, ok := RoleLabels[r]
	return ok
}

// Label returns the display label, falling back to the raw tag for unknown roles
func (r UserRole) Label() string {
	if label, ok := RoleLabels[r]; ok {
		return label
	}
	return string(r)
}

// Color returns the badge classes for the role, or "" for unknown roles
func (r UserRole) Color() string {
	return RoleColors[r]
}

// User represents the user record returned by the API's current-user endpoint.
// Timestamps are kept as the API formats them.
type User struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	DisplayName string   `json:"display_name,omitempty"`
	Role        UserRole `json:"role"`
	TenantID    string   `json:"tenant_id"`
	CreatedAt   string   `json:"created_at,omitempty"`
	UpdatedAt   string   `json:"updated_at,omitempty"`
}

// UserPatch carries a partial user update. Nil fields are left unchanged.
type UserPatch struct {
	Email       *string
	DisplayName *string
	Role        *UserRole
	TenantID    *string
	UpdatedAt   *string
}

// Apply returns a copy of u with the non-nil patch fields merged in
func (p UserPatch) Apply(u User) User {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.DisplayName != nil {
		u.DisplayName = *p.DisplayName
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.TenantID != nil {
		u.TenantID = *p.TenantID
	}
	if p.UpdatedAt != nil {
		u.UpdatedAt = *p.UpdatedAt
	}
	return u
}
