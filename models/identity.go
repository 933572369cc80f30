package models

// Identity is the request-scoped view of the caller derived from the access token.
// It is rebuilt on every request and never persisted.
type Identity struct {
	UserID   string   `json:"user_id"`
	TenantID string   `json:"tenant_id"`
	Role     UserRole `json:"role"`
}
