package session

import (
	"strings"

	"github.com/futurewise/web-gateway/models"
)

// DisplayInfo is the user summary shown in the application header
type DisplayInfo struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Tenant string `json:"tenant"`
}

// GetUserDisplayInfo returns nil when there is no user or the user has no email.
// The name falls back to the part of the email before the first "@".
func GetUserDisplayInfo(user *models.User) *DisplayInfo {
	if user == nil || user.Email == "" {
		return nil
	}

	name := user.DisplayName
	if name == "" {
		name, _, _ = strings.Cut(user.Email, "@")
	}

	return &DisplayInfo{
		Name:   name,
		Email:  user.Email,
		Role:   user.Role.Label(),
		Tenant: user.TenantID,
	}
}
