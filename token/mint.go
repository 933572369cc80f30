package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/futurewise/web-gateway/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTTL matches the access token lifetime used by the FutureWise API
const DefaultTTL = 12 * time.Hour

// AccessClaims is the payload layout of FutureWise access tokens
type AccessClaims struct {
	jwt.RegisteredClaims
	TenantID string          `json:"tenant_id"`
	Role     models.UserRole `json:"role"`
}

// Mint signs an HS256 access token for local development and tests.
// Production tokens are issued by the API; the gateway never mints them.
func Mint(subject, tenantID string, role models.UserRole, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("signing secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	now := time.Now()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		TenantID: tenantID,
		Role:     role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing access token: %w", err)
	}
	return signed, nil
}
