package token

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/futurewise/web-gateway/models"
	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformedToken is returned when the token is not three dot-separated segments
	ErrMalformedToken = errors.New("malformed token")

	// ErrInvalidEncoding is returned when the payload segment is not base64url
	ErrInvalidEncoding = errors.New("invalid payload encoding")

	// ErrInvalidPayload is returned when the payload is not a JSON object
	ErrInvalidPayload = errors.New("invalid payload")
)

const (
	claimSubject  = "sub"
	claimTenantID = "tenant_id"
	claimRole     = "role"
)

// segmentDecoder decodes base64url token segments. Padding is tolerated because
// some issuers emit padded segments.
var segmentDecoder = jwt.NewParser(jwt.WithPaddingAllowed())

// Claims holds the fields the gateway reads from an access token payload
type Claims struct {
	Subject  string
	TenantID string
	Role     models.UserRole
	Raw      jwt.MapClaims
}

// DecodeClaims extracts the payload of a token WITHOUT verifying its signature.
// The result is only suitable for routing and UI decisions; the API that issued the
// token remains responsible for verification.
func DecodeClaims(tokenString string) (*Claims, error) {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 segments, got %d", ErrMalformedToken, len(parts))
	}

	payload, err := segmentDecoder.DecodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}

	raw := jwt.MapClaims{}
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data", ErrInvalidPayload)
	}
	// "null" decodes into a nil map without error
	if raw == nil {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidPayload)
	}

	return parseClaims(raw), nil
}

// parseClaims coerces the identity fields to strings and defaults the role
func parseClaims(raw jwt.MapClaims) *Claims {
	role := models.UserRole(claimString(raw, claimRole))
	if role == "" {
		role = models.DefaultRole
	}

	return &Claims{
		Subject:  claimString(raw, claimSubject),
		TenantID: claimString(raw, claimTenantID),
		Role:     role,
		Raw:      raw,
	}
}

// claimString returns the claim formatted as a string, or "" when absent
func claimString(raw jwt.MapClaims, key string) string {
	switch v := raw[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return formatNumber(v)
	default:
		return fmt.Sprint(v)
	}
}

// formatNumber renders a numeric claim in plain decimal form, so 1e3 becomes
// "1000" and 7.0 becomes "7".
func formatNumber(n json.Number) string {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	if f, err := n.Float64(); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return n.String()
}

// Identity converts the claims into the request-scoped identity
func (c *Claims) Identity() *models.Identity {
	return &models.Identity{
		UserID:   c.Subject,
		TenantID: c.TenantID,
		Role:     c.Role,
	}
}
