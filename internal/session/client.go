package session

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/futurewise/web-gateway/internal/shared"
	"github.com/futurewise/web-gateway/models"
)

// CurrentUserPath is the API endpoint returning the caller's user record
const CurrentUserPath = "/auth/me"

// UserFetcher loads the user record for the current session
type UserFetcher interface {
	CurrentUser(ctx context.Context) (*models.User, error)
}

// APIClient talks to the FutureWise API with a cookie jar attached, so that the
// HTTP-only session cookie travels with every request.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a client for the API rooted at baseURL
func NewAPIClient(baseURL string, timeout time.Duration) (*APIClient, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid API base %q: %w", baseURL, err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: timeout,
		},
	}, nil
}

// SetCookie stores a cookie for the API origin, as a browser would after login
func (c *APIClient) SetCookie(name, value string) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("parse API base: %w", err)
	}
	c.httpClient.Jar.SetCookies(u, []*http.Cookie{{Name: name, Value: value, Path: "/"}})
	return nil
}

// CurrentUser calls GET {API_BASE}/auth/me. Any non-200 answer is reported as an
// unauthorized DomainError carrying the status code; transport and decode failures
// are reported as external errors.
func (c *APIClient) CurrentUser(ctx context.Context) (*models.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+CurrentUserPath, nil)
	if err != nil {
		return nil, shared.WrapInternal("build current user request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, shared.WrapExternal("fetch current user", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, shared.NewDomainError(shared.ErrorTypeUnauthorized, "current user request rejected", nil).
			WithDetail("status", resp.StatusCode)
	}

	var user models.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, shared.WrapExternal("decode current user", err)
	}
	return &user, nil
}
