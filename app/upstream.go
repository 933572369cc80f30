package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/futurewise/web-gateway/internal/shared"
)

// UpstreamHealthPath is the API's liveness endpoint
const UpstreamHealthPath = "/health"

// UpstreamChecker reports whether the FutureWise API is reachable
type UpstreamChecker interface {
	Check(ctx context.Context) error
}

// HTTPUpstream probes the API over HTTP
type HTTPUpstream struct {
	healthURL string
	client    *http.Client
}

// NewHTTPUpstream creates a checker for the API rooted at baseURL
func NewHTTPUpstream(baseURL string, timeout time.Duration) (*HTTPUpstream, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid API base %q: %w", baseURL, err)
	}
	return &HTTPUpstream{
		healthURL: strings.TrimRight(baseURL, "/") + UpstreamHealthPath,
		client:    &http.Client{Timeout: timeout},
	}, nil
}

// Check performs a GET against the health endpoint. Any non-2xx answer is an error.
func (u *HTTPUpstream) Check(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.healthURL, nil)
	if err != nil {
		return shared.WrapInternal("build upstream health request", err)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return shared.WrapExternal("upstream API unreachable", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return shared.NewDomainError(shared.ErrorTypeExternal, "upstream API unhealthy", nil).
			WithDetail("status", resp.StatusCode)
	}
	return nil
}

// CloseIdleConnections releases pooled connections
func (u *HTTPUpstream) CloseIdleConnections() {
	u.client.CloseIdleConnections()
}
