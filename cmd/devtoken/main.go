// Command devtoken mints HS256 access tokens for the demo accounts so the
// gateway can be exercised locally without the API's login flow.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/futurewise/web-gateway/config"
	"github.com/futurewise/web-gateway/internal/demo"
	"github.com/futurewise/web-gateway/internal/shared"
	"github.com/futurewise/web-gateway/models"
	"github.com/futurewise/web-gateway/token"
	"github.com/futurewise/web-gateway/utils"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "devtoken: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	user     string
	subject  string
	tenantID string
	role     string
	secret   string
	ttl      time.Duration
	cookie   string
	list     bool
}

// parseFlags reads the command line. The secret defaults to the configured
// DEV_TOKEN_SECRET.
func parseFlags(args []string, defaultSecret string) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("devtoken", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.user, "user", "", "demo account key (see -list)")
	fs.StringVar(&opts.subject, "sub", "", "subject claim, overrides the demo account")
	fs.StringVar(&opts.tenantID, "tenant", "", "tenant_id claim, overrides the demo account")
	fs.StringVar(&opts.role, "role", "", "role claim, overrides the demo account")
	fs.StringVar(&opts.secret, "secret", defaultSecret, "HS256 signing secret")
	fs.DurationVar(&opts.ttl, "ttl", token.DefaultTTL, "token lifetime")
	fs.StringVar(&opts.cookie, "cookie", "", "print a Set-Cookie header with this cookie name instead of the bare token")
	fs.BoolVar(&opts.list, "list", false, "list demo accounts")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

// claimsFor resolves the token claims from the demo account and explicit overrides
func claimsFor(opts *options) (subject, tenantID string, role models.UserRole, err error) {
	if opts.user != "" {
		u, ok := demo.Lookup(opts.user)
		if !ok {
			return "", "", "", fmt.Errorf("unknown demo account %q", opts.user)
		}
		subject, tenantID, role = u.Email, u.TenantID, u.Role
	}

	if opts.subject != "" {
		subject = opts.subject
	}
	if opts.tenantID != "" {
		tenantID = opts.tenantID
	}
	if opts.role != "" {
		role = models.UserRole(opts.role)
	}

	if subject == "" {
		return "", "", "", fmt.Errorf("either -user or -sub is required")
	}
	if role == "" {
		role = models.DefaultRole
	}
	if err := utils.ValidateVar(string(role), "fwrole"); err != nil {
		return "", "", "", shared.NewDomainError(shared.ErrorTypeValidation, "invalid role", err).WithDetail("role", string(role))
	}
	return subject, tenantID, role, nil
}

func run(ctx context.Context, args []string, out io.Writer) error {
	cfg, err := config.New(ctx)
	if err != nil {
		return err
	}
	if cfg.IsProduction() {
		return errors.New("minting development tokens is disabled in production")
	}

	opts, err := parseFlags(args, cfg.Auth.DevTokenSecret)
	if err != nil {
		return err
	}

	if opts.list {
		for _, key := range demo.Keys() {
			u, _ := demo.Lookup(key)
			fmt.Fprintf(out, "%-16s %-32s %-16s %s\n", key, u.Email, u.Role.Label(), u.TenantID)
		}
		return nil
	}

	subject, tenantID, role, err := claimsFor(opts)
	if err != nil {
		return err
	}

	signed, err := token.Mint(subject, tenantID, role, opts.secret, opts.ttl)
	if err != nil {
		return err
	}

	if opts.cookie != "" {
		c := &http.Cookie{
			Name:     opts.cookie,
			Value:    signed,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   int(opts.ttl.Seconds()),
		}
		fmt.Fprintf(out, "Set-Cookie: %s\n", c.String())
		return nil
	}

	fmt.Fprintln(out, strings.TrimSpace(signed))
	return nil
}
