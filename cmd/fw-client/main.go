// Command fw-client is a terminal host for the client-side session pieces: it
// runs the navigation guard for a start path, hydrates the session store from
// the API and prints the resulting display info.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/futurewise/web-gateway/config"
	"github.com/futurewise/web-gateway/internal/localstore"
	"github.com/futurewise/web-gateway/internal/navigation"
	"github.com/futurewise/web-gateway/internal/observability"
	"github.com/futurewise/web-gateway/internal/session"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "fw-client: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	path        string
	storagePath string
	accessToken string
	cacheToken  bool
	logout      bool
}

func parseFlags(args []string) (*options, error) {
	defaultStorage := "fw-client.yaml"
	if dir, err := os.UserConfigDir(); err == nil {
		defaultStorage = filepath.Join(dir, "futurewise", "storage.yaml")
	}

	opts := &options{}
	fs := flag.NewFlagSet("fw-client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.path, "path", "/", "path the client starts on")
	fs.StringVar(&opts.storagePath, "storage", defaultStorage, "local storage file")
	fs.StringVar(&opts.accessToken, "access-token", "", "session cookie value sent to the API")
	fs.BoolVar(&opts.cacheToken, "cache-token", false, "also cache -access-token in local storage")
	fs.BoolVar(&opts.logout, "logout", false, "clear the cached token and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

// printNavigator reports navigation instead of performing it
type printNavigator struct {
	out io.Writer
}

func (n printNavigator) Goto(path string) error {
	_, err := fmt.Fprintf(n.out, "navigate: %s\n", path)
	return err
}

func run(ctx context.Context, args []string, out io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := config.New(ctx)
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger(cfg.Observability.LogLevel, cfg.Observability.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	storage, err := localstore.OpenFileStorage(opts.storagePath)
	if err != nil {
		return err
	}

	if opts.logout {
		return storage.RemoveItem(cfg.Auth.TokenStorageKey)
	}

	if opts.accessToken != "" && opts.cacheToken {
		if err := storage.SetItem(cfg.Auth.TokenStorageKey, opts.accessToken); err != nil {
			return err
		}
	}

	guard := navigation.NewGuard(storage, printNavigator{out: out},
		navigation.WithProtected(cfg.Auth.ProtectedPrefixes...),
		navigation.WithTokenKey(cfg.Auth.TokenStorageKey),
		navigation.WithLoginPath(cfg.Auth.LoginPath),
		navigation.WithLogger(logger),
	)
	if guard.Start(opts.path) {
		return nil
	}

	client, err := session.NewAPIClient(cfg.Auth.APIBase, cfg.Auth.HydrateTimeout)
	if err != nil {
		return err
	}
	if opts.accessToken != "" {
		if err := client.SetCookie(cfg.Auth.CookieName, opts.accessToken); err != nil {
			return err
		}
	}

	store := session.NewStore(client, storage, cfg.Auth.TokenStorageKey, nil, logger)
	unsubscribe := store.Subscribe(func(state session.AuthState) {
		logger.Debug("auth state changed", zap.Bool("authenticated", state.IsAuthenticated))
	})
	defer unsubscribe()

	store.Initialize(ctx)

	state := store.State()
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Authenticated bool                 `json:"authenticated"`
		User          *session.DisplayInfo `json:"user"`
	}{
		Authenticated: state.IsAuthenticated,
		User:          session.GetUserDisplayInfo(state.User),
	})
}
