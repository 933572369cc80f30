package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/futurewise/web-gateway/internal/localstore"
	"github.com/futurewise/web-gateway/internal/observability"
	"github.com/futurewise/web-gateway/internal/shared"
	"github.com/futurewise/web-gateway/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newAPI(t *testing.T, handler http.HandlerFunc) *APIClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewAPIClient(server.URL, time.Second)
	require.NoError(t, err)
	return client
}

func meHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != CurrentUserPath {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

const aliceJSON = `{"id":"u1","email":"alice@example.com","role":"tenant_admin","tenant_id":"alpha","created_at":"2024-01-01T00:00:00Z"}`

func TestStore_InitializeSuccess(t *testing.T) {
	storage := localstore.NewMemoryStorage()
	require.NoError(t, storage.SetItem(localstore.TokenKey, "cached"))
	metrics := observability.NewMetrics()

	store := NewStore(newAPI(t, meHandler(http.StatusOK, aliceJSON)), storage, "", metrics, zap.NewNop())
	store.Initialize(context.Background())

	state := store.State()
	require.NotNil(t, state.User)
	assert.True(t, state.IsAuthenticated)
	assert.Equal(t, "u1", state.User.ID)
	assert.Equal(t, models.RoleTenantAdmin, state.User.Role)
	assert.Equal(t, "2024-01-01T00:00:00Z", state.User.CreatedAt)
	require.NotNil(t, state.Token)
	assert.Equal(t, "cached", *state.Token)

	v, ok := storage.GetItem(localstore.TokenKey)
	assert.True(t, ok)
	assert.Equal(t, "cached", v)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SessionHydrationsTotal.WithLabelValues(HydrationAuthenticated)))
}

func TestStore_InitializeWithoutCachedToken(t *testing.T) {
	store := NewStore(newAPI(t, meHandler(http.StatusOK, aliceJSON)), localstore.NewMemoryStorage(), "", nil, nil)
	store.Initialize(context.Background())

	state := store.State()
	assert.True(t, state.IsAuthenticated)
	assert.Nil(t, state.Token)
}

func TestStore_InitializeSendsSessionCookie(t *testing.T) {
	var gotCookie string
	client := newAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("access_token"); err == nil {
			gotCookie = c.Value
		}
		meHandler(http.StatusOK, aliceJSON)(w, r)
	})
	require.NoError(t, client.SetCookie("access_token", "opaque"))

	store := NewStore(client, localstore.NewMemoryStorage(), "", nil, zap.NewNop())
	store.Initialize(context.Background())

	assert.Equal(t, "opaque", gotCookie)
	assert.True(t, store.State().IsAuthenticated)
}

func TestStore_InitializeFailures(t *testing.T) {
	tests := []struct {
		name       string
		fetcher    func(t *testing.T) UserFetcher
		wantResult string
	}{
		{
			name:       "server error",
			fetcher:    func(t *testing.T) UserFetcher { return newAPI(t, meHandler(http.StatusInternalServerError, `{"detail":"boom"}`)) },
			wantResult: HydrationRejected,
		},
		{
			name:       "unauthorized",
			fetcher:    func(t *testing.T) UserFetcher { return newAPI(t, meHandler(http.StatusUnauthorized, "")) },
			wantResult: HydrationRejected,
		},
		{
			name:       "invalid json",
			fetcher:    func(t *testing.T) UserFetcher { return newAPI(t, meHandler(http.StatusOK, "{not json")) },
			wantResult: HydrationFailed,
		},
		{
			name: "network error",
			fetcher: func(t *testing.T) UserFetcher {
				server := httptest.NewServer(http.NotFoundHandler())
				client, err := NewAPIClient(server.URL, time.Second)
				require.NoError(t, err)
				server.Close()
				return client
			},
			wantResult: HydrationFailed,
		},
		{
			name:       "fetcher panics",
			fetcher:    func(*testing.T) UserFetcher { return panicFetcher{} },
			wantResult: HydrationFailed,
		},
		{
			name:       "fetcher returns nothing",
			fetcher:    func(*testing.T) UserFetcher { return fetcherFunc(func(context.Context) (*models.User, error) { return nil, nil }) },
			wantResult: HydrationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := localstore.NewMemoryStorage()
			require.NoError(t, storage.SetItem(localstore.TokenKey, "stale"))
			metrics := observability.NewMetrics()

			store := NewStore(tt.fetcher(t), storage, "", metrics, zap.NewNop())
			store.SetUser(models.User{ID: "previous", Email: "p@example.com"}, "stale")

			assert.NotPanics(t, func() { store.Initialize(context.Background()) })

			assert.Equal(t, AuthState{}, store.State())
			_, ok := storage.GetItem(localstore.TokenKey)
			assert.False(t, ok, "cached token must be cleared")
			assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SessionHydrationsTotal.WithLabelValues(tt.wantResult)))
		})
	}
}

func TestStore_InitializeLogsFailure(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	store := NewStore(panicFetcher{}, localstore.NewMemoryStorage(), "", nil, zap.New(core))

	store.Initialize(context.Background())

	entries := logs.FilterMessage("auth initialization failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
}

func TestStore_CustomTokenKey(t *testing.T) {
	storage := localstore.NewMemoryStorage()
	require.NoError(t, storage.SetItem("custom_key", "tok"))

	store := NewStore(newAPI(t, meHandler(http.StatusOK, aliceJSON)), storage, "custom_key", nil, nil)
	store.Initialize(context.Background())

	require.NotNil(t, store.State().Token)
	assert.Equal(t, "tok", *store.State().Token)
}

func TestStore_Mutators(t *testing.T) {
	store := NewStore(nil, localstore.NewMemoryStorage(), "", nil, nil)

	store.SetUser(models.User{ID: "u1", Email: "a@example.com", Role: models.RoleTenantUser}, "tok")
	state := store.State()
	assert.True(t, state.IsAuthenticated)
	assert.Equal(t, "u1", state.User.ID)
	assert.Equal(t, "tok", *state.Token)

	store.ClearAuth()
	assert.Equal(t, AuthState{}, store.State())
}

func TestStore_UpdateUser(t *testing.T) {
	t.Run("merges into current user", func(t *testing.T) {
		store := NewStore(nil, localstore.NewMemoryStorage(), "", nil, nil)
		store.SetUser(models.User{ID: "u1", Email: "a@example.com", Role: models.RoleTenantUser, TenantID: "alpha"}, "tok")

		name := "Anna"
		role := models.RoleTenantAdmin
		store.UpdateUser(models.UserPatch{DisplayName: &name, Role: &role})

		state := store.State()
		assert.Equal(t, models.User{
			ID:          "u1",
			Email:       "a@example.com",
			DisplayName: "Anna",
			Role:        models.RoleTenantAdmin,
			TenantID:    "alpha",
		}, *state.User)
		assert.Equal(t, "tok", *state.Token)
		assert.True(t, state.IsAuthenticated)
	})

	t.Run("no-op without a user", func(t *testing.T) {
		store := NewStore(nil, localstore.NewMemoryStorage(), "", nil, nil)
		calls := 0
		store.Subscribe(func(AuthState) { calls++ })

		name := "Anna"
		store.UpdateUser(models.UserPatch{DisplayName: &name})

		assert.Equal(t, AuthState{}, store.State())
		assert.Equal(t, 1, calls, "only the initial call")
	})
}

func TestStore_Subscribe(t *testing.T) {
	store := NewStore(nil, localstore.NewMemoryStorage(), "", nil, nil)

	var seen []AuthState
	unsubscribe := store.Subscribe(func(s AuthState) { seen = append(seen, s) })

	require.Len(t, seen, 1)
	assert.False(t, seen[0].IsAuthenticated)

	store.SetUser(models.User{ID: "u1", Email: "a@example.com"}, "tok")
	store.ClearAuth()
	require.Len(t, seen, 3)
	assert.True(t, seen[1].IsAuthenticated)
	assert.False(t, seen[2].IsAuthenticated)

	unsubscribe()
	unsubscribe()
	store.SetUser(models.User{ID: "u2"}, "tok")
	assert.Len(t, seen, 3)
}

func TestStore_SnapshotsAreCopies(t *testing.T) {
	store := NewStore(nil, localstore.NewMemoryStorage(), "", nil, nil)
	store.SetUser(models.User{ID: "u1", Email: "a@example.com"}, "tok")

	state := store.State()
	state.User.Email = "changed@example.com"
	*state.Token = "changed"

	assert.Equal(t, "a@example.com", store.State().User.Email)
	assert.Equal(t, "tok", *store.State().Token)
}

func TestStore_SubscriberMayReadStore(t *testing.T) {
	store := NewStore(nil, localstore.NewMemoryStorage(), "", nil, nil)

	var inner AuthState
	store.Subscribe(func(AuthState) { inner = store.State() })
	store.SetUser(models.User{ID: "u1"}, "tok")

	assert.True(t, inner.IsAuthenticated)
}

func TestStore_ConcurrentWrites(t *testing.T) {
	store := NewStore(nil, localstore.NewMemoryStorage(), "", nil, nil)
	store.Subscribe(func(AuthState) {})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				store.SetUser(models.User{ID: "u1"}, "tok")
			} else {
				store.ClearAuth()
			}
			_ = store.State()
		}(i)
	}
	wg.Wait()
}

func TestStore_UpdateUserRacesClearAuth(t *testing.T) {
	store := NewStore(nil, localstore.NewMemoryStorage(), "", nil, nil)
	name := "Anna"

	for i := 0; i < 500; i++ {
		store.SetUser(models.User{ID: "u1", Email: "a@example.com"}, "tok")

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.UpdateUser(models.UserPatch{DisplayName: &name})
		}()
		go func() {
			defer wg.Done()
			store.ClearAuth()
		}()
		wg.Wait()

		// update-then-clear and clear-then-noop both end logged out
		require.Equal(t, AuthState{}, store.State(), "iteration %d", i)
	}
}

func TestStore_NotificationsFollowWriteOrder(t *testing.T) {
	store := NewStore(nil, localstore.NewMemoryStorage(), "", nil, nil)

	var (
		mu   sync.Mutex
		last AuthState
	)
	store.Subscribe(func(s AuthState) {
		mu.Lock()
		last = s
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				store.SetUser(models.User{ID: "u1"}, "tok")
			} else {
				store.ClearAuth()
			}
		}(i)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, store.State(), last)
}

func TestStore_SubscriberMayWriteStore(t *testing.T) {
	store := NewStore(nil, localstore.NewMemoryStorage(), "", nil, nil)

	var seen []bool
	store.Subscribe(func(s AuthState) {
		seen = append(seen, s.IsAuthenticated)
		if s.IsAuthenticated {
			store.ClearAuth()
		}
	})
	store.SetUser(models.User{ID: "u1"}, "tok")

	assert.Equal(t, []bool{false, true, false}, seen)
	assert.Equal(t, AuthState{}, store.State())
}

func TestStore_LateSubscriberSkipsQueuedUpdates(t *testing.T) {
	store := NewStore(nil, localstore.NewMemoryStorage(), "", nil, nil)

	var late []AuthState
	store.Subscribe(func(s AuthState) {
		if s.IsAuthenticated && late == nil {
			store.ClearAuth()
			store.Subscribe(func(s AuthState) { late = append(late, s) })
		}
	})
	store.SetUser(models.User{ID: "u1"}, "tok")

	// subscribed after ClearAuth was written, so only the immediate call
	require.Len(t, late, 1)
	assert.False(t, late[0].IsAuthenticated)
}

type panicFetcher struct{}

func (panicFetcher) CurrentUser(context.Context) (*models.User, error) {
	panic("unexpected")
}

type fetcherFunc func(context.Context) (*models.User, error)

func (f fetcherFunc) CurrentUser(ctx context.Context) (*models.User, error) {
	return f(ctx)
}

func TestNewAPIClient_InvalidBase(t *testing.T) {
	_, err := NewAPIClient("::not-a-url", time.Second)
	assert.Error(t, err)
}

func TestAPIClient_ErrorTypes(t *testing.T) {
	client := newAPI(t, meHandler(http.StatusForbidden, ""))
	_, err := client.CurrentUser(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
	assert.Equal(t, http.StatusForbidden, shared.GetErrorDetails(err)["status"])
}
