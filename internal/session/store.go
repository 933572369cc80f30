package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/futurewise/web-gateway/internal/localstore"
	"github.com/futurewise/web-gateway/internal/observability"
	"github.com/futurewise/web-gateway/internal/shared"
	"github.com/futurewise/web-gateway/models"
	"go.uber.org/zap"
)

// Hydration result labels
const (
	HydrationAuthenticated = "authenticated"
	HydrationRejected      = "rejected"
	HydrationFailed        = "failed"
)

// AuthState is the observable client authentication state
type AuthState struct {
	User            *models.User `json:"user"`
	Token           *string      `json:"token"`
	IsAuthenticated bool         `json:"isAuthenticated"`
}

// clone returns a deep copy so subscribers cannot mutate the store
func (s AuthState) clone() AuthState {
	out := AuthState{IsAuthenticated: s.IsAuthenticated}
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	if s.Token != nil {
		t := *s.Token
		out.Token = &t
	}
	return out
}

type subscriber struct {
	fn    func(AuthState)
	since uint64
}

type update struct {
	seq   uint64
	state AuthState
}

// Store holds the AuthState and notifies subscribers after every write.
// Notifications are delivered one at a time in write order. A write made while
// another goroutine is delivering is queued and delivered by that goroutine,
// so subscribers may read or write the store from inside their callback.
type Store struct {
	fetcher  UserFetcher
	storage  localstore.Storage
	tokenKey string
	metrics  *observability.Metrics
	logger   *zap.Logger

	mu          sync.Mutex
	state       AuthState
	seq         uint64
	subscribers map[uint64]*subscriber
	nextID      uint64
	pending     []update
	draining    bool
}

// NewStore creates an unauthenticated store. An empty tokenKey selects localstore.TokenKey.
func NewStore(fetcher UserFetcher, storage localstore.Storage, tokenKey string, metrics *observability.Metrics, logger *zap.Logger) *Store {
	if tokenKey == "" {
		tokenKey = localstore.TokenKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		fetcher:     fetcher,
		storage:     storage,
		tokenKey:    tokenKey,
		metrics:     metrics,
		logger:      logger,
		subscribers: make(map[uint64]*subscriber),
	}
}

// State returns a copy of the current state
func (s *Store) State() AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers fn, calls it immediately with the current state and
// returns a function that removes the subscription.
func (s *Store) Subscribe(fn func(AuthState)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = &subscriber{fn: fn, since: s.seq}
	snapshot := s.state.clone()
	s.mu.Unlock()

	fn(snapshot)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
		})
	}
}

// Initialize hydrates the store from the API. It never returns an error: every
// failure is logged, the cached token is removed and the store is reset.
func (s *Store) Initialize(ctx context.Context) {
	var cached *string
	if token, ok := s.storage.GetItem(s.tokenKey); ok {
		cached = &token
	}

	user, err := s.fetchUser(ctx)
	if err != nil {
		result := HydrationFailed
		if shared.IsUnauthorizedError(err) {
			result = HydrationRejected
		}
		s.fail(result, err)
		return
	}

	s.metrics.RecordHydration(HydrationAuthenticated)
	s.logger.Debug("session hydrated",
		zap.String("user_id", user.ID),
		zap.String("tenant_id", user.TenantID),
		zap.Bool("cached_token", cached != nil),
	)
	s.set(AuthState{User: user, Token: cached, IsAuthenticated: true})
}

// fetchUser converts a panicking or empty fetch into an error
func (s *Store) fetchUser(ctx context.Context) (user *models.User, err error) {
	defer func() {
		if r := recover(); r != nil {
			user, err = nil, shared.WrapInternal("fetch current user", fmt.Errorf("panic: %v", r))
		}
	}()

	user, err = s.fetcher.CurrentUser(ctx)
	if err == nil && user == nil {
		err = shared.WrapExternal("fetch current user", errors.New("empty response"))
	}
	return user, err
}

func (s *Store) fail(result string, err error) {
	s.metrics.RecordHydration(result)
	if result == HydrationRejected {
		s.logger.Info("session not authenticated", zap.Any("details", shared.GetErrorDetails(err)))
	} else {
		s.logger.Error("auth initialization failed", zap.Error(err))
	}

	if rmErr := s.storage.RemoveItem(s.tokenKey); rmErr != nil {
		s.logger.Warn("failed to clear cached token", zap.Error(rmErr))
	}
	s.set(AuthState{})
}

// SetUser marks the session as authenticated by user
func (s *Store) SetUser(user models.User, token string) {
	s.set(AuthState{User: &user, Token: &token, IsAuthenticated: true})
}

// ClearAuth resets the store to the unauthenticated state
func (s *Store) ClearAuth() {
	s.set(AuthState{})
}

// UpdateUser merges patch into the current user. Without a current user it is a
// no-op and subscribers are not notified.
func (s *Store) UpdateUser(patch models.UserPatch) {
	s.write(func(cur AuthState) (AuthState, bool) {
		if cur.User == nil {
			return cur, false
		}
		merged := patch.Apply(*cur.User)
		next := cur.clone()
		next.User = &merged
		return next, true
	})
}

func (s *Store) set(next AuthState) {
	s.write(func(AuthState) (AuthState, bool) { return next, true })
}

// write applies mutate to the current state under the lock and queues the
// result for delivery. mutate returning false leaves the state untouched.
func (s *Store) write(mutate func(cur AuthState) (AuthState, bool)) {
	s.mu.Lock()
	next, ok := mutate(s.state)
	if !ok {
		s.mu.Unlock()
		return
	}
	s.state = next.clone()
	s.seq++
	s.pending = append(s.pending, update{seq: s.seq, state: s.state.clone()})
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true
	s.mu.Unlock()

	s.drain()
}

// drain delivers queued updates until the queue is empty. Subscribers only
// see updates written after they subscribed.
func (s *Store) drain() {
	done := false
	defer func() {
		if !done {
			s.mu.Lock()
			s.draining = false
			s.mu.Unlock()
		}
	}()

	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.draining = false
			done = true
			s.mu.Unlock()
			return
		}
		next := s.pending[0]
		s.pending = s.pending[1:]
		subs := make([]func(AuthState), 0, len(s.subscribers))
		for _, sub := range s.subscribers {
			if sub.since < next.seq {
				subs = append(subs, sub.fn)
			}
		}
		s.mu.Unlock()

		for _, fn := range subs {
			fn(next.state.clone())
		}
	}
}
