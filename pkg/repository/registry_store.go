package repository

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/insights/pkg/domain/interfaces"
	"github.com/secmon-lab/insights/pkg/domain/model"
	"github.com/secmon-lab/insights/pkg/domain/types"
)

const (
	// DefaultSessionTTL is how long an untouched session keeps its registry
	DefaultSessionTTL = 24 * time.Hour
	// DefaultMaxSessions bounds the number of registries held at once
	DefaultMaxSessions = 10000
)

type registryEntry struct {
	registry model.ChartRegistry
	touched  time.Time
}

// RegistryStore keeps custom chart registries in memory, one per dashboard session.
// Registries are values so callers never share state with the store. Sessions
// idle longer than the TTL are dropped, and when the store is full the least
// recently used session makes room for a new one.
type RegistryStore struct {
	mu          sync.Mutex
	entries     map[types.SessionID]*registryEntry
	ttl         time.Duration
	maxSessions int
	now         func() time.Time
}

// RegistryStoreOption configures a RegistryStore
type RegistryStoreOption func(*RegistryStore)

// WithSessionTTL sets the idle lifetime of a session. Zero keeps sessions until evicted by size.
func WithSessionTTL(ttl time.Duration) RegistryStoreOption {
	return func(s *RegistryStore) {
		s.ttl = ttl
	}
}

// WithMaxSessions bounds the number of sessions. Zero means unbounded.
func WithMaxSessions(n int) RegistryStoreOption {
	return func(s *RegistryStore) {
		s.maxSessions = n
	}
}

// WithStoreClock replaces the time source used for expiry
func WithStoreClock(now func() time.Time) RegistryStoreOption {
	return func(s *RegistryStore) {
		s.now = now
	}
}

// NewRegistryStore creates a new in-memory registry store
func NewRegistryStore(opts ...RegistryStoreOption) *RegistryStore {
	s := &RegistryStore{
		entries:     make(map[types.SessionID]*registryEntry),
		ttl:         DefaultSessionTTL,
		maxSessions: DefaultMaxSessions,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ interfaces.RegistryStore = (*RegistryStore)(nil)

func (s *RegistryStore) expired(e *registryEntry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(e.touched) > s.ttl
}

// GetRegistry returns the registry of the session, or an empty one
func (s *RegistryStore) GetRegistry(ctx context.Context, id types.SessionID) (model.ChartRegistry, error) {
	if id == "" {
		return model.ChartRegistry{}, goerr.New("session ID is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e, ok := s.entries[id]
	if !ok {
		return model.NewChartRegistry(), nil
	}
	if s.expired(e, now) {
		delete(s.entries, id)
		return model.NewChartRegistry(), nil
	}
	e.touched = now
	return e.registry, nil
}

// UpdateRegistry applies fn to the registry of the session and stores the result
func (s *RegistryStore) UpdateRegistry(ctx context.Context, id types.SessionID, fn func(model.ChartRegistry) model.ChartRegistry) (model.ChartRegistry, error) {
	if id == "" {
		return model.ChartRegistry{}, goerr.New("session ID is empty")
	}
	if fn == nil {
		return model.ChartRegistry{}, goerr.New("update function is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e, ok := s.entries[id]
	if ok && s.expired(e, now) {
		delete(s.entries, id)
		ok = false
	}
	if !ok {
		s.makeRoom(now)
		e = &registryEntry{registry: model.NewChartRegistry()}
		s.entries[id] = e
	}

	e.registry = fn(e.registry)
	e.touched = now
	return e.registry, nil
}

// makeRoom drops expired sessions, then the least recently used ones until a
// new session fits. Callers hold the lock.
func (s *RegistryStore) makeRoom(now time.Time) {
	for id, e := range s.entries {
		if s.expired(e, now) {
			delete(s.entries, id)
		}
	}
	if s.maxSessions <= 0 {
		return
	}
	for len(s.entries) >= s.maxSessions {
		var (
			oldest   types.SessionID
			oldestAt time.Time
		)
		for id, e := range s.entries {
			if oldest == "" || e.touched.Before(oldestAt) {
				oldest, oldestAt = id, e.touched
			}
		}
		delete(s.entries, oldest)
	}
}

// DeleteRegistry drops the registry of the session
func (s *RegistryStore) DeleteRegistry(ctx context.Context, id types.SessionID) error {
	if id == "" {
		return goerr.New("session ID is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, id)
	return nil
}

// Sessions returns the number of sessions holding a registry
func (s *RegistryStore) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
