package repository

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/insights/pkg/domain/interfaces"
	"github.com/secmon-lab/insights/pkg/domain/model"
	"golang.org/x/sync/singleflight"
)

// LoadObserver is called after every load attempt with its outcome
type LoadObserver func(ctx context.Context, source string, table *model.Table, err error)

// Cache is the process-wide table cache. A source is parsed once on first use;
// concurrent misses for the same source share one load. Failed loads are not
// cached so the next Get retries.
type Cache struct {
	loader    interfaces.Loader
	observers []LoadObserver

	mu     sync.RWMutex
	tables map[string]*model.Table
	gen    map[string]uint64
	epoch  uint64
	group  singleflight.Group
}

// CacheOption configures the cache
type CacheOption func(*Cache)

// WithLoadObserver registers an observer of load outcomes
func WithLoadObserver(fn LoadObserver) CacheOption {
	return func(c *Cache) {
		c.observers = append(c.observers, fn)
	}
}

// NewCache creates a new cache in front of loader
func NewCache(loader interfaces.Loader, opts ...CacheOption) *Cache {
	c := &Cache{
		loader: loader,
		tables: make(map[string]*model.Table),
		gen:    make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ interfaces.Dataset = (*Cache)(nil)

func cacheKey(source string) string {
	return filepath.Clean(source)
}

func (c *Cache) lookup(key string) (*model.Table, uint64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tables[key]
	return t, c.gen[key] + c.epoch, ok
}

// Get returns the table of source, loading it on a miss
func (c *Cache) Get(ctx context.Context, source string) (*model.Table, error) {
	if source == "" {
		return nil, goerr.New("dataset source is empty", goerr.T(model.ErrTagNotFound))
	}

	key := cacheKey(source)
	if t, _, ok := c.lookup(key); ok {
		return t, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// another caller may have populated the slot while we waited
		t, gen, ok := c.lookup(key)
		if ok {
			return t, nil
		}

		t, err := c.loader.Load(ctx, source)
		for _, observe := range c.observers {
			observe(ctx, source, t, err)
		}
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		// an Invalidate during the load means the result may be stale; hand it
		// to the waiting callers but do not keep it
		if c.gen[key]+c.epoch == gen {
			c.tables[key] = t
		}
		return t, nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load dataset", goerr.V("source", source))
	}

	return v.(*model.Table), nil
}

// Invalidate drops the cached table of source
func (c *Cache) Invalidate(source string) {
	key := cacheKey(source)

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.tables, key)
	c.gen[key]++
	c.group.Forget(key)
}

// InvalidateAll drops every cached table
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.tables {
		c.group.Forget(key)
	}
	c.epoch++
	c.tables = make(map[string]*model.Table)
}
