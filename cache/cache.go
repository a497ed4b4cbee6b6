package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/datar-psa/chatmod/api"
)

const (
	DefaultCapacity = 1000
	DefaultInterval = 5 * time.Minute
)

type entry struct {
	verdict    api.Verdict
	insertedAt time.Time
}

// Cache is a bounded store of verdicts keyed by normalized text.
// When it grows past its capacity the oldest half, by insertion order, is
// dropped in one batch. Entries never expire by age.
type Cache struct {
	mu       sync.Mutex
	entries  map[string]entry
	order    []string // keys, oldest first
	capacity int
	interval time.Duration
	now      func() time.Time
	log      *slog.Logger
}

// Option configures a Cache
type Option func(*Cache)

// WithCapacity sets the maximum number of entries
func WithCapacity(capacity int) Option {
	return func(c *Cache) {
		if capacity > 0 {
			c.capacity = capacity
		}
	}
}

// WithInterval sets how often Run performs its maintenance pass
func WithInterval(interval time.Duration) Option {
	return func(c *Cache) {
		if interval > 0 {
			c.interval = interval
		}
	}
}

// WithClock replaces time.Now for insertion timestamps
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates an empty Cache
func New(log *slog.Logger, opts ...Option) *Cache {
	if log == nil {
		log = slog.Default()
	}
	c := &Cache{
		entries:  make(map[string]entry),
		capacity: DefaultCapacity,
		interval: DefaultInterval,
		now:      time.Now,
		log:      log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns a copy of the verdict stored under key
func (c *Cache) Get(key string) (api.Verdict, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return api.Verdict{}, false
	}
	return e.verdict.Clone(), true
}

// Put stores a copy of verdict under key. Replacing an existing key keeps
// its original insertion position.
func (c *Cache) Put(key string, verdict api.Verdict) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.verdict = verdict.Clone()
		c.entries[key] = e
		return
	}
	c.entries[key] = entry{verdict: verdict.Clone(), insertedAt: c.now()}
	c.order = append(c.order, key)
	if len(c.order) > c.capacity {
		c.trimLocked()
	}
}

// Len returns the number of cached entries
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}

// Oldest returns the insertion time of the oldest entry
func (c *Cache) Oldest() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.order) == 0 {
		return time.Time{}, false
	}
	return c.entries[c.order[0]].insertedAt, true
}

// Trim drops the oldest half of the entries when the cache is over capacity
// and returns the number of entries removed.
func (c *Cache) Trim() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.order) <= c.capacity {
		return 0
	}
	return c.trimLocked()
}

func (c *Cache) trimLocked() int {
	drop := len(c.order) / 2
	for _, key := range c.order[:drop] {
		delete(c.entries, key)
	}
	kept := make([]string, len(c.order)-drop)
	copy(kept, c.order[drop:])
	c.order = kept
	return drop
}

// Run performs the periodic maintenance pass until ctx is done
func (c *Cache) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.log.Debug("Stopping cache maintenance")
			return ctx.Err()
		case <-ticker.C:
			if removed := c.Trim(); removed > 0 {
				c.log.Info("Cache trimmed", "removed", removed, "remaining", c.Len())
			}
		}
	}
}
