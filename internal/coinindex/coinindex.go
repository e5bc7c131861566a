package coinindex

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// DefaultTTL is how long a fetched catalog stays fresh. New listings show
// up within the hour without burning provider quota on every command.
const DefaultTTL = time.Hour

// Entry is one row of a provider's coin catalog. ID is unique within a
// provider, Symbol is not (forks and multichain tokens collide).
type Entry struct {
	ID     string
	Symbol string
	Name   string
}

// FetchFunc returns the provider's full catalog.
type FetchFunc func(ctx context.Context) ([]Entry, error)

// Config describes one provider instance of the cache.
type Config struct {
	// Name shows up in logs only.
	Name string
	// Fetch downloads the full catalog.
	Fetch FetchFunc
	// Normalize folds symbols for comparison. Defaults to lowercase;
	// CoinMarketCap uses uppercase symbols.
	Normalize func(string) string
	// Exclude drops entries from lookups by id. Applied at lookup time so
	// a refreshed rule set takes effect without waiting out the TTL.
	Exclude func(id string) bool
	// TTL overrides DefaultTTL, mainly for tests.
	TTL time.Duration
}

// Cache holds a provider's coin catalog in memory. The snapshot is
// replaced wholesale on refresh, never mutated, so readers always see a
// complete catalog or none at all.
type Cache struct {
	cfg Config

	mu          sync.RWMutex
	entries     []Entry
	lastRefresh time.Time
}

func New(cfg Config) *Cache {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Normalize == nil {
		cfg.Normalize = strings.ToLower
	}
	return &Cache{cfg: cfg}
}

// RefreshIfStale fetches the catalog when the snapshot is older than the
// TTL. Concurrent callers within the same stale window perform a single
// upstream fetch; the rest see the fresh timestamp and return.
func (c *Cache) RefreshIfStale(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if time.Since(c.lastRefresh) < c.cfg.TTL {
		return nil
	}
	return c.refreshLocked(ctx)
}

// ForceRefresh fetches the catalog regardless of TTL.
func (c *Cache) ForceRefresh(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshLocked(ctx)
}

func (c *Cache) refreshLocked(ctx context.Context) error {
	entries, err := c.cfg.Fetch(ctx)
	if err != nil {
		// Stale data beats no data: keep the previous snapshot and the
		// old timestamp so the next call tries again.
		log.Errorf("failed to fetch %s coin list, keeping previous: %v", c.cfg.Name, err)
		return errors.Wrapf(err, "fetch %s coin list", c.cfg.Name)
	}

	c.entries = entries
	c.lastRefresh = time.Now()
	log.Infof("reloaded %d coins from %s", len(entries), c.cfg.Name)
	return nil
}

// Lookup returns all catalog entries whose normalized symbol matches,
// minus excluded ids. Always returns a non-nil slice.
func (c *Cache) Lookup(symbol string) []Entry {
	want := c.cfg.Normalize(symbol)

	c.mu.RLock()
	defer c.mu.RUnlock()

	matches := []Entry{}
	if want == "" {
		return matches
	}
	for _, e := range c.entries {
		if c.cfg.Normalize(e.Symbol) != want {
			continue
		}
		if c.cfg.Exclude != nil && c.cfg.Exclude(e.ID) {
			continue
		}
		matches = append(matches, e)
	}
	return matches
}

// ByID returns the catalog entry for an exact id, used to label
// disambiguation buttons.
func (c *Cache) ByID(id string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, e := range c.entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Populated reports whether at least one fetch ever succeeded. The
// resolver uses it to tell "provider unreachable" from "unknown symbol".
func (c *Cache) Populated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.lastRefresh.IsZero()
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
