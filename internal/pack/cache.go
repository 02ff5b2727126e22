package pack

import (
	"fmt"
	"sync"
	"time"

	"github.com/hpungsan/quorum/internal/roster"
)

// DefaultTTL bounds how long a cached pack may be served before reload.
const DefaultTTL = 300 * time.Second

// LoadFunc fetches a pack from storage. version 0 means the active version.
type LoadFunc func(slug, locale string, version int) (*Pack, error)

type cacheEntry struct {
	pack     *Pack
	hash     string
	loadedAt time.Time
}

// Cache memoizes loaded packs for a bounded time. It is an explicit,
// injected instance rather than process-global state; concurrent reads are
// safe and a racing recompute always produces the same value for a key.
// Entries age out after the TTL, and Invalidate drops everything at once
// (an override change no longer has to wait out the TTL).
type Cache struct {
	ttl  time.Duration
	load LoadFunc

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

// NewCache creates a pack cache. ttl <= 0 selects DefaultTTL.
func NewCache(ttl time.Duration, load LoadFunc) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		ttl:     ttl,
		load:    load,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the pack for (slug, locale, version) with env overrides
// applied, alongside its content hash. version 0 resolves the active
// version. The cache key includes the override fingerprint, so changing an
// override env var takes effect immediately for new keys.
func (c *Cache) Get(slug, locale string, version int) (*Pack, string, error) {
	fp := OverrideFingerprint(slug, locale, append(roster.Personas(), roster.RoleBase, roster.RoleConsensus))
	key := fmt.Sprintf("%s/%s/v%d/%s", slug, locale, version, fp)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && time.Since(entry.loadedAt) < c.ttl {
		return entry.pack, entry.hash, nil
	}

	loaded, err := c.load(slug, locale, version)
	if err != nil {
		return nil, "", err
	}
	p := ApplyEnvOverrides(loaded)
	hash := Hash(p)

	c.mu.Lock()
	c.entries[key] = cacheEntry{pack: p, hash: hash, loadedAt: time.Now()}
	c.mu.Unlock()

	return p, hash, nil
}

// Invalidate drops all cached packs.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}
