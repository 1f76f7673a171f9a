package checker

import (
	"sync"

	"github.com/nao1215/linklint/internal/model"
)

// Cache deduplicates validation work across one run. It maps raw URL
// strings, exactly as they appeared, to validation outcomes.
//
// The cache also gates concurrent duplicates: when several workers hit
// the same raw URL at once, only the first runs the validator and the
// rest block until its outcome lands. At most one validation is ever
// in flight per distinct raw URL string.
//
// A cache lives exactly as long as its run. Nothing is persisted.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
}

// cacheEntry is one in-progress or completed validation.
type cacheEntry struct {
	// done is closed once outcome is set.
	done chan struct{}

	outcome model.ValidationOutcome
}

// NewCache creates an empty run-scoped cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*cacheEntry)}
}

// GetOrValidate returns the outcome for rawURL, running validate at
// most once per distinct rawURL across the whole run. The first caller
// for a URL runs validate on its own goroutine; concurrent callers for
// the same URL wait for that result instead of validating again.
//
// validate must not call back into the cache with the same URL.
func (c *Cache) GetOrValidate(rawURL string, validate func() model.ValidationOutcome) model.ValidationOutcome {
	c.mu.Lock()
	if entry, ok := c.entries[rawURL]; ok {
		c.mu.Unlock()
		<-entry.done
		return entry.outcome
	}

	entry := &cacheEntry{done: make(chan struct{})}
	c.entries[rawURL] = entry
	c.mu.Unlock()

	entry.outcome = validate()
	close(entry.done)
	return entry.outcome
}

// Len returns the number of distinct raw URLs validated so far,
// including in-flight entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
