package equity

import (
	"sync"

	"github.com/lox/headsup/internal/deck"
)

// Key identifies a set of known cards. Hole and board are kept apart so the
// same seven cards split differently never share an entry.
type Key struct {
	Hole  deck.CardSet
	Board deck.CardSet
}

// NewKey builds the cache key for hole cards and board.
func NewKey(hole, board []deck.Card) Key {
	return Key{Hole: deck.NewCardSet(hole...), Board: deck.NewCardSet(board...)}
}

type cacheEntry struct {
	equity float64
	trials int
}

// Cache memoizes equity estimates for the lifetime of a session. Only
// estimates from at least floor trials are stored. Lookups never wait for
// a computation in flight; two callers may compute the same key twice.
type Cache struct {
	mu      sync.RWMutex
	floor   int
	entries map[Key]cacheEntry
}

// NewCache creates an empty cache that ignores estimates below floor trials.
func NewCache(floor int) *Cache {
	return &Cache{
		floor:   floor,
		entries: make(map[Key]cacheEntry),
	}
}

// Get returns the stored equity and the trial count behind it.
func (c *Cache) Get(k Key) (float64, int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[k]
	return e.equity, e.trials, ok
}

// Put stores an estimate, replacing any previous one, and reports whether it
// met the quality floor.
func (c *Cache) Put(k Key, equity float64, trials int) bool {
	if trials < c.floor {
		return false
	}
	c.mu.Lock()
	c.entries[k] = cacheEntry{equity: equity, trials: trials}
	c.mu.Unlock()
	return true
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	clear(c.entries)
	c.mu.Unlock()
}

// Len returns the number of stored estimates.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
