package stats

import (
	"sync"
	"time"
)

const defaultTTL = 60 * time.Second

type userEntry struct {
	summary         *Summary
	summaryExpires  time.Time
	detailed        *Detailed
	detailedExpires time.Time
}

// Cache is a read-through cache of per-user aggregates with two independent
// slots per user (summary and detailed) and a fixed TTL. Expiry is passive,
// checked on read. A stale read within the TTL window is accepted; every
// overlay mutation must call Invalidate for the owning user.
type Cache struct {
	store   *Store
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]userEntry
}

// NewCache creates a stats cache over the given store.
// A ttl of 0 uses the default.
func NewCache(store *Store, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{
		store:   store,
		ttl:     ttl,
		entries: make(map[string]userEntry),
	}
}

// Summary returns the cached summary for a user, computing and storing it on
// miss or expiry.
func (c *Cache) Summary(userID string) (*Summary, error) {
	c.mu.RLock()
	entry, ok := c.entries[userID]
	c.mu.RUnlock()
	if ok && entry.summary != nil && time.Now().Before(entry.summaryExpires) {
		return entry.summary, nil
	}

	sum, err := c.store.Summary(userID)
	if err != nil {
		return nil, err
	}

	// Last writer wins on concurrent fills for the same user.
	c.mu.Lock()
	entry = c.entries[userID]
	entry.summary = sum
	entry.summaryExpires = time.Now().Add(c.ttl)
	c.entries[userID] = entry
	c.mu.Unlock()

	return sum, nil
}

// Detailed returns the cached detailed aggregate for a user, computing and
// storing it on miss or expiry.
func (c *Cache) Detailed(userID string) (*Detailed, error) {
	c.mu.RLock()
	entry, ok := c.entries[userID]
	c.mu.RUnlock()
	if ok && entry.detailed != nil && time.Now().Before(entry.detailedExpires) {
		return entry.detailed, nil
	}

	d, err := c.store.Detailed(userID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	entry = c.entries[userID]
	entry.detailed = d
	entry.detailedExpires = time.Now().Add(c.ttl)
	c.entries[userID] = entry
	c.mu.Unlock()

	return d, nil
}

// Invalidate unconditionally drops both cache slots for a user. Other users'
// entries are untouched.
func (c *Cache) Invalidate(userID string) {
	c.mu.Lock()
	delete(c.entries, userID)
	c.mu.Unlock()
}
