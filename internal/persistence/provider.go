package persistence

import (
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Provider hands out the storage namespace of a browsing session.
type Provider interface {
	Open(sessionID string) LocalStore
	// Release is called once the session has been dropped from memory.
	Release(sessionID string)
}

type redisProvider struct {
	client redis.UniversalClient
}

func RedisProvider(client redis.UniversalClient) Provider {
	return redisProvider{client: client}
}

func (p redisProvider) Open(sessionID string) LocalStore {
	return NewRedisStore(p.client, sessionID)
}

// Release is a no-op: Redis expires keys on its own.
func (redisProvider) Release(string) {}

type memoryEntry struct {
	store    *MemoryStore
	open     bool
	released time.Time
}

// MemoryProvider keeps session storage in process memory. A released
// session's storage is freed at once when empty, and otherwise kept for
// DefaultTTL so a returning visitor still finds their cart.
type MemoryProvider struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]*memoryEntry
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		ttl:     DefaultTTL,
		now:     time.Now,
		entries: make(map[string]*memoryEntry),
	}
}

func (p *MemoryProvider) Open(sessionID string) LocalStore {
	p.mu.Lock()
	defer p.mu.Unlock()

	e, ok := p.entries[sessionID]
	if !ok {
		e = &memoryEntry{store: NewMemoryStore()}
		p.entries[sessionID] = e
	}
	e.open = true
	return e.store
}

func (p *MemoryProvider) Release(sessionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if e, ok := p.entries[sessionID]; ok {
		if e.store.Len() == 0 {
			delete(p.entries, sessionID)
		} else {
			e.open = false
			e.released = now
		}
	}

	cutoff := now.Add(-p.ttl)
	for id, e := range p.entries {
		if !e.open && e.released.Before(cutoff) {
			delete(p.entries, id)
		}
	}
}

// Len reports how many sessions currently hold storage.
func (p *MemoryProvider) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}
