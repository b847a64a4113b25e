package cache

import (
	"context"
	"sync"
	"time"

	"github.com/plantque/plantque/internal/models"
)

var _ Store = &Memory{}

type memoryEntry struct {
	value    models.Result
	storedAt time.Time
}

// Memory is the default in-process store. Expired entries are evicted
// lazily on lookup and by a periodic sweep, so memory stays bounded by
// the working set of the last TTL.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
	stop    chan struct{}
}

// NewMemory builds an in-memory store. Zero ttl falls back to DefaultTTL.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	m := &Memory{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
		stop:    make(chan struct{}),
	}

	go m.janitor()

	return m
}

func (m *Memory) Get(ctx context.Context, key string) (*models.Result, bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}

	if m.now().Sub(entry.storedAt) > m.ttl {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, false, nil
	}

	// Callers get a copy; the stored value never mutates.
	value := entry.value
	return &value, true, nil
}

func (m *Memory) Put(ctx context.Context, key string, value *models.Result) error {
	m.mu.Lock()
	m.entries[key] = memoryEntry{value: *value, storedAt: m.now()}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error {
	close(m.stop)
	return nil
}

func (m *Memory) janitor() {
	ticker := time.NewTicker(m.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.sweep()
		case <-m.stop:
			return
		}
	}
}

func (m *Memory) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for key, entry := range m.entries {
		if now.Sub(entry.storedAt) > m.ttl {
			delete(m.entries, key)
		}
	}
}
