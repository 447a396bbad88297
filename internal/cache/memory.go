package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/UnknownOlympus/gazetteer/internal/models"
)

// Memory is a bounded in-process cache with LRU eviction and an optional
// TTL. It replaces the naive unbounded map: distinct query points grow
// without limit otherwise.
type Memory struct {
	mu         sync.Mutex
	maxEntries int
	ttl        time.Duration
	ll         *list.List
	entries    map[string]*list.Element
}

type memoryEntry struct {
	key       string
	result    *models.GeocodingResult
	expiresAt time.Time
}

// NewMemory creates an in-memory cache holding at most maxEntries results.
// A ttl of zero disables expiry; maxEntries must be positive.
func NewMemory(maxEntries int, ttl time.Duration) *Memory {
	return &Memory{
		maxEntries: maxEntries,
		ttl:        ttl,
		ll:         list.New(),
		entries:    make(map[string]*list.Element),
	}
}

// Get returns the cached result for the key, if present and not expired.
func (m *Memory) Get(_ context.Context, key string) (*models.GeocodingResult, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	element, ok := m.entries[key]
	if !ok {
		return nil, false
	}

	entry, _ := element.Value.(*memoryEntry)
	if m.ttl > 0 && time.Now().After(entry.expiresAt) {
		m.removeElement(element)
		return nil, false
	}

	m.ll.MoveToFront(element)
	return entry.result, true
}

// Set stores the result under the key, evicting the least recently used
// entry when the cache is full. Last write wins for concurrent writers of
// the same key; results are idempotent given the same inputs.
func (m *Memory) Set(_ context.Context, key string, result *models.GeocodingResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	expiresAt := time.Now().Add(m.ttl)

	if element, ok := m.entries[key]; ok {
		entry, _ := element.Value.(*memoryEntry)
		entry.result = result
		entry.expiresAt = expiresAt
		m.ll.MoveToFront(element)
		return
	}

	element := m.ll.PushFront(&memoryEntry{key: key, result: result, expiresAt: expiresAt})
	m.entries[key] = element

	if m.ll.Len() > m.maxEntries {
		if oldest := m.ll.Back(); oldest != nil {
			m.removeElement(oldest)
		}
	}
}

// Len returns the current number of cached entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ll.Len()
}

func (m *Memory) removeElement(element *list.Element) {
	entry, _ := element.Value.(*memoryEntry)
	m.ll.Remove(element)
	delete(m.entries, entry.key)
}
