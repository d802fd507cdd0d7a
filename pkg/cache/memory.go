package cache

import (
	"container/list"
	"context"
	"sync"

	"github.com/Oldmanrunning/HELOC/pkg/constants"
)

// Memory is a bounded in-process cache with least-recently-used eviction.
// The bound is fixed at construction so cache sizing is owned by the caller
// rather than growing with process lifetime.
type Memory struct {
	mu         sync.Mutex
	maxEntries int
	order      *list.List
	entries    map[string]*list.Element
}

type memoryEntry struct {
	key   string
	value string
}

// NewMemory creates a Memory cache holding at most maxEntries values. A
// non-positive bound falls back to the default.
func NewMemory(maxEntries int) *Memory {
	if maxEntries <= 0 {
		maxEntries = constants.DefaultCacheEntries
	}
	return &Memory{
		maxEntries: maxEntries,
		order:      list.New(),
		entries:    make(map[string]*list.Element),
	}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.entries[key]
	if !ok {
		return "", false
	}
	m.order.MoveToFront(elem)
	return elem.Value.(*memoryEntry).value, true
}

func (m *Memory) Set(_ context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if elem, ok := m.entries[key]; ok {
		m.order.MoveToFront(elem)
		elem.Value.(*memoryEntry).value = value
		return nil
	}

	m.entries[key] = m.order.PushFront(&memoryEntry{key: key, value: value})
	if m.order.Len() > m.maxEntries {
		oldest := m.order.Back()
		m.order.Remove(oldest)
		delete(m.entries, oldest.Value.(*memoryEntry).key)
	}
	return nil
}

// Len returns the current number of cached entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}
