package cache

import (
	"container/list"
	"context"
	"sync"
)

// Memory is an in-process cache with an optional LRU bound.
type Memory struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*list.Element
	order    *list.List
}

type entry struct {
	key string
	url string
}

// NewMemory creates an in-process cache holding at most capacity entries.
// A capacity of 0 or less means unbounded.
func NewMemory(capacity int) *Memory {
	if capacity < 0 {
		capacity = 0
	}
	return &Memory{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Get returns the cached URL for key and marks it recently used.
func (m *Memory) Get(_ context.Context, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.items[key]
	if !ok {
		return "", false
	}
	m.order.MoveToFront(elem)
	return elem.Value.(*entry).url, true
}

// Set stores url under key. The last writer wins.
func (m *Memory) Set(_ context.Context, key, url string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if elem, ok := m.items[key]; ok {
		elem.Value.(*entry).url = url
		m.order.MoveToFront(elem)
		return
	}

	m.items[key] = m.order.PushFront(&entry{key: key, url: url})

	if m.capacity > 0 && m.order.Len() > m.capacity {
		oldest := m.order.Back()
		m.order.Remove(oldest)
		delete(m.items, oldest.Value.(*entry).key)
	}
}

// Len returns the number of cached entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}
