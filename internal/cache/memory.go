package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/beartech/tokenscope/internal/telemetry"
)

type memoryEntry struct {
	key       string
	value     []byte
	expiresAt time.Time
}

// Memory is an in-process TTL cache with an LRU size bound. Expired
// entries are dropped lazily on read and swept by a background goroutine;
// when the cache is full the least recently used entry is evicted.
type Memory struct {
	mu        sync.Mutex
	entries   map[string]*list.Element
	order     *list.List // front = most recently used
	maxSize   int
	hits      int64
	misses    int64
	evictions int64

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewMemory creates a memory cache holding at most maxSize entries and
// sweeping expired entries every sweepEvery.
func NewMemory(maxSize int, sweepEvery time.Duration) *Memory {
	if maxSize <= 0 {
		maxSize = 1000
	}
	if sweepEvery <= 0 {
		sweepEvery = time.Minute
	}
	m := &Memory{
		entries: make(map[string]*list.Element),
		order:   list.New(),
		maxSize: maxSize,
		stopCh:  make(chan struct{}),
	}
	go m.sweep(sweepEvery)
	return m
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.entries[key]
	if !ok {
		m.misses++
		telemetry.CacheEvent("miss")
		return nil, false
	}
	entry := el.Value.(*memoryEntry)
	if time.Now().After(entry.expiresAt) {
		m.removeLocked(el)
		m.misses++
		telemetry.CacheEvent("miss")
		return nil, false
	}
	m.order.MoveToFront(el)
	m.hits++
	telemetry.CacheEvent("hit")
	return entry.value, true
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.entries[key]; ok {
		entry := el.Value.(*memoryEntry)
		entry.value = value
		entry.expiresAt = time.Now().Add(ttl)
		m.order.MoveToFront(el)
		return
	}

	for len(m.entries) >= m.maxSize {
		oldest := m.order.Back()
		if oldest == nil {
			break
		}
		m.removeLocked(oldest)
		m.evictions++
		telemetry.CacheEvent("eviction")
	}

	el := m.order.PushFront(&memoryEntry{key: key, value: value, expiresAt: time.Now().Add(ttl)})
	m.entries[key] = el
}

func (m *Memory) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// Snapshot returns current counters for the health endpoint.
func (m *Memory) Snapshot() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Stats{
		Entries:   len(m.entries),
		Hits:      m.hits,
		Misses:    m.misses,
		Evictions: m.evictions,
	}
}

func (m *Memory) removeLocked(el *list.Element) {
	entry := el.Value.(*memoryEntry)
	m.order.Remove(el)
	delete(m.entries, entry.key)
}

func (m *Memory) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			now := time.Now()
			m.mu.Lock()
			for el := m.order.Back(); el != nil; {
				prev := el.Prev()
				if entry := el.Value.(*memoryEntry); now.After(entry.expiresAt) {
					m.removeLocked(el)
				}
				el = prev
			}
			m.mu.Unlock()
		}
	}
}
