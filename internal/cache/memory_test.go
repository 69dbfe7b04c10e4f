package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSet(t *testing.T) {
	m := NewMemory(10, time.Minute)
	defer m.Stop()
	ctx := context.Background()

	_, ok := m.Get(ctx, "missing")
	assert.False(t, ok)

	m.Set(ctx, "k", []byte("v"), time.Minute)
	got, ok := m.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)

	stats := m.Snapshot()
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory(10, time.Minute)
	defer m.Stop()
	ctx := context.Background()

	m.Set(ctx, "k", []byte("v"), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	_, ok := m.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Snapshot().Entries, "expired entry removed on read")
}

func TestMemoryLRUEviction(t *testing.T) {
	m := NewMemory(3, time.Minute)
	defer m.Stop()
	ctx := context.Background()

	m.Set(ctx, "a", []byte("1"), time.Minute)
	m.Set(ctx, "b", []byte("2"), time.Minute)
	m.Set(ctx, "c", []byte("3"), time.Minute)

	// Touch "a" so "b" becomes the eviction candidate.
	_, ok := m.Get(ctx, "a")
	require.True(t, ok)

	m.Set(ctx, "d", []byte("4"), time.Minute)

	_, ok = m.Get(ctx, "b")
	assert.False(t, ok, "least recently used entry evicted")
	_, ok = m.Get(ctx, "a")
	assert.True(t, ok)
	_, ok = m.Get(ctx, "d")
	assert.True(t, ok)

	assert.Equal(t, int64(1), m.Snapshot().Evictions)
}

func TestMemoryUpdateDoesNotEvict(t *testing.T) {
	m := NewMemory(2, time.Minute)
	defer m.Stop()
	ctx := context.Background()

	m.Set(ctx, "a", []byte("1"), time.Minute)
	m.Set(ctx, "b", []byte("2"), time.Minute)
	m.Set(ctx, "a", []byte("updated"), time.Minute)

	got, ok := m.Get(ctx, "a")
	require.True(t, ok)
	assert.Equal(t, []byte("updated"), got)
	_, ok = m.Get(ctx, "b")
	assert.True(t, ok)
	assert.Equal(t, 2, m.Snapshot().Entries)
}

func TestMemoryZeroTTLIgnored(t *testing.T) {
	m := NewMemory(10, time.Minute)
	defer m.Stop()
	ctx := context.Background()

	m.Set(ctx, "k", []byte("v"), 0)
	_, ok := m.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryConcurrentAccess(t *testing.T) {
	m := NewMemory(100, time.Minute)
	defer m.Stop()
	ctx := context.Background()

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(n int) {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 200; j++ {
				key := fmt.Sprintf("k%d", j%50)
				m.Set(ctx, key, []byte{byte(n)}, time.Minute)
				m.Get(ctx, key)
			}
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}
	assert.LessOrEqual(t, m.Snapshot().Entries, 100)
}
