package engine

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beartech/tokenscope/internal/chain"
	"github.com/beartech/tokenscope/internal/provider"
)

type stubProvider struct {
	name  string
	calls int32
	fetch func(ctx context.Context, address string, ch chain.Chain) provider.Result
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Fetch(ctx context.Context, address string, ch chain.Chain) provider.Result {
	atomic.AddInt32(&s.calls, 1)
	return s.fetch(ctx, address, ch)
}

func (s *stubProvider) callCount() int { return int(atomic.LoadInt32(&s.calls)) }

func okStub(name string, fields map[string]any) *stubProvider {
	return &stubProvider{name: name, fetch: func(context.Context, string, chain.Chain) provider.Result {
		return provider.OK(name, fields)
	}}
}

func failStub(name, msg string) *stubProvider {
	return &stubProvider{name: name, fetch: func(context.Context, string, chain.Chain) provider.Result {
		return provider.Errf(name, "%s", msg)
	}}
}

func testChain() chain.Chain {
	return chain.Chain{Key: chain.KeyEthereum, ID: 1}
}

func TestOrchestratorRunsAllTasksInOrder(t *testing.T) {
	a := okStub("A", map[string]any{"k": 1})
	b := failStub("B", "down")
	c := okStub("C", map[string]any{"k": 3})

	o := NewOrchestrator([]Task{
		{Provider: a, Timeout: time.Second},
		{Provider: b, Timeout: time.Second},
		{Provider: c, Timeout: time.Second},
	}, 0, time.Millisecond, time.Second)

	results := o.Run(context.Background(), "0xabc", testChain())
	require.Len(t, results, 3)
	assert.Equal(t, "A", results[0].Source)
	assert.Equal(t, "B", results[1].Source)
	assert.True(t, results[1].Failed())
	assert.Equal(t, "C", results[2].Source)
}

func TestOrchestratorRetriesUntilSuccess(t *testing.T) {
	var attempts int32
	flaky := &stubProvider{name: "Flaky", fetch: func(context.Context, string, chain.Chain) provider.Result {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return provider.Errf("Flaky", "transient")
		}
		return provider.OK("Flaky", map[string]any{"ok": true})
	}}

	o := NewOrchestrator([]Task{{Provider: flaky, Timeout: time.Second}},
		2, time.Millisecond, time.Second)
	results := o.Run(context.Background(), "0xabc", testChain())

	require.Len(t, results, 1)
	assert.False(t, results[0].Failed())
	assert.Equal(t, 3, flaky.callCount())
}

func TestOrchestratorRetryBudgetExhausted(t *testing.T) {
	always := failStub("Bad", "permanent")
	o := NewOrchestrator([]Task{{Provider: always, Timeout: time.Second}},
		2, time.Millisecond, time.Second)
	results := o.Run(context.Background(), "0xabc", testChain())

	require.Len(t, results, 1)
	assert.True(t, results[0].Failed())
	assert.Equal(t, 3, always.callCount(), "initial call plus two retries")
}

func TestOrchestratorGlobalDeadline(t *testing.T) {
	slow := &stubProvider{name: "Slow", fetch: func(ctx context.Context, _ string, _ chain.Chain) provider.Result {
		<-ctx.Done()
		return provider.Errf("Slow", "cancelled")
	}}
	fast := okStub("Fast", map[string]any{"ok": true})

	o := NewOrchestrator([]Task{
		{Provider: slow, Timeout: 10 * time.Second},
		{Provider: fast, Timeout: time.Second},
	}, 0, time.Millisecond, 50*time.Millisecond)

	start := time.Now()
	results := o.Run(context.Background(), "0xabc", testChain())
	assert.Less(t, time.Since(start), 5*time.Second)

	require.Len(t, results, 2)
	assert.True(t, results[0].Failed(), "slow provider reported as error")
	assert.False(t, results[1].Failed(), "completed result kept")
}
