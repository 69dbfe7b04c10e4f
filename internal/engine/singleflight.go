package engine

import (
	"sync"

	"github.com/beartech/tokenscope/internal/result"
)

// flightGroup deduplicates concurrent analyses of the same key. The first
// caller does the work; everyone arriving while it is in flight waits for
// and shares the same result.
type flightGroup struct {
	mu      sync.Mutex
	flights map[string]*flight
}

type flight struct {
	done chan struct{}
	res  *result.TokenAnalysisResult
	err  error
}

func newFlightGroup() *flightGroup {
	return &flightGroup{flights: make(map[string]*flight)}
}

func (g *flightGroup) do(key string, fn func() (*result.TokenAnalysisResult, error)) (*result.TokenAnalysisResult, error) {
	g.mu.Lock()
	if f, ok := g.flights[key]; ok {
		g.mu.Unlock()
		<-f.done
		return f.res, f.err
	}
	f := &flight{done: make(chan struct{})}
	g.flights[key] = f
	g.mu.Unlock()

	f.res, f.err = fn()

	g.mu.Lock()
	delete(g.flights, key)
	g.mu.Unlock()
	close(f.done)

	return f.res, f.err
}
