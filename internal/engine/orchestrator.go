package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/beartech/tokenscope/internal/chain"
	"github.com/beartech/tokenscope/internal/provider"
	"github.com/beartech/tokenscope/internal/telemetry"
)

// Task binds one provider to its per-call timeout.
type Task struct {
	Provider provider.Provider
	Timeout  time.Duration
}

// Orchestrator fans analysis calls out to all providers concurrently and
// collects whatever completes before the global deadline. A provider that
// misses the deadline contributes an error result, never a hang.
type Orchestrator struct {
	tasks    []Task
	retries  int
	backoff  time.Duration
	deadline time.Duration
}

func NewOrchestrator(tasks []Task, retries int, backoff, deadline time.Duration) *Orchestrator {
	return &Orchestrator{tasks: tasks, retries: retries, backoff: backoff, deadline: deadline}
}

// Run executes every task and returns one result per task, in task order.
func (o *Orchestrator) Run(ctx context.Context, address string, ch chain.Chain) []provider.Result {
	ctx, cancel := context.WithTimeout(ctx, o.deadline)
	defer cancel()

	type indexed struct {
		i   int
		res provider.Result
	}
	ch2 := make(chan indexed, len(o.tasks))

	for i, task := range o.tasks {
		go func(i int, task Task) {
			ch2 <- indexed{i: i, res: o.runTask(ctx, task, address, ch)}
		}(i, task)
	}

	results := make([]provider.Result, len(o.tasks))
	done := make([]bool, len(o.tasks))
	remaining := len(o.tasks)
	for remaining > 0 {
		select {
		case item := <-ch2:
			results[item.i] = item.res
			done[item.i] = true
			remaining--
		case <-ctx.Done():
			// Deadline hit: everything still running becomes an error
			// result so the merge sees an explicit failure.
			for i, task := range o.tasks {
				if !done[i] {
					results[i] = provider.Errf(task.Provider.Name(),
						"aborted: global deadline exceeded")
				}
			}
			return results
		}
	}
	return results
}

// runTask calls one provider with its own timeout and up to o.retries
// retries with a fixed backoff. Retries stop early when the parent
// context dies.
func (o *Orchestrator) runTask(ctx context.Context, task Task, address string, ch chain.Chain) provider.Result {
	name := task.Provider.Name()
	var res provider.Result

	for attempt := 0; attempt <= o.retries; attempt++ {
		if attempt > 0 {
			telemetry.ProviderRetry(name)
			select {
			case <-ctx.Done():
				return provider.Errf(name, "aborted: %v", ctx.Err())
			case <-time.After(o.backoff):
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, task.Timeout)
		start := time.Now()
		res = task.Provider.Fetch(callCtx, address, ch)
		elapsed := time.Since(start)
		cancel()

		outcome := "ok"
		if res.Failed() {
			outcome = "error"
		}
		telemetry.ProviderRequest(name, outcome, elapsed.Seconds())

		if !res.Failed() {
			return res
		}
		log.Debug().
			Str("provider", name).
			Int("attempt", attempt+1).
			Str("error", res.Err).
			Msg("provider call failed")
	}
	return res
}
