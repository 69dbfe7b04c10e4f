// Package provider normalizes four heterogeneous data sources into one
// flat field map per source. Adapters never retry and never panic; the
// orchestrator owns timeouts and retry budgets.
package provider

import (
	"context"
	"fmt"

	"github.com/beartech/tokenscope/internal/chain"
)

// Source names used in provenance tags, merge priorities, and error lists.
const (
	SourceSecurity = "GoPlus"
	SourceMarket   = "DexScreener"
	SourceExplorer = "Explorer"
	SourceRPC      = "RPC"
)

// Result is the normalized output of one adapter call: either a field map
// or an error description, never both. An errored Result contributes only
// to diagnostics; its fields are never merged.
type Result struct {
	Source string
	Fields map[string]any
	Err    string
}

// OK builds a successful result.
func OK(source string, fields map[string]any) Result {
	return Result{Source: source, Fields: fields}
}

// Errf builds a failed result.
func Errf(source, format string, args ...any) Result {
	return Result{Source: source, Err: fmt.Sprintf(format, args...)}
}

// Failed reports whether the call produced no usable data.
func (r Result) Failed() bool { return r.Err != "" }

// Provider is one external data source. Fetch must distinguish an absent
// field (key omitted) from a zero/false field (key present) from a failed
// call (error result, no data fields).
type Provider interface {
	Name() string
	Fetch(ctx context.Context, address string, ch chain.Chain) Result
}
