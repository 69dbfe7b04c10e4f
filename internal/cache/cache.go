// Package cache provides the analysis result cache. The engine treats it
// as best-effort: a miss or a backend error only costs a re-analysis.
package cache

import (
	"context"
	"time"
)

// Cache stores serialized analysis results keyed by chain:address.
type Cache interface {
	// Get returns the cached payload and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool)
	// Set stores the payload under key for ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	// Stop releases background resources. Safe to call more than once.
	Stop()
}

// Stats is a point-in-time snapshot exposed by the health endpoint.
type Stats struct {
	Entries   int   `json:"entries"`
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
}
