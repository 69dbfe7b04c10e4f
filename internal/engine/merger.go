package engine

import (
	"fmt"

	"github.com/beartech/tokenscope/internal/provider"
)

// SourceNoData marks an analysis where every provider failed; the result
// still carries the error list but no merged facts.
const SourceNoData = "NoData"

// Merged is the combined view of all provider results.
type Merged struct {
	Fields  map[string]any
	Sources []string
	Errors  []string
}

// Merge folds provider results into one field map. Ownership rules beat
// arrival order: security-owned fields always come from the security
// provider and explorer-owned fields from the explorer. Everything else is
// first-writer-wins, where "first" is the fixed task order, so an earlier
// provider's value is never overwritten by a later one.
func Merge(results []provider.Result) Merged {
	m := Merged{Fields: map[string]any{}}

	for _, res := range results {
		if res.Failed() {
			m.Errors = append(m.Errors, fmt.Sprintf("%s: %s", res.Source, res.Err))
			continue
		}
		m.Sources = append(m.Sources, res.Source)
		for key, value := range res.Fields {
			if owned(key, res.Source) {
				m.Fields[key] = value
				continue
			}
			if ownedByOther(key, res.Source) {
				// Fill-in only: the owning provider may still land or may
				// have failed; never shadow it.
				if _, exists := m.Fields[key]; !exists {
					m.Fields[key] = value
				}
				continue
			}
			if _, exists := m.Fields[key]; !exists {
				m.Fields[key] = value
			}
		}
	}

	if len(m.Sources) == 0 {
		m.Sources = []string{SourceNoData}
	}
	return m
}

func owned(key, source string) bool {
	switch source {
	case provider.SourceSecurity:
		_, ok := provider.SecurityOwnedFields[key]
		return ok
	case provider.SourceExplorer:
		_, ok := provider.ExplorerOwnedFields[key]
		return ok
	}
	return false
}

func ownedByOther(key, source string) bool {
	if _, ok := provider.SecurityOwnedFields[key]; ok {
		return source != provider.SourceSecurity
	}
	if _, ok := provider.ExplorerOwnedFields[key]; ok {
		return source != provider.SourceExplorer
	}
	return false
}
