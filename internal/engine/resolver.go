package engine

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/beartech/tokenscope/internal/chain"
	"github.com/beartech/tokenscope/internal/provider"
)

// Provider base scores: a chain where the security API knows the token is
// a much stronger signal than one where only a raw RPC read succeeds.
const (
	scoreSecurity = 10
	scoreMarket   = 8
	scoreExplorer = 6
	scoreRPC      = 4
)

// probe is one candidate chain's fetched results and score.
type probe struct {
	chain   chain.Chain
	results []provider.Result
	score   int
}

// resolveChain finds the chain a token lives on by fetching it on every
// candidate concurrently and scoring the evidence. The winning chain's
// results are returned so the analysis does not fetch twice. A strict
// maximum wins; ties and an all-zero board fall back to the registry's
// priority order (the primary chain first).
func (e *Engine) resolveChain(ctx context.Context, address string) (chain.Chain, []provider.Result) {
	candidates := e.registry.All()
	if len(candidates) == 1 {
		return candidates[0], e.orchestratorFor(candidates[0]).Run(ctx, address, candidates[0])
	}

	probes := make([]probe, len(candidates))
	var wg sync.WaitGroup
	for i, cand := range candidates {
		wg.Add(1)
		go func(i int, cand chain.Chain) {
			defer wg.Done()
			results := e.orchestratorFor(cand).Run(ctx, address, cand)
			probes[i] = probe{chain: cand, results: results, score: ScoreResults(results)}
		}(i, cand)
	}
	wg.Wait()

	best := 0
	for i := 1; i < len(probes); i++ {
		// Strictly greater: earlier candidates win ties.
		if probes[i].score > probes[best].score {
			best = i
		}
	}

	if probes[best].score == 0 {
		log.Debug().Str("address", address).Msg("no chain evidence found, defaulting to primary")
		return probes[0].chain, probes[0].results
	}
	log.Debug().
		Str("address", address).
		Str("chain", probes[best].chain.Key).
		Int("score", probes[best].score).
		Msg("chain resolved")
	return probes[best].chain, probes[best].results
}

// ScoreResults rates how strongly a result set says "this token lives
// here": base points per responding provider, bonuses for deep liquidity,
// verified source, and on-chain activity.
func ScoreResults(results []provider.Result) int {
	score := 0
	for _, res := range results {
		if res.Failed() {
			continue
		}
		switch res.Source {
		case provider.SourceSecurity:
			score += scoreSecurity
		case provider.SourceMarket:
			score += scoreMarket
		case provider.SourceExplorer:
			// Explorers answer for any address, token or not. Count the
			// response only when it carries a verification verdict plus a
			// contract name or real activity.
			if !explorerKnowsToken(res.Fields) {
				continue
			}
			score += scoreExplorer
		case provider.SourceRPC:
			score += scoreRPC
		}

		if liq, ok := res.Fields[provider.FieldLiquidityUSD].(decimal.Decimal); ok {
			switch {
			case liq.GreaterThan(decimal.NewFromInt(100_000)):
				score += 5
			case liq.GreaterThan(decimal.NewFromInt(10_000)):
				score += 2
			}
		}
		if verified, ok := res.Fields[provider.FieldIsVerified].(bool); ok && verified {
			score += 3
		}
		if txs, ok := res.Fields[provider.FieldTransactionCount].(int); ok {
			switch {
			case txs > 1000:
				score += 3
			case txs > 100:
				score += 1
			}
		}
	}
	return score
}

func explorerKnowsToken(fields map[string]any) bool {
	if _, ok := fields[provider.FieldIsVerified]; !ok {
		return false
	}
	if name, ok := fields[provider.FieldName].(string); ok && name != "" {
		return true
	}
	txs, ok := fields[provider.FieldTransactionCount].(int)
	return ok && txs > 0
}
