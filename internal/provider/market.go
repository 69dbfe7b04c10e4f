package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/beartech/tokenscope/internal/chain"
	"github.com/beartech/tokenscope/internal/netx"
)

// MarketConfig configures the DEX market-data adapter.
type MarketConfig struct {
	BaseURL string
}

// MarketProvider queries the DEX aggregator for price, liquidity, and
// volume. It also raises the heuristic liquidity-lock signals that the
// merge stage keeps clearly separated from confirmed lock records.
type MarketProvider struct {
	cfg    MarketConfig
	client *netx.Client
	now    func() time.Time
}

func NewMarketProvider(cfg MarketConfig, client *netx.Client) *MarketProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.dexscreener.com/latest"
	}
	return &MarketProvider{cfg: cfg, client: client, now: time.Now}
}

func (p *MarketProvider) Name() string { return SourceMarket }

type dexPairsResponse struct {
	Pairs []dexPair `json:"pairs"`
}

type dexPair struct {
	ChainID   string `json:"chainId"`
	DexID     string `json:"dexId"`
	PriceUSD  string `json:"priceUsd"`
	BaseToken struct {
		Address string `json:"address"`
		Name    string `json:"name"`
		Symbol  string `json:"symbol"`
	} `json:"baseToken"`
	PriceChange struct {
		H24 float64 `json:"h24"`
	} `json:"priceChange"`
	Volume struct {
		H24 float64 `json:"h24"`
	} `json:"volume"`
	Liquidity struct {
		USD float64 `json:"usd"`
	} `json:"liquidity"`
	Txns struct {
		H24 struct {
			Buys  int `json:"buys"`
			Sells int `json:"sells"`
		} `json:"h24"`
	} `json:"txns"`
	FDV           float64 `json:"fdv"`
	MarketCap     float64 `json:"marketCap"`
	PairCreatedAt int64   `json:"pairCreatedAt"`
}

func (p *MarketProvider) Fetch(ctx context.Context, address string, ch chain.Chain) Result {
	endpoint := fmt.Sprintf("%s/dex/tokens/%s", p.cfg.BaseURL, address)

	var resp dexPairsResponse
	if err := p.client.GetJSON(ctx, SourceMarket, endpoint, nil, &resp); err != nil {
		return Errf(SourceMarket, "request failed: %v", err)
	}

	pair, ok := bestPair(resp.Pairs, ch.DexScreenerID())
	if !ok {
		return Errf(SourceMarket, "no trading pairs found")
	}
	return OK(SourceMarket, p.normalize(pair))
}

// bestPair picks the most liquid pair on the requested chain.
func bestPair(pairs []dexPair, chainKey string) (dexPair, bool) {
	var best dexPair
	found := false
	for _, pr := range pairs {
		if pr.ChainID != chainKey {
			continue
		}
		if !found || pr.Liquidity.USD > best.Liquidity.USD {
			best = pr
			found = true
		}
	}
	return best, found
}

func (p *MarketProvider) normalize(pair dexPair) map[string]any {
	fields := map[string]any{
		FieldVolume24h:    decimal.NewFromFloat(pair.Volume.H24),
		FieldLiquidityUSD: decimal.NewFromFloat(pair.Liquidity.USD),
		FieldTxns24h:      pair.Txns.H24.Buys + pair.Txns.H24.Sells,
	}
	if pair.BaseToken.Name != "" {
		fields[FieldName] = pair.BaseToken.Name
	}
	if pair.BaseToken.Symbol != "" {
		fields[FieldSymbol] = pair.BaseToken.Symbol
	}
	if price, err := decimal.NewFromString(pair.PriceUSD); err == nil {
		fields[FieldPriceUSD] = price
	}
	fields[FieldPriceChange24h] = decimal.NewFromFloat(pair.PriceChange.H24)
	if pair.MarketCap > 0 {
		fields[FieldMarketCap] = decimal.NewFromFloat(pair.MarketCap)
	}
	if pair.FDV > 0 {
		fields[FieldFDV] = decimal.NewFromFloat(pair.FDV)
	}

	ageDays := -1
	if pair.PairCreatedAt > 0 {
		created := pairCreationTime(pair.PairCreatedAt)
		fields[FieldPairCreatedAt] = created.UTC().Format(time.RFC3339)
		ageDays = int(p.now().Sub(created).Hours() / 24)
		if ageDays < 0 {
			ageDays = 0
		}
		fields[FieldTokenAgeDays] = ageDays
	}

	if lock, platform := heuristicLock(pair, ageDays); lock {
		fields[FieldLiquidityLocked] = true
		fields[FieldLockPlatform] = platform
		fields[FieldLockConfidence] = "heuristic"
	}
	return fields
}

// pairCreationTime accepts millisecond or second epoch stamps; the API has
// shipped both over time.
func pairCreationTime(v int64) time.Time {
	if v > 1e12 {
		return time.UnixMilli(v)
	}
	return time.Unix(v, 0)
}

// heuristicLock flags liquidity that behaves like it is locked, without a
// lock record to confirm it. Young pairs with real liquidity are likely
// launch locks; deep pools with almost no trading look parked.
func heuristicLock(pair dexPair, ageDays int) (bool, string) {
	liq := pair.Liquidity.USD
	if ageDays >= 0 && ageDays < 7 && liq > 10_000 {
		return true, "Likely Locked"
	}
	txns := pair.Txns.H24.Buys + pair.Txns.H24.Sells
	if liq > 100_000 && pair.Volume.H24 < 500 && txns < 3 {
		return true, "Suspected Lock"
	}
	return false, ""
}
