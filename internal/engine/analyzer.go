// Package engine runs the full token analysis: chain resolution, provider
// fan-out, field merging, derived metrics, and the risk verdict.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/beartech/tokenscope/internal/cache"
	"github.com/beartech/tokenscope/internal/chain"
	"github.com/beartech/tokenscope/internal/config"
	"github.com/beartech/tokenscope/internal/derive"
	"github.com/beartech/tokenscope/internal/netx"
	"github.com/beartech/tokenscope/internal/provider"
	"github.com/beartech/tokenscope/internal/result"
	"github.com/beartech/tokenscope/internal/risk"
	"github.com/beartech/tokenscope/internal/telemetry"
)

// Engine is the analysis pipeline. It is safe for concurrent use;
// identical in-flight analyses are deduplicated and share one result.
type Engine struct {
	registry *chain.Registry
	orch     *Orchestrator
	rpc      *provider.RPCProvider
	store    cache.Cache
	cacheTTL time.Duration
	flights  *flightGroup
}

// New wires the production engine from configuration.
func New(cfg config.Config, client *netx.Client, store cache.Cache) *Engine {
	rpc := provider.NewRPCProvider(client)
	tasks := []Task{
		{Provider: provider.NewSecurityProvider(provider.SecurityConfig{
			BaseURL: cfg.SecurityBaseURL,
			APIKey:  cfg.GoPlusAPIKey,
		}, client), Timeout: cfg.Timeouts.Security},
		{Provider: provider.NewMarketProvider(provider.MarketConfig{
			BaseURL: cfg.MarketBaseURL,
		}, client), Timeout: cfg.Timeouts.Market},
		{Provider: provider.NewExplorerProvider(client), Timeout: cfg.Timeouts.Explorer},
		{Provider: rpc, Timeout: cfg.Timeouts.RPC},
	}
	return &Engine{
		registry: cfg.Registry(),
		orch:     NewOrchestrator(tasks, cfg.Retries, cfg.RetryBackoff, cfg.GlobalDeadline),
		rpc:      rpc,
		store:    store,
		cacheTTL: cfg.Cache.TTL,
		flights:  newFlightGroup(),
	}
}

func (e *Engine) orchestratorFor(chain.Chain) *Orchestrator { return e.orch }

// Analyze runs the pipeline for one token. chainKey selects the network;
// an empty key triggers chain auto-detection. The address is validated
// before any provider is contacted. Provider failures do not fail the
// analysis; they are recorded on the result.
func (e *Engine) Analyze(ctx context.Context, rawAddress, chainKey string) (*result.TokenAnalysisResult, error) {
	address, err := chain.NormalizeAddress(rawAddress)
	if err != nil {
		telemetry.Analysis("invalid")
		return nil, err
	}
	if chainKey != "" {
		if _, err := e.registry.ByKey(chainKey); err != nil {
			telemetry.Analysis("invalid")
			return nil, err
		}
	}

	flightKey := chainKey
	if flightKey == "" {
		flightKey = "auto"
	}
	flightKey += ":" + address

	return e.flights.do(flightKey, func() (*result.TokenAnalysisResult, error) {
		if e.store != nil {
			if payload, ok := e.store.Get(ctx, flightKey); ok {
				var cached result.TokenAnalysisResult
				decodeErr := json.Unmarshal(payload, &cached)
				if decodeErr == nil {
					telemetry.Analysis("cached")
					return &cached, nil
				}
				log.Warn().Str("key", flightKey).Err(decodeErr).Msg("dropping undecodable cache entry")
			}
		}

		res := e.analyze(ctx, address, chainKey)

		if e.store != nil && !res.HasErrors() {
			if payload, err := json.Marshal(res); err == nil {
				e.store.Set(ctx, flightKey, payload, e.cacheTTL)
			}
		}
		telemetry.Analysis("ok")
		return res, nil
	})
}

// analyze is the panic boundary: whatever goes wrong inside the pipeline,
// the caller gets a high-risk result instead of a crash.
func (e *Engine) analyze(ctx context.Context, address, chainKey string) (res *result.TokenAnalysisResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("address", address).Msg("analysis panicked")
			telemetry.Analysis("panic")
			res = &result.TokenAnalysisResult{
				RequestID:  uuid.NewString(),
				BasicInfo:  result.BasicInfo{Address: address},
				AnalyzedAt: time.Now().UTC(),
				Errors:     []string{fmt.Sprintf("internal analysis failure: %v", r)},
				Risk: result.RiskAssessment{
					Level:    result.RiskHigh,
					Score:    95,
					Warnings: []string{"WARNING: analysis did not complete; treat this token as unreviewed"},
				},
			}
		}
	}()

	var ch chain.Chain
	var results []provider.Result
	if chainKey != "" {
		ch, _ = e.registry.ByKey(chainKey)
		results = e.orch.Run(ctx, address, ch)
	} else {
		ch, results = e.resolveChain(ctx, address)
	}

	merged := Merge(results)
	res = e.buildResult(address, ch, merged)
	e.enrichCreatorBalance(ctx, ch, res)
	res.Risk = risk.Assess(res)

	log.Info().
		Str("request_id", res.RequestID).
		Str("address", address).
		Str("chain", ch.Key).
		Str("risk", string(res.Risk.Level)).
		Strs("sources", res.DataSources).
		Int("provider_errors", len(res.Errors)).
		Msg("analysis complete")
	return res
}

func (e *Engine) buildResult(address string, ch chain.Chain, merged Merged) *result.TokenAnalysisResult {
	f := merged.Fields
	res := &result.TokenAnalysisResult{
		RequestID:   uuid.NewString(),
		AnalyzedAt:  time.Now().UTC(),
		DataSources: merged.Sources,
		Errors:      merged.Errors,
	}

	res.BasicInfo = result.BasicInfo{
		Address:       address,
		Chain:         ch.Key,
		Name:          getString(f, provider.FieldName),
		Symbol:        getString(f, provider.FieldSymbol),
		Decimals:      getInt(f, provider.FieldDecimals),
		TotalSupply:   getDecimal(f, provider.FieldTotalSupply),
		TokenAgeDays:  getInt(f, provider.FieldTokenAgeDays),
		PairCreatedAt: getString(f, provider.FieldPairCreatedAt),
	}

	res.MarketData = result.MarketData{
		PriceUSD:       getDecimal(f, provider.FieldPriceUSD),
		PriceChange24h: getDecimal(f, provider.FieldPriceChange24h),
		MarketCap:      getDecimal(f, provider.FieldMarketCap),
		FDV:            getDecimal(f, provider.FieldFDV),
		Volume24h:      getDecimal(f, provider.FieldVolume24h),
		LiquidityUSD:   getDecimal(f, provider.FieldLiquidityUSD),
	}
	// TotalSupply is in human token units regardless of source (the RPC
	// adapter scales its raw read), so no shift here.
	if res.MarketData.MarketCap == nil && res.MarketData.PriceUSD != nil && res.BasicInfo.TotalSupply != nil {
		mcap := res.MarketData.PriceUSD.Mul(*res.BasicInfo.TotalSupply)
		res.MarketData.MarketCap = &mcap
	}

	res.Security = result.SecurityData{
		IsVerified:   getBool(f, provider.FieldIsVerified),
		IsHoneypot:   getBool(f, provider.FieldIsHoneypot),
		BuyTax:       getDecimal(f, provider.FieldBuyTax),
		SellTax:      getDecimal(f, provider.FieldSellTax),
		CanMint:      getBool(f, provider.FieldIsMintable),
		CanPause:     getBool(f, provider.FieldIsPausable),
		IsProxy:      getBool(f, provider.FieldIsProxy),
		IsOpenSource: getBool(f, provider.FieldIsOpenSource),
	}

	res.Contract = result.ContractData{
		VerificationStatus: getString(f, provider.FieldVerificationStatus),
		CreationDate:       getString(f, provider.FieldCreationDate),
		CreationTx:         getString(f, provider.FieldCreationTx),
		HasSourceCode:      getBool(f, provider.FieldHasSourceCode),
		HasABI:             getBool(f, provider.FieldHasABI),
	}

	creator := getString(f, provider.FieldContractCreator)
	res.Deployer = result.DeployerData{
		DeployerAddress:  creator,
		ContractCreator:  creator,
		Balance:          getDecimal(f, provider.FieldDeployerBalance),
		TxCount:          getInt(f, provider.FieldDeployerTxCount),
		ContractsCreated: getInt(f, provider.FieldDeployerContracts),
		AgeDays:          getInt(f, provider.FieldDeployerAgeDays),
	}

	supply := decimal.Zero
	if res.BasicInfo.TotalSupply != nil {
		supply = *res.BasicInfo.TotalSupply
	}

	res.Holders = result.HolderData{HolderCount: getInt(f, provider.FieldHolderCount)}
	if holders, ok := f[provider.FieldHolders].([]derive.Holder); ok {
		stats := derive.Concentration(holders, supply, address)
		res.Holders.TopHoldersRatio = stats.TopHoldersRatio
		res.Holders.ContractHoldingPct = &stats.ContractHoldingPct

		burn := derive.Burn(holders, supply)
		res.BasicInfo.BurnedAmount = burn.BurnedAmount
		res.BasicInfo.BurnPercentage = burn.BurnPercentage
	}

	res.Liquidity = result.LiquidityData{LiquidityUSD: res.MarketData.LiquidityUSD}
	if lp, ok := f[provider.FieldLPHolders].([]derive.Holder); ok {
		if lock := derive.LiquidityLock(lp, ch.Key); lock.Locked {
			res.Liquidity.Locked = true
			res.Liquidity.LockPlatform = lock.Platform
			res.Liquidity.UnlockTime = lock.UnlockTime
			res.Liquidity.LockConfidence = lock.Confidence
			res.Liquidity.LockPercentage = lockedLPPercentage(lp, ch.Key)
		}
	}
	// A confirmed lock record always beats the market heuristic.
	if !res.Liquidity.Locked && getBool(f, provider.FieldLiquidityLocked) {
		res.Liquidity.Locked = true
		res.Liquidity.LockPlatform = getString(f, provider.FieldLockPlatform)
		res.Liquidity.LockConfidence = getString(f, provider.FieldLockConfidence)
	}

	return res
}

// lockedLPPercentage sums the LP share held by locked holders. Provider
// percentages are fractions of the pool (0.56 means 56%).
func lockedLPPercentage(lp []derive.Holder, chainKey string) *float64 {
	total := decimal.Zero
	found := false
	for _, h := range lp {
		locked := h.IsLocked == 1
		if !locked {
			_, locked = derive.KnownLockContract(h.Address, chainKey)
		}
		if !locked {
			continue
		}
		pct, err := decimal.NewFromString(h.Percent)
		if err != nil {
			continue
		}
		total = total.Add(pct)
		found = true
	}
	if !found {
		return nil
	}
	v, _ := total.Mul(decimal.NewFromInt(100)).Round(2).Float64()
	return &v
}

// enrichCreatorBalance reads the deployer's remaining token position over
// RPC. Best effort: any failure just leaves the fields empty.
func (e *Engine) enrichCreatorBalance(ctx context.Context, ch chain.Chain, res *result.TokenAnalysisResult) {
	if e.rpc == nil || res.Deployer.ContractCreator == "" {
		return
	}
	if res.BasicInfo.Decimals == nil || res.BasicInfo.TotalSupply == nil || res.BasicInfo.TotalSupply.IsZero() {
		return
	}

	decimals := *res.BasicInfo.Decimals
	balance, err := e.rpc.TokenBalance(ctx, ch, res.BasicInfo.Address, res.Deployer.ContractCreator, decimals)
	if err != nil {
		log.Debug().Err(err).Str("creator", res.Deployer.ContractCreator).Msg("creator balance read failed")
		return
	}
	res.Deployer.TokenBalance = &balance

	if supply := *res.BasicInfo.TotalSupply; supply.IsPositive() {
		pct, _ := balance.Div(supply).Mul(decimal.NewFromInt(100)).Round(2).Float64()
		res.Deployer.TokenPercentage = &pct
	}
}

// Field values cross the merge as whatever type the adapter chose;
// the coercers below tolerate the common encodings.

func getString(f map[string]any, key string) string {
	if v, ok := f[key].(string); ok {
		return v
	}
	return ""
}

func getBool(f map[string]any, key string) bool {
	if v, ok := f[key].(bool); ok {
		return v
	}
	return false
}

func getInt(f map[string]any, key string) *int {
	switch v := f[key].(type) {
	case int:
		return &v
	case int64:
		n := int(v)
		return &n
	case float64:
		n := int(v)
		return &n
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return &n
		}
	}
	return nil
}

func getDecimal(f map[string]any, key string) *decimal.Decimal {
	switch v := f[key].(type) {
	case decimal.Decimal:
		return &v
	case float64:
		d := decimal.NewFromFloat(v)
		return &d
	case int:
		d := decimal.NewFromInt(int64(v))
		return &d
	case string:
		if d, err := decimal.NewFromString(v); err == nil {
			return &d
		}
	}
	return nil
}
