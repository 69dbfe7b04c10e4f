// Package result defines the analysis output record handed to callers.
// A TokenAnalysisResult is built once per analysis and not mutated after
// it is returned.
package result

import (
	"time"

	"github.com/shopspring/decimal"
)

// RiskLevel is the discrete classification produced by the risk stage.
type RiskLevel string

const (
	RiskSafe     RiskLevel = "safe"
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskHoneypot RiskLevel = "honeypot"
)

// BasicInfo carries identity and supply facts about the token.
type BasicInfo struct {
	Address        string           `json:"address"`
	Name           string           `json:"name,omitempty"`
	Symbol         string           `json:"symbol,omitempty"`
	Decimals       *int             `json:"decimals,omitempty"`
	TotalSupply    *decimal.Decimal `json:"total_supply,omitempty"`
	Chain          string           `json:"chain,omitempty"`
	BurnedAmount   *decimal.Decimal `json:"burned_amount,omitempty"`
	BurnPercentage *float64         `json:"burn_percentage,omitempty"`
	TokenAgeDays   *int             `json:"token_age_days,omitempty"`
	PairCreatedAt  string           `json:"pair_created_at,omitempty"`
}

type MarketData struct {
	PriceUSD       *decimal.Decimal `json:"price_usd,omitempty"`
	PriceChange24h *decimal.Decimal `json:"price_change_24h,omitempty"`
	MarketCap      *decimal.Decimal `json:"market_cap,omitempty"`
	FDV            *decimal.Decimal `json:"fdv,omitempty"`
	Volume24h      *decimal.Decimal `json:"volume_24h,omitempty"`
	LiquidityUSD   *decimal.Decimal `json:"liquidity_usd,omitempty"`
}

// SecurityData flags come from the security provider; taxes are fractions
// (0.05 means 5%).
type SecurityData struct {
	IsVerified   bool             `json:"is_verified"`
	IsHoneypot   bool             `json:"is_honeypot"`
	BuyTax       *decimal.Decimal `json:"buy_tax,omitempty"`
	SellTax      *decimal.Decimal `json:"sell_tax,omitempty"`
	CanMint      bool             `json:"can_mint"`
	CanPause     bool             `json:"can_pause"`
	IsProxy      bool             `json:"is_proxy"`
	IsOpenSource bool             `json:"is_open_source"`
}

type LiquidityData struct {
	LiquidityUSD   *decimal.Decimal `json:"liquidity_usd,omitempty"`
	Locked         bool             `json:"locked"`
	LockPlatform   string           `json:"lock_platform,omitempty"`
	LockPercentage *float64         `json:"lock_percentage,omitempty"`
	UnlockTime     string           `json:"unlock_time,omitempty"`
	// LockConfidence distinguishes confirmed lock records from
	// market-data heuristics ("confirmed" vs "heuristic").
	LockConfidence string `json:"lock_confidence,omitempty"`
}

type HolderData struct {
	HolderCount *int `json:"holder_count,omitempty"`
	// TopHoldersRatio is the top-10 concentration (%) excluding
	// infrastructure and burn addresses.
	TopHoldersRatio *float64 `json:"top_holders_ratio,omitempty"`
	// ContractHoldingPct is the contract's own share of supply ("clog").
	ContractHoldingPct *float64 `json:"contract_holding_percentage,omitempty"`
}

type DeployerData struct {
	DeployerAddress   string           `json:"deployer_address,omitempty"`
	ContractCreator   string           `json:"contract_creator,omitempty"`
	Balance           *decimal.Decimal `json:"deployer_balance,omitempty"`
	TxCount           *int             `json:"deployer_tx_count,omitempty"`
	ContractsCreated  *int             `json:"deployer_contracts_created,omitempty"`
	AgeDays           *int             `json:"deployer_age_days,omitempty"`
	TokenBalance      *decimal.Decimal `json:"creator_token_balance,omitempty"`
	TokenPercentage   *float64         `json:"creator_token_percentage,omitempty"`
}

type ContractData struct {
	VerificationStatus string `json:"contract_verification_status,omitempty"`
	CreationDate       string `json:"contract_creation_date,omitempty"`
	CreationTx         string `json:"contract_creation_tx,omitempty"`
	HasSourceCode      bool   `json:"has_source_code"`
	HasABI             bool   `json:"has_abi"`
}

type RiskAssessment struct {
	Level           RiskLevel `json:"level"`
	Score           int       `json:"score"` // 0 safest .. 100 worst
	Factors         []string  `json:"factors,omitempty"`
	Warnings        []string  `json:"warnings,omitempty"`
	Recommendations []string  `json:"recommendations,omitempty"`
	SafeToBuy       bool      `json:"is_safe_to_buy"`
	SafeToSell      bool      `json:"is_safe_to_sell"`
}

// TokenAnalysisResult is the full aggregate returned by Analyze.
type TokenAnalysisResult struct {
	RequestID   string         `json:"request_id"`
	BasicInfo   BasicInfo      `json:"basic_info"`
	MarketData  MarketData     `json:"market_data"`
	Security    SecurityData   `json:"security_data"`
	Liquidity   LiquidityData  `json:"liquidity_data"`
	Holders     HolderData     `json:"holder_data"`
	Deployer    DeployerData   `json:"deployer_data"`
	Contract    ContractData   `json:"contract_data"`
	Risk        RiskAssessment `json:"risk_assessment"`
	AnalyzedAt  time.Time      `json:"analyzed_at"`
	DataSources []string       `json:"data_sources"`
	Errors      []string       `json:"errors,omitempty"`
}

// HasErrors reports whether any provider failed during the analysis.
func (r *TokenAnalysisResult) HasErrors() bool { return len(r.Errors) > 0 }

// IsHoneypot reports the terminal honeypot verdict.
func (r *TokenAnalysisResult) IsHoneypot() bool {
	return r.Security.IsHoneypot || r.Risk.Level == RiskHoneypot
}
