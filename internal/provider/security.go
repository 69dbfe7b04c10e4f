package provider

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/beartech/tokenscope/internal/chain"
	"github.com/beartech/tokenscope/internal/derive"
	"github.com/beartech/tokenscope/internal/netx"
)

// SecurityConfig configures the token-security API adapter.
type SecurityConfig struct {
	BaseURL string
	APIKey  string
}

// SecurityProvider queries the security-scoring API. It is the
// authoritative source for honeypot/tax/mint/pause flags and ships the raw
// holder and LP-holder arrays the derive stage consumes.
type SecurityProvider struct {
	cfg    SecurityConfig
	client *netx.Client
}

func NewSecurityProvider(cfg SecurityConfig, client *netx.Client) *SecurityProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.gopluslabs.io/api/v1"
	}
	return &SecurityProvider{cfg: cfg, client: client}
}

func (p *SecurityProvider) Name() string { return SourceSecurity }

type securityEnvelope struct {
	Code    int                      `json:"code"`
	Message string                   `json:"message"`
	Result  map[string]securityToken `json:"result"`
}

type securityToken struct {
	TokenName        string          `json:"token_name"`
	TokenSymbol      string          `json:"token_symbol"`
	BuyTax           string          `json:"buy_tax"`
	SellTax          string          `json:"sell_tax"`
	IsHoneypot       string          `json:"is_honeypot"`
	IsOpenSource     string          `json:"is_open_source"`
	IsProxy          string          `json:"is_proxy"`
	IsMintable       string          `json:"is_mintable"`
	TransferPausable string          `json:"transfer_pausable"`
	RiskLevel        string          `json:"risk_level"`
	HolderCount      string          `json:"holder_count"`
	TotalSupply      string          `json:"total_supply"`
	CreatorAddress   string          `json:"creator_address"`
	Holders          []derive.Holder `json:"holders"`
	LPHolders        []derive.Holder `json:"lp_holders"`
}

func (p *SecurityProvider) Fetch(ctx context.Context, address string, ch chain.Chain) Result {
	if p.cfg.APIKey == "" {
		return Errf(SourceSecurity, "API key not configured")
	}

	endpoint := fmt.Sprintf("%s/token_security/%d?contract_addresses=%s",
		p.cfg.BaseURL, ch.ID, url.QueryEscape(address))
	headers := map[string]string{"X-API-KEY": p.cfg.APIKey}

	var env securityEnvelope
	if err := p.client.GetJSON(ctx, SourceSecurity, endpoint, headers, &env); err != nil {
		return Errf(SourceSecurity, "request failed: %v", err)
	}
	if env.Code != 1 {
		msg := env.Message
		if msg == "" {
			msg = "unknown error"
		}
		return Errf(SourceSecurity, "API error: %s", msg)
	}

	token, ok := env.Result[strings.ToLower(address)]
	if !ok {
		return Errf(SourceSecurity, "token not found in response")
	}
	return OK(SourceSecurity, p.normalize(token))
}

func (p *SecurityProvider) normalize(token securityToken) map[string]any {
	fields := map[string]any{
		FieldIsHoneypot:   parseFlag(token.IsHoneypot),
		FieldIsOpenSource: parseFlag(token.IsOpenSource),
		FieldIsProxy:      parseFlag(token.IsProxy),
		FieldIsMintable:   parseFlag(token.IsMintable),
		FieldIsPausable:   parseFlag(token.TransferPausable),
	}
	if token.TokenName != "" {
		fields[FieldName] = token.TokenName
	}
	if token.TokenSymbol != "" {
		fields[FieldSymbol] = token.TokenSymbol
	}
	// Taxes arrive as fraction strings ("0.05" = 5%); keep them numeric.
	if v, err := strconv.ParseFloat(token.BuyTax, 64); err == nil {
		fields[FieldBuyTax] = v
	}
	if v, err := strconv.ParseFloat(token.SellTax, 64); err == nil {
		fields[FieldSellTax] = v
	}
	if token.RiskLevel != "" {
		fields[FieldRiskLevel] = token.RiskLevel
	}
	if token.HolderCount != "" {
		fields[FieldHolderCount] = token.HolderCount
	}
	if token.TotalSupply != "" {
		fields[FieldTotalSupply] = token.TotalSupply
	}
	if token.CreatorAddress != "" {
		fields[FieldContractCreator] = token.CreatorAddress
	}
	if len(token.Holders) > 0 {
		fields[FieldHolders] = token.Holders
	}
	if len(token.LPHolders) > 0 {
		fields[FieldLPHolders] = token.LPHolders
	}
	return fields
}

// parseFlag tolerates the API's mixed flag encodings: "1"/"0",
// "true"/"false", and bare numbers.
func parseFlag(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
