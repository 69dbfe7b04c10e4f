// Package report renders an analysis result as human-readable text for
// the CLI. JSON output is just the result marshaled; this is the pretty
// path.
package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/beartech/tokenscope/internal/derive"
	"github.com/beartech/tokenscope/internal/result"
)

var hundred = decimal.NewFromInt(100)

// Render formats the full analysis as sectioned text.
func Render(res *result.TokenAnalysisResult) string {
	var b strings.Builder

	title := res.BasicInfo.Name
	if title == "" {
		title = res.BasicInfo.Address
	}
	if res.BasicInfo.Symbol != "" {
		title += " (" + res.BasicInfo.Symbol + ")"
	}
	fmt.Fprintf(&b, "Token Analysis: %s\n", title)
	fmt.Fprintf(&b, "Address: %s\n", res.BasicInfo.Address)
	fmt.Fprintf(&b, "Chain:   %s\n", res.BasicInfo.Chain)
	b.WriteString("\n")

	renderRisk(&b, res)
	renderMarket(&b, res)
	renderSecurity(&b, res)
	renderLiquidity(&b, res)
	renderHolders(&b, res)
	renderDeployer(&b, res)
	renderContract(&b, res)

	fmt.Fprintf(&b, "Sources: %s\n", strings.Join(res.DataSources, ", "))
	if len(res.Errors) > 0 {
		b.WriteString("Partial data, some providers failed:\n")
		for _, e := range res.Errors {
			fmt.Fprintf(&b, "  - %s\n", e)
		}
	}
	fmt.Fprintf(&b, "Analyzed at %s\n", res.AnalyzedAt.Format("2006-01-02 15:04:05 UTC"))
	return b.String()
}

func renderRisk(b *strings.Builder, res *result.TokenAnalysisResult) {
	fmt.Fprintf(b, "== Risk: %s (score %d/100) ==\n", strings.ToUpper(string(res.Risk.Level)), res.Risk.Score)
	for _, f := range res.Risk.Factors {
		fmt.Fprintf(b, "  ! %s\n", f)
	}
	for _, w := range res.Risk.Warnings {
		fmt.Fprintf(b, "  %s\n", w)
	}
	for _, r := range res.Risk.Recommendations {
		fmt.Fprintf(b, "  > %s\n", r)
	}
	fmt.Fprintf(b, "  Safe to buy: %s | Safe to sell: %s\n\n",
		yesNo(res.Risk.SafeToBuy), yesNo(res.Risk.SafeToSell))
}

func renderMarket(b *strings.Builder, res *result.TokenAnalysisResult) {
	m := res.MarketData
	if m.PriceUSD == nil && m.LiquidityUSD == nil && m.Volume24h == nil {
		return
	}
	b.WriteString("== Market ==\n")
	if m.PriceUSD != nil {
		fmt.Fprintf(b, "  Price:      $%s\n", m.PriceUSD.String())
	}
	if m.PriceChange24h != nil {
		fmt.Fprintf(b, "  24h change: %s%%\n", m.PriceChange24h.StringFixed(2))
	}
	if m.MarketCap != nil {
		fmt.Fprintf(b, "  Market cap: $%s\n", m.MarketCap.StringFixed(0))
	}
	if m.Volume24h != nil {
		fmt.Fprintf(b, "  24h volume: $%s\n", m.Volume24h.StringFixed(0))
	}
	if m.LiquidityUSD != nil {
		fmt.Fprintf(b, "  Liquidity:  $%s\n", m.LiquidityUSD.StringFixed(0))
	}
	if res.BasicInfo.TokenAgeDays != nil {
		fmt.Fprintf(b, "  Pair age:   %d days\n", *res.BasicInfo.TokenAgeDays)
	}
	b.WriteString("\n")
}

func renderSecurity(b *strings.Builder, res *result.TokenAnalysisResult) {
	s := res.Security
	b.WriteString("== Security ==\n")
	fmt.Fprintf(b, "  Honeypot:    %s\n", yesNo(s.IsHoneypot))
	if s.BuyTax != nil {
		fmt.Fprintf(b, "  Buy tax:     %s%%\n", s.BuyTax.Mul(hundred).StringFixed(1))
	}
	if s.SellTax != nil {
		fmt.Fprintf(b, "  Sell tax:    %s%%\n", s.SellTax.Mul(hundred).StringFixed(1))
	}
	fmt.Fprintf(b, "  Verified:    %s\n", yesNo(s.IsVerified))
	fmt.Fprintf(b, "  Open source: %s\n", yesNo(s.IsOpenSource))
	fmt.Fprintf(b, "  Mintable:    %s\n", yesNo(s.CanMint))
	fmt.Fprintf(b, "  Pausable:    %s\n", yesNo(s.CanPause))
	fmt.Fprintf(b, "  Proxy:       %s\n\n", yesNo(s.IsProxy))
}

func renderLiquidity(b *strings.Builder, res *result.TokenAnalysisResult) {
	l := res.Liquidity
	b.WriteString("== Liquidity Lock ==\n")
	if !l.Locked {
		b.WriteString("  No lock detected\n\n")
		return
	}
	label := l.LockPlatform
	if l.LockConfidence == derive.LockHeuristic {
		// Heuristic signals must never read like confirmed lock records.
		label += " (heuristic, unconfirmed)"
	}
	fmt.Fprintf(b, "  Locked:   yes - %s\n", label)
	if l.LockPercentage != nil {
		fmt.Fprintf(b, "  Share:    %.2f%% of LP\n", *l.LockPercentage)
	}
	if l.UnlockTime != "" {
		fmt.Fprintf(b, "  Unlocks:  %s\n", l.UnlockTime)
	}
	b.WriteString("\n")
}

func renderHolders(b *strings.Builder, res *result.TokenAnalysisResult) {
	h := res.Holders
	if h.HolderCount == nil && h.TopHoldersRatio == nil {
		return
	}
	b.WriteString("== Holders ==\n")
	if h.HolderCount != nil {
		fmt.Fprintf(b, "  Count:          %d\n", *h.HolderCount)
	}
	if h.TopHoldersRatio != nil {
		fmt.Fprintf(b, "  Top 10 hold:    %.2f%%\n", *h.TopHoldersRatio)
	}
	if h.ContractHoldingPct != nil {
		fmt.Fprintf(b, "  Contract holds: %.2f%%\n", *h.ContractHoldingPct)
	}
	if res.BasicInfo.BurnPercentage != nil {
		fmt.Fprintf(b, "  Burned:         %.2f%%\n", *res.BasicInfo.BurnPercentage)
	}
	b.WriteString("\n")
}

func renderDeployer(b *strings.Builder, res *result.TokenAnalysisResult) {
	d := res.Deployer
	if d.ContractCreator == "" {
		return
	}
	b.WriteString("== Deployer ==\n")
	fmt.Fprintf(b, "  Address:   %s\n", d.ContractCreator)
	if d.Balance != nil {
		fmt.Fprintf(b, "  Balance:   %s\n", d.Balance.StringFixed(4))
	}
	if d.TxCount != nil {
		fmt.Fprintf(b, "  Txns:      %d\n", *d.TxCount)
	}
	if d.ContractsCreated != nil {
		fmt.Fprintf(b, "  Contracts: %d\n", *d.ContractsCreated)
	}
	if d.AgeDays != nil {
		fmt.Fprintf(b, "  Age:       %d days\n", *d.AgeDays)
	}
	if d.TokenBalance != nil {
		fmt.Fprintf(b, "  Holds:     %s tokens", d.TokenBalance.StringFixed(2))
		if d.TokenPercentage != nil {
			fmt.Fprintf(b, " (%.2f%% of supply)", *d.TokenPercentage)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func renderContract(b *strings.Builder, res *result.TokenAnalysisResult) {
	c := res.Contract
	if c.VerificationStatus == "" && c.CreationTx == "" {
		return
	}
	b.WriteString("== Contract ==\n")
	if c.VerificationStatus != "" {
		fmt.Fprintf(b, "  Status:      %s\n", c.VerificationStatus)
	}
	if c.CreationDate != "" {
		fmt.Fprintf(b, "  Created:     %s\n", c.CreationDate)
	}
	if c.CreationTx != "" {
		fmt.Fprintf(b, "  Creation tx: %s\n", c.CreationTx)
	}
	b.WriteString("\n")
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
