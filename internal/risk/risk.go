// Package risk turns the merged token facts into a discrete verdict.
// Classification is rule-based and deterministic: the same facts always
// produce the same level, score, and factor list.
package risk

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/beartech/tokenscope/internal/result"
)

// maxTax is the buy/sell tax fraction above which a token is flagged.
// Taxes arrive as fractions, so 0.10 means 10%.
var maxTax = decimal.RequireFromString("0.10")

// minHolders below which a token is considered too concentrated to trust.
const minHolders = 10

const scorePerFactor = 20

// Assess classifies the analysis in r and returns the verdict. A honeypot
// finding short-circuits everything else: no factor accumulation, one
// warning, a do-not-buy recommendation.
func Assess(r *result.TokenAnalysisResult) result.RiskAssessment {
	if r.Security.IsHoneypot {
		return result.RiskAssessment{
			Level:           result.RiskHoneypot,
			Score:           100,
			Warnings:        []string{"CRITICAL: token is a honeypot, buying is possible but selling is blocked"},
			Recommendations: []string{"Do not buy this token"},
			SafeToBuy:       false,
			SafeToSell:      false,
		}
	}

	var factors []string
	var warnings []string
	// Every factor carries a matching severity-prefixed warning.
	addFactor := func(text string) {
		factors = append(factors, text)
		warnings = append(warnings, "WARNING: "+text)
	}

	// Only reported liquidity counts; absent market data is unknown,
	// not zero.
	if r.MarketData.LiquidityUSD != nil && r.MarketData.LiquidityUSD.LessThanOrEqual(decimal.Zero) {
		addFactor("Zero or negative liquidity")
	}

	if r.Security.BuyTax != nil && r.Security.BuyTax.GreaterThan(maxTax) {
		addFactor(fmt.Sprintf("High buy tax: %s%%",
			r.Security.BuyTax.Mul(decimal.NewFromInt(100)).StringFixed(1)))
	}
	if r.Security.SellTax != nil && r.Security.SellTax.GreaterThan(maxTax) {
		addFactor(fmt.Sprintf("High sell tax: %s%%",
			r.Security.SellTax.Mul(decimal.NewFromInt(100)).StringFixed(1)))
	}

	// Holder count only counts against the token when it was actually
	// reported; an unknown count is not a low count.
	if r.Holders.HolderCount != nil && *r.Holders.HolderCount < minHolders {
		addFactor(fmt.Sprintf("Very few holders: %d", *r.Holders.HolderCount))
	}

	if !r.Security.IsVerified {
		addFactor("Contract source code not verified")
	}

	level := levelFor(len(factors))
	return result.RiskAssessment{
		Level:           level,
		Score:           scoreFor(len(factors)),
		Factors:         factors,
		Warnings:        warnings,
		Recommendations: recommendationsFor(level),
		SafeToBuy:       level == result.RiskSafe || level == result.RiskLow,
		SafeToSell:      true,
	}
}

func levelFor(factorCount int) result.RiskLevel {
	switch {
	case factorCount >= 3:
		return result.RiskHigh
	case factorCount == 2:
		return result.RiskMedium
	case factorCount == 1:
		return result.RiskLow
	default:
		return result.RiskSafe
	}
}

// scoreFor derives the numeric score from the factor count: 20 points per
// factor, capped below the honeypot ceiling of 100.
func scoreFor(factorCount int) int {
	score := factorCount * scorePerFactor
	if score > 95 {
		score = 95
	}
	return score
}

func recommendationsFor(level result.RiskLevel) []string {
	switch level {
	case result.RiskHigh:
		return []string{"Avoid this token unless the risk factors are resolved"}
	case result.RiskMedium:
		return []string{"Trade with caution and small position sizes"}
	case result.RiskLow:
		return []string{"Review the flagged factor before trading"}
	default:
		return nil
	}
}
