package risk

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beartech/tokenscope/internal/result"
)

func decp(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func intp(n int) *int { return &n }

// healthyToken has liquidity, low taxes, plenty of holders, verified source.
func healthyToken() *result.TokenAnalysisResult {
	return &result.TokenAnalysisResult{
		MarketData: result.MarketData{LiquidityUSD: decp("250000")},
		Security: result.SecurityData{
			IsVerified: true,
			BuyTax:     decp("0.02"),
			SellTax:    decp("0.02"),
		},
		Holders: result.HolderData{HolderCount: intp(1500)},
	}
}

func TestAssessHoneypotShortCircuits(t *testing.T) {
	r := healthyToken()
	r.Security.IsHoneypot = true

	a := Assess(r)
	assert.Equal(t, result.RiskHoneypot, a.Level)
	assert.Equal(t, 100, a.Score)
	assert.Empty(t, a.Factors)
	require.Len(t, a.Warnings, 1)
	assert.True(t, strings.HasPrefix(a.Warnings[0], "CRITICAL: "))
	assert.False(t, a.SafeToBuy)
	assert.False(t, a.SafeToSell)
}

func TestAssessSafe(t *testing.T) {
	a := Assess(healthyToken())
	assert.Equal(t, result.RiskSafe, a.Level)
	assert.Equal(t, 0, a.Score)
	assert.Empty(t, a.Factors)
	assert.True(t, a.SafeToBuy)
	assert.True(t, a.SafeToSell)
}

func TestAssessLevelMonotonicity(t *testing.T) {
	one := healthyToken()
	one.Security.IsVerified = false

	two := healthyToken()
	two.Security.IsVerified = false
	two.Security.BuyTax = decp("0.25")

	three := healthyToken()
	three.Security.IsVerified = false
	three.Security.BuyTax = decp("0.25")
	three.Security.SellTax = decp("0.30")

	a1, a2, a3 := Assess(one), Assess(two), Assess(three)

	assert.Equal(t, result.RiskLow, a1.Level)
	assert.Equal(t, result.RiskMedium, a2.Level)
	assert.Equal(t, result.RiskHigh, a3.Level)

	assert.Equal(t, 20, a1.Score)
	assert.Equal(t, 40, a2.Score)
	assert.Equal(t, 60, a3.Score)

	// One warning per factor, each carrying its severity.
	for _, a := range []result.RiskAssessment{a1, a2, a3} {
		require.Len(t, a.Warnings, len(a.Factors))
		for _, w := range a.Warnings {
			assert.True(t, strings.HasPrefix(w, "WARNING: "), "warning %q lacks prefix", w)
		}
	}

	assert.True(t, a1.SafeToBuy)
	assert.False(t, a2.SafeToBuy)
	assert.False(t, a3.SafeToBuy)

	// A non-honeypot token is always sellable.
	assert.True(t, a1.SafeToSell)
	assert.True(t, a3.SafeToSell)
}

func TestAssessTaxesAreFractions(t *testing.T) {
	// 5% is fine, 10% is the boundary (not flagged), 10.1% is flagged.
	r := healthyToken()
	r.Security.BuyTax = decp("0.10")
	assert.Empty(t, Assess(r).Factors)

	r.Security.BuyTax = decp("0.101")
	a := Assess(r)
	require.Len(t, a.Factors, 1)
	assert.Contains(t, a.Factors[0], "10.1%")
}

func TestAssessLiquidityUnknownVersusZero(t *testing.T) {
	// Absent market data means liquidity is unknown, not zero: an
	// otherwise healthy token stays clean.
	unknown := healthyToken()
	unknown.MarketData.LiquidityUSD = nil
	a := Assess(unknown)
	assert.Equal(t, result.RiskSafe, a.Level)
	assert.Empty(t, a.Factors)
	assert.Empty(t, a.Warnings)

	// A reported zero is a real finding.
	drained := healthyToken()
	drained.MarketData.LiquidityUSD = decp("0")
	a = Assess(drained)
	assert.Equal(t, result.RiskLow, a.Level)
	require.Len(t, a.Factors, 1)
	assert.Contains(t, a.Factors[0], "liquidity")
	require.Len(t, a.Warnings, 1)
	assert.True(t, strings.HasPrefix(a.Warnings[0], "WARNING: "))
}

func TestAssessUnknownHolderCountNotFlagged(t *testing.T) {
	r := healthyToken()
	r.Holders.HolderCount = nil
	assert.Empty(t, Assess(r).Factors)

	r.Holders.HolderCount = intp(3)
	a := Assess(r)
	require.Len(t, a.Factors, 1)
	assert.Contains(t, a.Factors[0], "holders")
}

func TestAssessScoreCap(t *testing.T) {
	r := &result.TokenAnalysisResult{
		MarketData: result.MarketData{LiquidityUSD: decp("0")},
		Security: result.SecurityData{
			BuyTax:  decp("0.5"),
			SellTax: decp("0.5"),
		},
		Holders: result.HolderData{HolderCount: intp(2)},
	}
	a := Assess(r)
	assert.Equal(t, result.RiskHigh, a.Level)
	assert.Len(t, a.Factors, 5)
	assert.Equal(t, 95, a.Score, "score stays below the honeypot ceiling")
}
