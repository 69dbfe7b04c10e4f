package derive

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Holder is one untrusted holder entry from a provider payload. Balance
// stays a string until the math needs it; provider balances routinely
// exceed float precision.
type Holder struct {
	Address      string       `json:"address"`
	Name         string       `json:"name,omitempty"`
	Tag          string       `json:"tag,omitempty"`
	Balance      string       `json:"balance"`
	Percent      string       `json:"percent,omitempty"`
	IsContract   int          `json:"is_contract,omitempty"`
	IsLocked     int          `json:"is_locked,omitempty"`
	LockedDetail []LockDetail `json:"locked_detail,omitempty"`
}

// LockDetail is one lock record attached to an LP holder.
type LockDetail struct {
	Amount  string `json:"amount,omitempty"`
	EndTime string `json:"end_time,omitempty"`
	OptTime string `json:"opt_time,omitempty"`
	Tag     string `json:"tag,omitempty"`
}

const topHolderCount = 10

// HolderStats is the output of Concentration.
type HolderStats struct {
	// TopHoldersRatio is the top-10 concentration as a percentage of total
	// supply, nil when total supply is unknown or zero.
	TopHoldersRatio *float64
	// ContractHoldingPct is the token contract's own share ("clog").
	// Defaults to 0.0 (never nil) once holder data is present.
	ContractHoldingPct float64
}

// Concentration computes the top-10 holder ratio excluding the token
// contract itself, AMM infrastructure, burn/near-null addresses, and
// pool-tagged holders, plus the contract's own holding percentage.
func Concentration(holders []Holder, totalSupply decimal.Decimal, tokenAddress string) HolderStats {
	stats := HolderStats{ContractHoldingPct: 0.0}
	if len(holders) == 0 {
		return stats
	}

	token := strings.ToLower(tokenAddress)
	contractBalance := decimal.Zero
	var filtered []Holder

	for _, h := range holders {
		addr := strings.ToLower(h.Address)
		if addr == "" {
			continue
		}
		if addr == token {
			if b, err := decimal.NewFromString(h.Balance); err == nil {
				contractBalance = b
			}
			continue
		}
		if isAMMInfrastructure(addr) || isBurnAddress(addr) {
			continue
		}
		// Providers label AMM holders in either field.
		label := strings.ToLower(h.Tag + " " + h.Name)
		if strings.Contains(label, "uniswap") || strings.Contains(label, "pool") {
			continue
		}
		filtered = append(filtered, h)
	}

	if totalSupply.IsZero() {
		// Ratio is undefined without a denominator; clog stays 0.0 per the
		// holder-data-present rule.
		return stats
	}

	top := filtered
	if len(top) > topHolderCount {
		top = top[:topHolderCount]
	}
	sum := decimal.Zero
	for _, h := range top {
		b, err := decimal.NewFromString(h.Balance)
		if err != nil || b.IsNegative() {
			continue
		}
		sum = sum.Add(b)
	}

	if sum.IsPositive() {
		ratio, _ := sum.Div(totalSupply).Mul(decimal.NewFromInt(100)).Round(2).Float64()
		stats.TopHoldersRatio = &ratio
	}
	if contractBalance.IsPositive() {
		pct, _ := contractBalance.Div(totalSupply).Mul(decimal.NewFromInt(100)).Round(2).Float64()
		stats.ContractHoldingPct = pct
	}
	return stats
}

// BurnInfo is the output of Burn.
type BurnInfo struct {
	BurnedAmount   *decimal.Decimal
	BurnPercentage *float64
}

// Burn sums balances held by burn/near-null addresses. Both fields are nil
// when nothing is burned or total supply is unknown.
func Burn(holders []Holder, totalSupply decimal.Decimal) BurnInfo {
	if len(holders) == 0 || totalSupply.IsZero() {
		return BurnInfo{}
	}

	total := decimal.Zero
	for _, h := range holders {
		if !isBurnAddress(h.Address) {
			continue
		}
		b, err := decimal.NewFromString(h.Balance)
		if err != nil || b.IsNegative() {
			continue
		}
		total = total.Add(b)
	}

	if !total.IsPositive() {
		return BurnInfo{}
	}
	pct, _ := total.Div(totalSupply).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	return BurnInfo{BurnedAmount: &total, BurnPercentage: &pct}
}
