// Package derive computes holder-concentration, burn, and liquidity-lock
// metrics from raw provider holder arrays.
package derive

import "strings"

// LockPlatform describes one known liquidity-locking platform.
type LockPlatform struct {
	Name    string
	Website string
}

// lockContracts maps chain key -> lowercase lock-contract address ->
// platform metadata. Static reference data; used to recognize lock
// contracts showing up as LP-token holders.
var lockContracts = map[string]map[string]LockPlatform{
	"ethereum": {
		"0x5a6a4d5445683286c73a6ba4de2c60d1cce2f8e5": {Name: "Team Finance", Website: "https://team.finance"},
		"0x663a5c229c09b049e36dcc11a9b0d4a8eb9db214": {Name: "Unicrypt", Website: "https://unicrypt.network"},
		"0x17e00383a843a9922bca3b280c0ade9f8ba48449": {Name: "Unicrypt", Website: "https://unicrypt.network"},
		"0x407993575c91ce7643a4d4ccacc9a98c36ee1bbe": {Name: "Liquidity Locker", Website: "https://liquiditylocker.net"},
		"0x1ee3151c7d4c76e2c265ca2882b73b4b3b31470b": {Name: "CoinTool", Website: "https://cointool.app"},
		"0x71b5759d73262fbb223956913ecf4ecc51057641": {Name: "PinkSale", Website: "https://pinksale.finance"},
	},
	"base": {
		"0x5a6a4d5445683286c73a6ba4de2c60d1cce2f8e5": {Name: "Team Finance", Website: "https://team.finance"},
		"0x663a5c229c09b049e36dcc11a9b0d4a8eb9db214": {Name: "Unicrypt", Website: "https://unicrypt.network"},
		"0x407993575c91ce7643a4d4ccacc9a98c36ee1bbe": {Name: "Base Locker", Website: "https://baselocker.com"},
	},
}

// KnownLockContract reports whether addr is a known lock-platform contract
// on the given chain.
func KnownLockContract(addr, chainKey string) (LockPlatform, bool) {
	p, ok := lockContracts[chainKey][strings.ToLower(addr)]
	return p, ok
}

// ammInfrastructure is the fixed registry of AMM router/factory addresses
// excluded from holder-concentration math, across all supported chains.
var ammInfrastructure = map[string]struct{}{
	// Uniswap V2
	"0x7a250d5630b4cf539739df2c5dacb4c659f2488d": {},
	"0x5c69bee701ef814a2b6a3edd4b1652cb9cc5aa6f": {},
	// Uniswap V3
	"0xe592427a0aece92de3edee1f18e0157c05861564": {},
	"0x1f98431c8ad98523631ae4a59f267346ea31f984": {},
	// Base Uniswap V3
	"0x4752ba5dbc23f44d87826276bf6fd6b1c372ad24": {},
	"0x33128a8fc17869897dce68ed026d694621f6fdfd": {},
	// SushiSwap
	"0xd9e1ce17f2641f24ae83637ab66a2cca9c378b9f": {},
	"0xc0aee478e3658e2610c5f7a4a2e1777ce9e4f2ac": {},
}

// burnAddresses are the canonical burn/null sinks.
var burnAddresses = map[string]struct{}{
	"0x0000000000000000000000000000000000000000": {},
	"0x0000000000000000000000000000000000000001": {},
	"0x0000000000000000000000000000000000000002": {},
	"0x000000000000000000000000000000000000dead": {},
}

func isAMMInfrastructure(addr string) bool {
	_, ok := ammInfrastructure[strings.ToLower(addr)]
	return ok
}

// isBurnAddress matches the canonical burn set, the 0x000 near-null prefix
// heuristic, and addresses carrying "burn" in the hex string itself.
func isBurnAddress(addr string) bool {
	a := strings.ToLower(addr)
	if _, ok := burnAddresses[a]; ok {
		return true
	}
	if strings.HasPrefix(a, "0x000") && len(a) > 10 {
		return true
	}
	return strings.Contains(a, "burn")
}
