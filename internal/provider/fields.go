package provider

// Canonical field keys shared by the adapters and the merge policy.
// Values are loosely typed at this layer: strings, bools, ints, float64s,
// decimals, and raw holder slices.
const (
	FieldName        = "name"
	FieldSymbol      = "symbol"
	FieldDecimals    = "decimals"
	FieldTotalSupply = "total_supply"

	FieldPriceUSD       = "price_usd"
	FieldPriceChange24h = "price_change_24h"
	FieldMarketCap      = "market_cap"
	FieldFDV            = "fdv"
	FieldVolume24h      = "volume_24h"
	FieldLiquidityUSD   = "liquidity_usd"
	FieldPairCreatedAt  = "pair_created_at"
	FieldTokenAgeDays   = "token_age_days"
	FieldTxns24h        = "txns_24h"

	FieldIsHoneypot   = "is_honeypot"
	FieldBuyTax       = "buy_tax"
	FieldSellTax      = "sell_tax"
	FieldIsOpenSource = "is_open_source"
	FieldIsMintable   = "is_mintable"
	FieldIsPausable   = "is_pausable"
	FieldIsProxy      = "is_proxy"
	FieldRiskLevel    = "risk_level"

	FieldIsVerified         = "is_verified"
	FieldVerificationStatus = "contract_verification_status"
	FieldHasSourceCode      = "has_source_code"
	FieldHasABI             = "has_abi"
	FieldCreationDate       = "contract_creation_date"
	FieldCreationTx         = "contract_creation_tx"
	FieldContractCreator    = "contract_creator"
	FieldTransactionCount   = "transaction_count"

	FieldHolderCount = "holder_count"
	FieldHolders     = "holders"
	FieldLPHolders   = "lp_holders"

	FieldDeployerBalance     = "deployer_balance"
	FieldDeployerTxCount     = "deployer_tx_count"
	FieldDeployerContracts   = "deployer_contracts_created"
	FieldDeployerAgeDays     = "deployer_age_days"

	FieldLiquidityLocked = "liquidity_locked"
	FieldLockPlatform    = "liquidity_lock_platform"
	FieldLockPercentage  = "liquidity_lock_percentage"
	FieldUnlockTime      = "liquidity_lock_unlock_time"
	FieldLockConfidence  = "lock_confidence"
)

// SecurityOwnedFields are always taken from the security provider when it
// supplied them, regardless of arrival order.
var SecurityOwnedFields = map[string]struct{}{
	FieldIsHoneypot:   {},
	FieldBuyTax:       {},
	FieldSellTax:      {},
	FieldIsOpenSource: {},
	FieldIsMintable:   {},
	FieldIsPausable:   {},
	FieldRiskLevel:    {},
}

// ExplorerOwnedFields are always taken from the explorer provider when it
// supplied them.
var ExplorerOwnedFields = map[string]struct{}{
	FieldIsVerified:         {},
	FieldVerificationStatus: {},
}
