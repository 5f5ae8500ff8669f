package amm

import (
	"github.com/gagliardetto/solana-go"
)

// Program IDs
var (
	RaydiumV4ProgramID = solana.MPK("675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8")
	OpenBookProgramID  = solana.MPK("srmqPvymJeFKQ4zGQed1GFppgkRHL9kaELCbyksJtPX")
	WrappedSolMint     = solana.MPK("So11111111111111111111111111111111111111112")
)

// Market account sizes (minimal order-book footprint)
const (
	MarketStateSize  = 388
	RequestQueueSize = 764
	EventQueueSize   = 11308
	OrderBookSize    = 14524
	TokenAccountSize = 165
)

// Instruction codes
const (
	ixInitializeMarket uint32 = 0

	ixInitializePool  uint8 = 1
	ixAddLiquidity    uint8 = 3
	ixRemoveLiquidity uint8 = 4
	ixSwapBaseIn      uint8 = 9
)

// PDA seeds
const (
	AmmAuthoritySeed = "amm_authority"
	AmmPoolSeed      = "amm_pool"
	OpenOrdersSeed   = "open_orders"
	TargetOrdersSeed = "target_orders"
	LpMintSeed       = "lp_mint"
)

// Native SOL precision. Swap output is normalized to this regardless of the
// output mint's true decimals; see NormalizeOutput.
const solDecimals = 9
