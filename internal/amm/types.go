package amm

import (
	"github.com/gagliardetto/solana-go"

	"github.com/dexforge/solana-launchpad/internal/blockchain"
	"github.com/dexforge/solana-launchpad/internal/wallet"
	"go.uber.org/zap"
)

// Client wraps the order-book and AMM program calls this workflow needs.
type Client struct {
	client *blockchain.Client
	sender *blockchain.Sender
	wallet *wallet.Wallet
	logger *zap.Logger
}

func NewClient(client *blockchain.Client, w *wallet.Wallet, logger *zap.Logger) *Client {
	return &Client{
		client: client,
		sender: blockchain.NewSender(client, logger),
		wallet: w,
		logger: logger.Named("amm"),
	}
}

// MarketParams configures order-book market creation.
type MarketParams struct {
	BaseMint     solana.PublicKey
	QuoteMint    solana.PublicKey
	BaseLotSize  uint64
	QuoteLotSize uint64
	TickSize     uint64 // quote dust threshold follows the tick granularity
	FeeRateBps   uint16
}

// PoolParams configures AMM pool creation against an existing market.
type PoolParams struct {
	BaseMint      solana.PublicKey
	QuoteMint     solana.PublicKey
	BaseAmount    float64 // human units
	QuoteAmount   float64 // human units
	BaseDecimals  uint8
	QuoteDecimals uint8
	Market        solana.PublicKey
	OpenTime      uint64 // unix seconds; 0 means immediately
}

// PoolKeys is the descriptor of a created pool: every derived account later
// operations need.
type PoolKeys struct {
	ID            solana.PublicKey
	Authority     solana.PublicKey
	Nonce         uint8
	OpenOrders    solana.PublicKey
	TargetOrders  solana.PublicKey
	LpMint        solana.PublicKey
	BaseMint      solana.PublicKey
	QuoteMint     solana.PublicKey
	BaseVault     solana.PublicKey
	QuoteVault    solana.PublicKey
	Market        solana.PublicKey
	BaseDecimals  uint8
	QuoteDecimals uint8
}

// PoolState is a reserve snapshot read from the pool vaults.
type PoolState struct {
	BaseReserve  uint64
	QuoteReserve uint64
}

// SwapResult reports a confirmed swap.
type SwapResult struct {
	Signatures   []solana.Signature
	AmountIn     uint64
	AmountOut    float64 // normalized to 9 decimals, see NormalizeOutput
	MinAmountOut uint64
}
