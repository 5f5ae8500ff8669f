package amm

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"go.uber.org/zap"

	"github.com/dexforge/solana-launchpad/internal/blockchain"
)

// CreateMarket creates an order-book market pairing two mints. The account
// footprint exceeds a single transaction's instruction budget, so the
// creation is a two-member batch: queues and books first, then the market,
// its vaults and the initialize instruction. A failed member aborts the whole
// attempt; already-confirmed members remain on chain.
func (c *Client) CreateMarket(ctx context.Context, params *MarketParams) (solana.PublicKey, error) {
	market := solana.NewWallet()
	requestQueue := solana.NewWallet()
	eventQueue := solana.NewWallet()
	bids := solana.NewWallet()
	asks := solana.NewWallet()
	baseVault := solana.NewWallet()
	quoteVault := solana.NewWallet()

	vaultOwner, vaultNonce, err := findVaultOwner(market.PublicKey())
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive vault owner: %w", err)
	}

	rents, err := c.rentFor(ctx, map[string]uint64{
		"market":       MarketStateSize,
		"requestQueue": RequestQueueSize,
		"eventQueue":   EventQueueSize,
		"orderBook":    OrderBookSize,
		"vault":        TokenAccountSize,
	})
	if err != nil {
		return solana.PublicKey{}, err
	}

	payer := c.wallet.PublicKey

	// Member 1: the queue and book accounts.
	bookkeeping := []solana.Instruction{
		system.NewCreateAccountInstruction(rents["requestQueue"], RequestQueueSize, OpenBookProgramID, payer, requestQueue.PublicKey()).Build(),
		system.NewCreateAccountInstruction(rents["eventQueue"], EventQueueSize, OpenBookProgramID, payer, eventQueue.PublicKey()).Build(),
		system.NewCreateAccountInstruction(rents["orderBook"], OrderBookSize, OpenBookProgramID, payer, bids.PublicKey()).Build(),
		system.NewCreateAccountInstruction(rents["orderBook"], OrderBookSize, OpenBookProgramID, payer, asks.PublicKey()).Build(),
	}

	// Member 2: market state, vaults, and initialization.
	initialize := []solana.Instruction{
		system.NewCreateAccountInstruction(rents["vault"], TokenAccountSize, solana.TokenProgramID, payer, baseVault.PublicKey()).Build(),
		system.NewCreateAccountInstruction(rents["vault"], TokenAccountSize, solana.TokenProgramID, payer, quoteVault.PublicKey()).Build(),
		token.NewInitializeAccount3InstructionBuilder().
			SetOwner(vaultOwner).
			SetAccount(baseVault.PublicKey()).
			SetMintAccount(params.BaseMint).
			Build(),
		token.NewInitializeAccount3InstructionBuilder().
			SetOwner(vaultOwner).
			SetAccount(quoteVault.PublicKey()).
			SetMintAccount(params.QuoteMint).
			Build(),
		system.NewCreateAccountInstruction(rents["market"], MarketStateSize, OpenBookProgramID, payer, market.PublicKey()).Build(),
		buildInitializeMarketInstruction(params, market.PublicKey(), requestQueue.PublicKey(),
			eventQueue.PublicKey(), bids.PublicKey(), asks.PublicKey(),
			baseVault.PublicKey(), quoteVault.PublicKey(), vaultNonce),
	}

	c.logger.Info("Creating order-book market",
		zap.String("market", market.PublicKey().String()),
		zap.String("base_mint", params.BaseMint.String()),
		zap.String("quote_mint", params.QuoteMint.String()),
		zap.Uint64("base_lot_size", params.BaseLotSize),
		zap.Uint64("tick_size", params.TickSize))

	batch := []*blockchain.TxRequest{
		{
			Instructions: bookkeeping,
			Payer:        payer,
			Signers: []solana.PrivateKey{
				c.wallet.PrivateKey,
				requestQueue.PrivateKey, eventQueue.PrivateKey,
				bids.PrivateKey, asks.PrivateKey,
			},
		},
		{
			Instructions: initialize,
			Payer:        payer,
			Signers: []solana.PrivateKey{
				c.wallet.PrivateKey,
				baseVault.PrivateKey, quoteVault.PrivateKey,
				market.PrivateKey,
			},
		},
	}

	sigs, err := c.sender.SendBatch(ctx, batch)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("market creation failed: %w", err)
	}

	c.logger.Info("Market created",
		zap.String("market", market.PublicKey().String()),
		zap.Int("transactions", len(sigs)))
	return market.PublicKey(), nil
}

// findVaultOwner searches for the program address that owns the market's
// vaults, following the dex program's nonce-probing derivation.
func findVaultOwner(market solana.PublicKey) (solana.PublicKey, uint64, error) {
	for nonce := uint64(0); nonce < 255; nonce++ {
		nonceBytes := make([]byte, 8)
		binary.LittleEndian.PutUint64(nonceBytes, nonce)
		owner, err := solana.CreateProgramAddress(
			[][]byte{market.Bytes(), nonceBytes},
			OpenBookProgramID,
		)
		if err == nil {
			return owner, nonce, nil
		}
	}
	return solana.PublicKey{}, 0, fmt.Errorf("no valid vault owner nonce for market %s", market.String())
}

func buildInitializeMarketInstruction(
	params *MarketParams,
	market, requestQueue, eventQueue, bids, asks, baseVault, quoteVault solana.PublicKey,
	vaultNonce uint64,
) solana.Instruction {
	// Layout: version u8, instruction u32, baseLotSize u64, quoteLotSize u64,
	// feeRateBps u16, vaultSignerNonce u64, quoteDustThreshold u64.
	data := make([]byte, 1+4+8+8+2+8+8)
	data[0] = 0
	binary.LittleEndian.PutUint32(data[1:5], ixInitializeMarket)
	binary.LittleEndian.PutUint64(data[5:13], params.BaseLotSize)
	binary.LittleEndian.PutUint64(data[13:21], params.QuoteLotSize)
	binary.LittleEndian.PutUint16(data[21:23], params.FeeRateBps)
	binary.LittleEndian.PutUint64(data[23:31], vaultNonce)
	binary.LittleEndian.PutUint64(data[31:39], params.TickSize)

	accounts := []*solana.AccountMeta{
		{PublicKey: market, IsWritable: true, IsSigner: false},
		{PublicKey: requestQueue, IsWritable: true, IsSigner: false},
		{PublicKey: eventQueue, IsWritable: true, IsSigner: false},
		{PublicKey: bids, IsWritable: true, IsSigner: false},
		{PublicKey: asks, IsWritable: true, IsSigner: false},
		{PublicKey: baseVault, IsWritable: true, IsSigner: false},
		{PublicKey: quoteVault, IsWritable: true, IsSigner: false},
		{PublicKey: params.BaseMint, IsWritable: false, IsSigner: false},
		{PublicKey: params.QuoteMint, IsWritable: false, IsSigner: false},
		{PublicKey: solana.SysVarRentPubkey, IsWritable: false, IsSigner: false},
	}

	return solana.NewInstruction(OpenBookProgramID, accounts, data)
}

func (c *Client) rentFor(ctx context.Context, sizes map[string]uint64) (map[string]uint64, error) {
	rents := make(map[string]uint64, len(sizes))
	for name, size := range sizes {
		lamports, err := c.client.MinimumBalanceForRentExemption(ctx, size)
		if err != nil {
			return nil, fmt.Errorf("failed to get rent for %s account: %w", name, err)
		}
		rents[name] = lamports
	}
	return rents, nil
}
