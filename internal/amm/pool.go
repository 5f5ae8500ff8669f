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
	"github.com/dexforge/solana-launchpad/internal/wallet"
)

// DerivePoolKeys derives every pool account from the market address. The
// derivation is deterministic, so callers can reconstruct the full key set
// from the market alone.
func DerivePoolKeys(market, baseMint, quoteMint solana.PublicKey, baseDecimals, quoteDecimals uint8) (*PoolKeys, error) {
	poolID, _, err := solana.FindProgramAddress(
		[][]byte{[]byte(AmmPoolSeed), market.Bytes()},
		RaydiumV4ProgramID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to derive pool id: %w", err)
	}

	authority, nonce, err := solana.FindProgramAddress(
		[][]byte{[]byte(AmmAuthoritySeed)},
		RaydiumV4ProgramID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to derive pool authority: %w", err)
	}

	openOrders, _, err := solana.FindProgramAddress(
		[][]byte{[]byte(OpenOrdersSeed), poolID.Bytes()},
		RaydiumV4ProgramID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to derive open orders: %w", err)
	}

	targetOrders, _, err := solana.FindProgramAddress(
		[][]byte{[]byte(TargetOrdersSeed), poolID.Bytes()},
		RaydiumV4ProgramID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to derive target orders: %w", err)
	}

	lpMint, _, err := solana.FindProgramAddress(
		[][]byte{[]byte(LpMintSeed), poolID.Bytes()},
		RaydiumV4ProgramID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to derive lp mint: %w", err)
	}

	baseVault, _, err := solana.FindAssociatedTokenAddress(authority, baseMint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive base vault: %w", err)
	}
	quoteVault, _, err := solana.FindAssociatedTokenAddress(authority, quoteMint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive quote vault: %w", err)
	}

	return &PoolKeys{
		ID:            poolID,
		Authority:     authority,
		Nonce:         nonce,
		OpenOrders:    openOrders,
		TargetOrders:  targetOrders,
		LpMint:        lpMint,
		BaseMint:      baseMint,
		QuoteMint:     quoteMint,
		BaseVault:     baseVault,
		QuoteVault:    quoteVault,
		Market:        market,
		BaseDecimals:  baseDecimals,
		QuoteDecimals: quoteDecimals,
	}, nil
}

// CreatePool initializes an AMM pool over an existing market and seeds it with
// the configured base and quote amounts. When the quote side is native SOL the
// amount is wrapped first in the same batch.
func (c *Client) CreatePool(ctx context.Context, params *PoolParams) (*PoolKeys, []solana.Signature, error) {
	keys, err := DerivePoolKeys(params.Market, params.BaseMint, params.QuoteMint,
		params.BaseDecimals, params.QuoteDecimals)
	if err != nil {
		return nil, nil, err
	}

	baseAmount := ToBaseUnits(params.BaseAmount, params.BaseDecimals)
	quoteAmount := ToBaseUnits(params.QuoteAmount, params.QuoteDecimals)
	if baseAmount == 0 || quoteAmount == 0 {
		return nil, nil, fmt.Errorf("pool liquidity must be positive on both sides (base=%d quote=%d)", baseAmount, quoteAmount)
	}

	payer := c.wallet.PublicKey

	userBase, err := c.wallet.ATA(params.BaseMint)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to derive base token account: %w", err)
	}
	userQuote, err := c.wallet.ATA(params.QuoteMint)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to derive quote token account: %w", err)
	}
	userLp, _, err := solana.FindAssociatedTokenAddress(payer, keys.LpMint)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to derive lp token account: %w", err)
	}

	// Funding member: make sure the user side accounts exist and, for a
	// native-SOL quote, wrap the lamports into the quote account.
	prepare := []solana.Instruction{
		wallet.CreateATAIdempotentInstruction(payer, payer, params.BaseMint),
		wallet.CreateATAIdempotentInstruction(payer, payer, params.QuoteMint),
	}
	if params.QuoteMint.Equals(WrappedSolMint) {
		prepare = append(prepare,
			system.NewTransferInstruction(quoteAmount, payer, userQuote).Build(),
			token.NewSyncNativeInstructionBuilder().SetTokenAccount(userQuote).Build(),
		)
	}

	initIx := buildInitializePoolInstruction(keys, payer, userBase, userQuote, userLp,
		baseAmount, quoteAmount, params.OpenTime)

	c.logger.Info("Creating liquidity pool 🏊",
		zap.String("pool", keys.ID.String()),
		zap.String("market", params.Market.String()),
		zap.Float64("base_amount", params.BaseAmount),
		zap.Float64("quote_amount", params.QuoteAmount))

	sigs, err := c.sender.SendBatch(ctx, []*blockchain.TxRequest{
		{
			Instructions: prepare,
			Payer:        payer,
			Signers:      []solana.PrivateKey{c.wallet.PrivateKey},
		},
		{
			Instructions: []solana.Instruction{initIx},
			Payer:        payer,
			Signers:      []solana.PrivateKey{c.wallet.PrivateKey},
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("pool creation failed: %w", err)
	}

	c.logger.Info("Pool created",
		zap.String("pool", keys.ID.String()),
		zap.String("lp_mint", keys.LpMint.String()))
	return keys, sigs, nil
}

func buildInitializePoolInstruction(
	keys *PoolKeys,
	user, userBase, userQuote, userLp solana.PublicKey,
	baseAmount, quoteAmount, openTime uint64,
) solana.Instruction {
	// Layout: instruction u8, nonce u8, openTime u64, initQuote u64, initBase u64.
	data := make([]byte, 1+1+8+8+8)
	data[0] = ixInitializePool
	data[1] = keys.Nonce
	binary.LittleEndian.PutUint64(data[2:10], openTime)
	binary.LittleEndian.PutUint64(data[10:18], quoteAmount)
	binary.LittleEndian.PutUint64(data[18:26], baseAmount)

	accounts := []*solana.AccountMeta{
		{PublicKey: solana.TokenProgramID, IsWritable: false, IsSigner: false},
		{PublicKey: solana.SPLAssociatedTokenAccountProgramID, IsWritable: false, IsSigner: false},
		{PublicKey: solana.SystemProgramID, IsWritable: false, IsSigner: false},
		{PublicKey: solana.SysVarRentPubkey, IsWritable: false, IsSigner: false},
		{PublicKey: keys.ID, IsWritable: true, IsSigner: false},
		{PublicKey: keys.Authority, IsWritable: false, IsSigner: false},
		{PublicKey: keys.OpenOrders, IsWritable: true, IsSigner: false},
		{PublicKey: keys.LpMint, IsWritable: true, IsSigner: false},
		{PublicKey: keys.BaseMint, IsWritable: false, IsSigner: false},
		{PublicKey: keys.QuoteMint, IsWritable: false, IsSigner: false},
		{PublicKey: keys.BaseVault, IsWritable: true, IsSigner: false},
		{PublicKey: keys.QuoteVault, IsWritable: true, IsSigner: false},
		{PublicKey: keys.TargetOrders, IsWritable: true, IsSigner: false},
		{PublicKey: OpenBookProgramID, IsWritable: false, IsSigner: false},
		{PublicKey: keys.Market, IsWritable: false, IsSigner: false},
		{PublicKey: user, IsWritable: true, IsSigner: true},
		{PublicKey: userBase, IsWritable: true, IsSigner: false},
		{PublicKey: userQuote, IsWritable: true, IsSigner: false},
		{PublicKey: userLp, IsWritable: true, IsSigner: false},
	}

	return solana.NewInstruction(RaydiumV4ProgramID, accounts, data)
}

// AddLiquidity deposits up to maxBase/maxQuote (human units) into the pool,
// base side fixed.
func (c *Client) AddLiquidity(ctx context.Context, keys *PoolKeys, maxBase, maxQuote float64) (solana.Signature, error) {
	baseAmount := ToBaseUnits(maxBase, keys.BaseDecimals)
	quoteAmount := ToBaseUnits(maxQuote, keys.QuoteDecimals)

	userBase, err := c.wallet.ATA(keys.BaseMint)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to derive base token account: %w", err)
	}
	userQuote, err := c.wallet.ATA(keys.QuoteMint)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to derive quote token account: %w", err)
	}
	userLp, _, err := solana.FindAssociatedTokenAddress(c.wallet.PublicKey, keys.LpMint)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to derive lp token account: %w", err)
	}

	// Layout: instruction u8, maxBase u64, maxQuote u64, fixedSide u64 (0 = base).
	data := make([]byte, 1+8+8+8)
	data[0] = ixAddLiquidity
	binary.LittleEndian.PutUint64(data[1:9], baseAmount)
	binary.LittleEndian.PutUint64(data[9:17], quoteAmount)
	binary.LittleEndian.PutUint64(data[17:25], 0)

	ix := solana.NewInstruction(RaydiumV4ProgramID, c.liquidityAccounts(keys, userBase, userQuote, userLp), data)

	c.logger.Info("Adding liquidity",
		zap.String("pool", keys.ID.String()),
		zap.Float64("max_base", maxBase),
		zap.Float64("max_quote", maxQuote))

	return c.sender.Send(ctx, &blockchain.TxRequest{
		Instructions: []solana.Instruction{ix},
		Payer:        c.wallet.PublicKey,
		Signers:      []solana.PrivateKey{c.wallet.PrivateKey},
	})
}

// RemoveLiquidity burns lpAmount LP tokens (base units) and withdraws the
// corresponding pool share.
func (c *Client) RemoveLiquidity(ctx context.Context, keys *PoolKeys, lpAmount uint64) (solana.Signature, error) {
	if lpAmount == 0 {
		return solana.Signature{}, fmt.Errorf("lp amount must be positive")
	}

	userBase, err := c.wallet.ATA(keys.BaseMint)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to derive base token account: %w", err)
	}
	userQuote, err := c.wallet.ATA(keys.QuoteMint)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to derive quote token account: %w", err)
	}
	userLp, _, err := solana.FindAssociatedTokenAddress(c.wallet.PublicKey, keys.LpMint)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to derive lp token account: %w", err)
	}

	data := make([]byte, 1+8)
	data[0] = ixRemoveLiquidity
	binary.LittleEndian.PutUint64(data[1:9], lpAmount)

	ix := solana.NewInstruction(RaydiumV4ProgramID, c.liquidityAccounts(keys, userBase, userQuote, userLp), data)

	c.logger.Info("Removing liquidity",
		zap.String("pool", keys.ID.String()),
		zap.Uint64("lp_amount", lpAmount))

	return c.sender.Send(ctx, &blockchain.TxRequest{
		Instructions: []solana.Instruction{ix},
		Payer:        c.wallet.PublicKey,
		Signers:      []solana.PrivateKey{c.wallet.PrivateKey},
	})
}

func (c *Client) liquidityAccounts(keys *PoolKeys, userBase, userQuote, userLp solana.PublicKey) []*solana.AccountMeta {
	return []*solana.AccountMeta{
		{PublicKey: solana.TokenProgramID, IsWritable: false, IsSigner: false},
		{PublicKey: keys.ID, IsWritable: true, IsSigner: false},
		{PublicKey: keys.Authority, IsWritable: false, IsSigner: false},
		{PublicKey: keys.OpenOrders, IsWritable: true, IsSigner: false},
		{PublicKey: keys.TargetOrders, IsWritable: true, IsSigner: false},
		{PublicKey: keys.LpMint, IsWritable: true, IsSigner: false},
		{PublicKey: keys.BaseVault, IsWritable: true, IsSigner: false},
		{PublicKey: keys.QuoteVault, IsWritable: true, IsSigner: false},
		{PublicKey: keys.Market, IsWritable: true, IsSigner: false},
		{PublicKey: userBase, IsWritable: true, IsSigner: false},
		{PublicKey: userQuote, IsWritable: true, IsSigner: false},
		{PublicKey: userLp, IsWritable: true, IsSigner: false},
		{PublicKey: c.wallet.PublicKey, IsWritable: true, IsSigner: true},
	}
}
