package amm

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dexforge/solana-launchpad/internal/blockchain"
	"github.com/dexforge/solana-launchpad/internal/wallet"
)

// PoolInfo reads the current reserves from the pool vaults.
func (c *Client) PoolInfo(ctx context.Context, keys *PoolKeys) (*PoolState, error) {
	var state PoolState
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		amount, err := c.client.TokenAccountBalance(gctx, keys.BaseVault)
		if err != nil {
			return fmt.Errorf("failed to read base vault: %w", err)
		}
		state.BaseReserve = amount
		return nil
	})
	g.Go(func() error {
		amount, err := c.client.TokenAccountBalance(gctx, keys.QuoteVault)
		if err != nil {
			return fmt.Errorf("failed to read quote vault: %w", err)
		}
		state.QuoteReserve = amount
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &state, nil
}

// Price returns the pool's spot price in quote base-units per base base-unit.
func (c *Client) Price(ctx context.Context, keys *PoolKeys) (float64, error) {
	state, err := c.PoolInfo(ctx, keys)
	if err != nil {
		return 0, err
	}
	if state.BaseReserve == 0 {
		return 0, fmt.Errorf("pool %s has no base reserve", keys.ID.String())
	}
	return float64(state.QuoteReserve) / float64(state.BaseReserve), nil
}

// Swap executes a fixed-input swap of amountIn (human units of the input
// mint) through the pool, protected by slippageBps. The input mint must be
// one of the pool's two mints; output direction follows from it.
func (c *Client) Swap(ctx context.Context, keys *PoolKeys, inputMint solana.PublicKey, amountIn float64, slippageBps uint16) (*SwapResult, error) {
	var inputDecimals uint8
	var outputMint solana.PublicKey
	switch {
	case inputMint.Equals(keys.BaseMint):
		inputDecimals = keys.BaseDecimals
		outputMint = keys.QuoteMint
	case inputMint.Equals(keys.QuoteMint):
		inputDecimals = keys.QuoteDecimals
		outputMint = keys.BaseMint
	default:
		return nil, fmt.Errorf("mint %s is not part of pool %s", inputMint.String(), keys.ID.String())
	}

	state, err := c.PoolInfo(ctx, keys)
	if err != nil {
		return nil, err
	}
	if state.BaseReserve == 0 || state.QuoteReserve == 0 {
		return nil, fmt.Errorf("pool %s has an empty reserve (base=%d quote=%d)",
			keys.ID.String(), state.BaseReserve, state.QuoteReserve)
	}

	inputReserve, outputReserve := state.BaseReserve, state.QuoteReserve
	if inputMint.Equals(keys.QuoteMint) {
		inputReserve, outputReserve = state.QuoteReserve, state.BaseReserve
	}

	rawIn := ToBaseUnits(amountIn, inputDecimals)
	if rawIn == 0 {
		return nil, fmt.Errorf("swap input %f is below one base unit", amountIn)
	}
	amounts := CalculateSwapAmounts(inputReserve, outputReserve, rawIn, slippageBps)

	payer := c.wallet.PublicKey
	userIn, err := c.wallet.ATA(inputMint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive input token account: %w", err)
	}
	userOut, err := c.wallet.ATA(outputMint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive output token account: %w", err)
	}

	instructions := []solana.Instruction{
		wallet.CreateATAIdempotentInstruction(payer, payer, outputMint),
	}
	if inputMint.Equals(WrappedSolMint) {
		instructions = append(instructions,
			wallet.CreateATAIdempotentInstruction(payer, payer, WrappedSolMint),
			system.NewTransferInstruction(amounts.AmountIn, payer, userIn).Build(),
			token.NewSyncNativeInstructionBuilder().SetTokenAccount(userIn).Build(),
		)
	}
	instructions = append(instructions, buildSwapInstruction(keys, payer, userIn, userOut, amounts))

	c.logger.Info("Swapping 🔄",
		zap.String("pool", keys.ID.String()),
		zap.String("input_mint", inputMint.String()),
		zap.Uint64("amount_in", amounts.AmountIn),
		zap.Uint64("expected_out", amounts.AmountOut),
		zap.Uint64("min_out", amounts.MinAmountOut))

	sig, err := c.sender.Send(ctx, &blockchain.TxRequest{
		Instructions: instructions,
		Payer:        payer,
		Signers:      []solana.PrivateKey{c.wallet.PrivateKey},
	})
	if err != nil {
		return nil, fmt.Errorf("swap failed: %w", err)
	}

	return &SwapResult{
		Signatures:   []solana.Signature{sig},
		AmountIn:     amounts.AmountIn,
		AmountOut:    NormalizeOutput(amounts.AmountOut),
		MinAmountOut: amounts.MinAmountOut,
	}, nil
}

func buildSwapInstruction(keys *PoolKeys, user, userIn, userOut solana.PublicKey, amounts *SwapAmounts) solana.Instruction {
	// Layout: instruction u8, amountIn u64, minAmountOut u64.
	data := make([]byte, 1+8+8)
	data[0] = ixSwapBaseIn
	binary.LittleEndian.PutUint64(data[1:9], amounts.AmountIn)
	binary.LittleEndian.PutUint64(data[9:17], amounts.MinAmountOut)

	accounts := []*solana.AccountMeta{
		{PublicKey: solana.TokenProgramID, IsWritable: false, IsSigner: false},
		{PublicKey: keys.ID, IsWritable: true, IsSigner: false},
		{PublicKey: keys.Authority, IsWritable: false, IsSigner: false},
		{PublicKey: keys.OpenOrders, IsWritable: true, IsSigner: false},
		{PublicKey: keys.TargetOrders, IsWritable: true, IsSigner: false},
		{PublicKey: keys.BaseVault, IsWritable: true, IsSigner: false},
		{PublicKey: keys.QuoteVault, IsWritable: true, IsSigner: false},
		{PublicKey: OpenBookProgramID, IsWritable: false, IsSigner: false},
		{PublicKey: keys.Market, IsWritable: true, IsSigner: false},
		{PublicKey: userIn, IsWritable: true, IsSigner: false},
		{PublicKey: userOut, IsWritable: true, IsSigner: false},
		{PublicKey: user, IsWritable: false, IsSigner: true},
	}

	return solana.NewInstruction(RaydiumV4ProgramID, accounts, data)
}
