package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/dexforge/solana-launchpad/internal/blockchain"
	"github.com/dexforge/solana-launchpad/internal/config"
	"github.com/dexforge/solana-launchpad/internal/launcher"
	"github.com/dexforge/solana-launchpad/internal/logger"
	"github.com/dexforge/solana-launchpad/internal/wallet"
)

const (
	initialPriceLamports = 1_000_000 // 0.001 SOL per token
	buyLamports          = 10_000_000
)

// Drives the bonding-curve launcher demo: initialize, buy, sell half, then
// withdraw the collected SOL. Unlike the primary demo this one exits 1 on
// failure.
func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)
	defer logger.Sync(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("Launcher demo failed", zap.Error(err))
		os.Exit(1)
	}
	log.Info("Launcher demo finished")
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	contract, err := launcher.LoadContract(cfg.IDLPath)
	if err != nil {
		return err
	}
	log.Info("Loaded program contract",
		zap.String("program", contract.ProgramID.String()),
		zap.String("version", contract.Version))

	authority, err := wallet.Load(cfg.PrivateKey, cfg.DevPrivateKey, log)
	if err != nil {
		return err
	}

	client := blockchain.NewClient(cfg.RPCEndpoint, log)
	lc := launcher.NewClient(client, authority, contract, log)

	maxSupply := cfg.InitialSupply * pow10(cfg.TokenDecimals)
	init, err := lc.Initialize(ctx, &launcher.InitializeConfig{
		Name:         cfg.TokenName,
		Symbol:       cfg.TokenSymbol,
		Decimals:     cfg.TokenDecimals,
		InitialPrice: initialPriceLamports,
		MaxSupply:    maxSupply,
	})
	if err != nil {
		return err
	}
	log.Info("Launcher initialized",
		zap.String("mint", init.Mint.String()),
		zap.String("state", init.State.String()),
		zap.String("signature", init.Signature.String()))

	state, err := lc.State(ctx, init.Mint)
	if err != nil {
		return err
	}
	expected := launcher.TokensForSol(state, buyLamports)
	log.Info("Buy estimate",
		zap.Uint64("sol_lamports", buyLamports),
		zap.Uint64("token_base_units", expected))

	_, state, err = lc.Buy(ctx, init.Mint, buyLamports)
	if err != nil {
		return err
	}
	log.Info("Bought tokens",
		zap.Uint64("total_minted", state.TotalMinted),
		zap.Uint64("current_price", state.CurrentPrice),
		zap.Uint64("sol_collected", state.SolCollected))

	sellAmount := state.TotalMinted / 2
	estimate := launcher.SolForTokens(state, sellAmount)
	log.Info("Sell estimate",
		zap.Uint64("token_base_units", sellAmount),
		zap.Uint64("sol_lamports", estimate))

	_, state, err = lc.Sell(ctx, init.Mint, sellAmount)
	if err != nil {
		return err
	}
	log.Info("Sold tokens",
		zap.Uint64("total_minted", state.TotalMinted),
		zap.Uint64("current_price", state.CurrentPrice),
		zap.Uint64("sol_collected", state.SolCollected))

	if state.SolCollected > 0 {
		amount := state.SolCollected
		sig, fresh, err := lc.Withdraw(ctx, init.Mint, amount)
		if err != nil {
			return err
		}
		state = fresh
		log.Info("Withdrew collected SOL",
			zap.Uint64("lamports", amount),
			zap.Uint64("sol_collected", state.SolCollected),
			zap.String("signature", sig.String()))
	}

	lamports, err := client.Balance(ctx, authority.PublicKey)
	if err != nil {
		return err
	}
	ata, err := authority.ATA(init.Mint)
	if err != nil {
		return err
	}
	tokens, err := client.TokenAccountBalance(ctx, ata)
	if err != nil && !blockchain.IsAccountNotFoundError(err) {
		return err
	}
	log.Info("Final balances",
		zap.Float64("sol", float64(lamports)/1e9),
		zap.Float64("token", float64(tokens)/float64(pow10(state.TokenDecimals))))
	return nil
}

func pow10(decimals uint8) uint64 {
	result := uint64(1)
	for i := uint8(0); i < decimals; i++ {
		result *= 10
	}
	return result
}
