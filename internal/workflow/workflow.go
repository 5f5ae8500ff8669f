package workflow

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/dexforge/solana-launchpad/internal/amm"
	"github.com/dexforge/solana-launchpad/internal/blockchain"
	"github.com/dexforge/solana-launchpad/internal/config"
	"github.com/dexforge/solana-launchpad/internal/token"
	"github.com/dexforge/solana-launchpad/internal/wallet"
)

// Stage is one step of the linear demo sequence. Optional stages are logged
// and skipped on failure; all others abort the run.
type Stage struct {
	Name     string
	Optional bool
	Run      func(ctx context.Context) error
}

// Execute runs stages strictly in order. An optional stage's failure is
// swallowed after logging; an essential stage's failure terminates the
// sequence. There is no retry and no resumption.
func Execute(ctx context.Context, logger *zap.Logger, stages []Stage) error {
	for _, stage := range stages {
		logger.Info("Stage starting", zap.String("stage", stage.Name))
		if err := stage.Run(ctx); err != nil {
			if stage.Optional {
				logger.Warn("Optional stage failed, continuing",
					zap.String("stage", stage.Name),
					zap.Error(err))
				continue
			}
			return fmt.Errorf("stage %s failed: %w", stage.Name, err)
		}
		logger.Info("Stage complete", zap.String("stage", stage.Name))
	}
	return nil
}

// Market shape for the demo pair. Lots are sized for a 9-decimal base asset
// against native SOL.
const (
	demoBaseLotSize  = 1_000_000
	demoQuoteLotSize = 10_000
	demoTickSize     = 100
	demoFeeRateBps   = 150

	// Share of the initial supply seeded into the pool.
	demoPoolSupplyFraction = 0.1
)

// Runner wires the facades together and drives the end-to-end demonstration:
// token creation through metadata, distribution, market, pool and a test
// swap.
type Runner struct {
	cfg    *config.Config
	logger *zap.Logger
}

func New(cfg *config.Config, logger *zap.Logger) *Runner {
	return &Runner{cfg: cfg, logger: logger.Named("workflow")}
}

func (r *Runner) Run(ctx context.Context) error {
	client := blockchain.NewClient(r.cfg.RPCEndpoint, r.logger)

	payer, err := wallet.Load(r.cfg.PrivateKey, r.cfg.DevPrivateKey, r.logger)
	if err != nil {
		return fmt.Errorf("failed to load payer wallet: %w", err)
	}
	recipient, err := wallet.Load(r.cfg.RecipientKey, r.cfg.RecipientKeyDev, r.logger)
	if err != nil {
		return fmt.Errorf("failed to load recipient wallet: %w", err)
	}

	session := token.NewSession(client, payer, r.logger)
	dex := amm.NewClient(client, payer, r.logger)

	// Results threaded forward through the stages.
	var (
		market   solana.PublicKey
		poolKeys *amm.PoolKeys
	)

	stages := []Stage{
		{
			Name: "create-token",
			Run: func(ctx context.Context) error {
				_, err := session.CreateToken(ctx, r.cfg.TokenDecimals, r.cfg.InitialSupply)
				return err
			},
		},
		{
			Name:     "create-metadata",
			Optional: true,
			Run: func(ctx context.Context) error {
				_, err := session.CreateMetadata(ctx, r.cfg.TokenName, r.cfg.TokenSymbol, r.cfg.TokenImageURI)
				return err
			},
		},
		{
			Name: "distribute",
			Run: func(ctx context.Context) error {
				dist, err := session.DistributeTokensAndSol(ctx, r.cfg.DistributionBps, r.cfg.SolAmount, recipient.PublicKey)
				if err != nil {
					return err
				}
				r.logger.Info("Distribution complete",
					zap.String("recipient", dist.Recipient.String()),
					zap.Float64("tokens", dist.TokenAmount),
					zap.Float64("sol", dist.SolAmount))
				return nil
			},
		},
		{
			Name: "check-balances",
			Run: func(ctx context.Context) error {
				return r.reportBalances(ctx, session, payer.PublicKey, recipient.PublicKey)
			},
		},
		{
			Name: "create-market",
			Run: func(ctx context.Context) error {
				market, err = dex.CreateMarket(ctx, &amm.MarketParams{
					BaseMint:     session.Mint(),
					QuoteMint:    amm.WrappedSolMint,
					BaseLotSize:  demoBaseLotSize,
					QuoteLotSize: demoQuoteLotSize,
					TickSize:     demoTickSize,
					FeeRateBps:   demoFeeRateBps,
				})
				return err
			},
		},
		{
			Name:     "create-pool",
			Optional: true,
			Run: func(ctx context.Context) error {
				poolKeys, _, err = dex.CreatePool(ctx, &amm.PoolParams{
					BaseMint:      session.Mint(),
					QuoteMint:     amm.WrappedSolMint,
					BaseAmount:    float64(r.cfg.InitialSupply) * demoPoolSupplyFraction,
					QuoteAmount:   r.cfg.SolAmount,
					BaseDecimals:  session.Decimals(),
					QuoteDecimals: 9,
					Market:        market,
				})
				return err
			},
		},
		{
			Name:     "swap",
			Optional: true,
			Run: func(ctx context.Context) error {
				if poolKeys == nil {
					return fmt.Errorf("no pool available")
				}
				result, err := dex.Swap(ctx, poolKeys, amm.WrappedSolMint, r.cfg.SolAmount/10, r.cfg.SlippageBps)
				if err != nil {
					return err
				}
				r.logger.Info("Swap complete",
					zap.Uint64("amount_in", result.AmountIn),
					zap.Float64("amount_out", result.AmountOut))
				return nil
			},
		},
		{
			Name: "check-final-balances",
			Run: func(ctx context.Context) error {
				return r.reportBalances(ctx, session, payer.PublicKey, recipient.PublicKey)
			},
		},
	}

	if err := Execute(ctx, r.logger, stages); err != nil {
		return err
	}

	r.logger.Info("Demonstration complete ✅",
		zap.String("mint", session.Mint().String()),
		zap.String("market", market.String()))
	return nil
}

func (r *Runner) reportBalances(ctx context.Context, session *token.Session, accounts ...solana.PublicKey) error {
	mint := session.Mint()
	for _, account := range accounts {
		balances, err := session.AccountBalances(ctx, account, &mint)
		if err != nil {
			return err
		}
		r.logger.Info("Balances",
			zap.String("account", account.String()),
			zap.Float64("sol", balances.Sol),
			zap.Float64("token", balances.Token))
	}
	return nil
}
