package main

import (
	"context"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/dexforge/solana-launchpad/internal/config"
	"github.com/dexforge/solana-launchpad/internal/logger"
	"github.com/dexforge/solana-launchpad/internal/workflow"
)

// Runs the end-to-end issuance demonstration. Failures are logged but the
// process still exits zero: the run is a demo, partial progress is left on
// chain and reported, not rolled back.
func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)
	defer logger.Sync(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("Starting launchpad demo",
		zap.String("endpoint", cfg.RPCEndpoint),
		zap.String("token", cfg.TokenName))

	if err := workflow.New(cfg, log).Run(ctx); err != nil {
		log.Error("Run finished with errors", zap.Error(err))
		return
	}
	log.Info("Run finished")
}
