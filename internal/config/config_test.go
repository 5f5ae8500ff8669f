package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, DefaultRPCEndpoint, cfg.RPCEndpoint)
	assert.Equal(t, uint8(DefaultTokenDecimals), cfg.TokenDecimals)
	assert.Equal(t, uint64(DefaultInitialSupply), cfg.InitialSupply)
	assert.Equal(t, uint16(DefaultDistributionBps), cfg.DistributionBps)
	assert.Equal(t, DefaultSolAmount, cfg.SolAmount)
	assert.Equal(t, uint16(DefaultSlippageBps), cfg.SlippageBps)
	assert.Equal(t, DefaultTokenName, cfg.TokenName)
	assert.Equal(t, DefaultIDLPath, cfg.IDLPath)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Empty(t, cfg.PrivateKey)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("LAUNCHPAD_RPC_ENDPOINT", "http://localhost:8899")
	t.Setenv("LAUNCHPAD_TOKEN_NAME", "Test Token")
	t.Setenv("LAUNCHPAD_DISTRIBUTION_BPS", "500")
	t.Setenv("LAUNCHPAD_SOL_AMOUNT", "0.2")

	cfg := Load()

	assert.Equal(t, "http://localhost:8899", cfg.RPCEndpoint)
	assert.Equal(t, "Test Token", cfg.TokenName)
	assert.Equal(t, uint16(500), cfg.DistributionBps)
	assert.Equal(t, 0.2, cfg.SolAmount)
}

func TestLoadScrubsPlaceholders(t *testing.T) {
	t.Setenv("LAUNCHPAD_PRIVATE_KEY", "your_private_key_here")
	t.Setenv("LAUNCHPAD_RECIPIENT_KEY", "CHANGEME")

	cfg := Load()

	assert.Empty(t, cfg.PrivateKey)
	assert.Empty(t, cfg.RecipientKey)
}

func TestLoadKeepsRealKeyMaterial(t *testing.T) {
	t.Setenv("LAUNCHPAD_PRIVATE_KEY", "5KQFVmGKY1y...")

	cfg := Load()
	assert.Equal(t, "5KQFVmGKY1y...", cfg.PrivateKey)
}
