package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is an immutable snapshot of everything the demo needs. Every field
// has a safe default, so loading never fails: a missing or placeholder value
// silently falls back.
type Config struct {
	RPCEndpoint string `mapstructure:"rpc_endpoint"`

	// Payer/authority key material. PrivateKey is base58, DevPrivateKey is a
	// JSON byte array (the format solana-keygen writes). Either may be empty.
	PrivateKey    string `mapstructure:"private_key"`
	DevPrivateKey string `mapstructure:"dev_private_key"`

	// Optional recipient key material, same two encodings.
	RecipientKey    string `mapstructure:"recipient_key"`
	RecipientKeyDev string `mapstructure:"recipient_key_dev"`

	TokenDecimals   uint8   `mapstructure:"token_decimals"`
	InitialSupply   uint64  `mapstructure:"initial_supply"`
	DistributionBps uint16  `mapstructure:"distribution_bps"`
	SolAmount       float64 `mapstructure:"sol_amount"`
	SlippageBps     uint16  `mapstructure:"slippage_bps"`

	TokenName     string `mapstructure:"token_name"`
	TokenSymbol   string `mapstructure:"token_symbol"`
	TokenImageURI string `mapstructure:"token_image_uri"`

	IDLPath  string `mapstructure:"idl_path"`
	LogLevel string `mapstructure:"log_level"`
}

const (
	DefaultRPCEndpoint     = "https://api.devnet.solana.com"
	DefaultTokenDecimals   = 9
	DefaultInitialSupply   = 1_000_000
	DefaultDistributionBps = 2000
	DefaultSolAmount       = 0.05
	DefaultSlippageBps     = 100
	DefaultTokenName       = "Launchpad Token"
	DefaultTokenSymbol     = "LPAD"
	DefaultTokenImageURI   = "https://arweave.net/launchpad-token.png"
	DefaultIDLPath         = "idl/token_launcher.json"
	DefaultLogLevel        = "info"
)

// placeholders that templates and READMEs commonly leave behind; a value equal
// to one of these is treated as unset rather than as malformed key material.
var placeholders = []string{
	"your_private_key_here",
	"your_wallet_private_key",
	"changeme",
}

// Load reads the environment (optionally seeded from a .env file) and returns
// a fully populated configuration. It never fails.
func Load() *Config {
	// Best effort: a missing .env file is fine.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("LAUNCHPAD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := map[string]interface{}{
		"rpc_endpoint":     DefaultRPCEndpoint,
		"token_decimals":   DefaultTokenDecimals,
		"initial_supply":   DefaultInitialSupply,
		"distribution_bps": DefaultDistributionBps,
		"sol_amount":       DefaultSolAmount,
		"slippage_bps":     DefaultSlippageBps,
		"token_name":       DefaultTokenName,
		"token_symbol":     DefaultTokenSymbol,
		"token_image_uri":  DefaultTokenImageURI,
		"idl_path":         DefaultIDLPath,
		"log_level":        DefaultLogLevel,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// Bind explicitly so AutomaticEnv picks the keys up even though no config
	// file is ever read.
	for _, key := range []string{
		"rpc_endpoint", "private_key", "dev_private_key",
		"recipient_key", "recipient_key_dev",
		"token_decimals", "initial_supply", "distribution_bps",
		"sol_amount", "slippage_bps",
		"token_name", "token_symbol", "token_image_uri",
		"idl_path", "log_level",
	} {
		_ = v.BindEnv(key)
	}

	cfg := &Config{
		RPCEndpoint:     v.GetString("rpc_endpoint"),
		PrivateKey:      scrubPlaceholder(v.GetString("private_key")),
		DevPrivateKey:   scrubPlaceholder(v.GetString("dev_private_key")),
		RecipientKey:    scrubPlaceholder(v.GetString("recipient_key")),
		RecipientKeyDev: scrubPlaceholder(v.GetString("recipient_key_dev")),
		TokenDecimals:   uint8(v.GetUint("token_decimals")),
		InitialSupply:   v.GetUint64("initial_supply"),
		DistributionBps: uint16(v.GetUint("distribution_bps")),
		SolAmount:       v.GetFloat64("sol_amount"),
		SlippageBps:     uint16(v.GetUint("slippage_bps")),
		TokenName:       v.GetString("token_name"),
		TokenSymbol:     v.GetString("token_symbol"),
		TokenImageURI:   v.GetString("token_image_uri"),
		IDLPath:         v.GetString("idl_path"),
		LogLevel:        v.GetString("log_level"),
	}

	if cfg.RPCEndpoint == "" {
		cfg.RPCEndpoint = DefaultRPCEndpoint
	}
	return cfg
}

func scrubPlaceholder(value string) string {
	trimmed := strings.TrimSpace(value)
	for _, p := range placeholders {
		if strings.EqualFold(trimmed, p) {
			return ""
		}
	}
	return trimmed
}
