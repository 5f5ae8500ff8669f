package launcher

import (
	"bytes"
	"context"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/dexforge/solana-launchpad/internal/blockchain"
	"github.com/dexforge/solana-launchpad/internal/wallet"
)

// chainReader is the read surface the launcher needs: raw account contents
// for state decoding.
type chainReader interface {
	AccountData(ctx context.Context, pubkey solana.PublicKey) ([]byte, error)
}

// txSender submits and confirms one transaction.
type txSender interface {
	Send(ctx context.Context, req *blockchain.TxRequest) (solana.Signature, error)
}

// Client drives the bonding-curve launcher program. All curve math and state
// transitions live on chain; this client only shapes requests and mirrors
// state.
type Client struct {
	client   chainReader
	sender   txSender
	wallet   *wallet.Wallet
	contract *Contract
	logger   *zap.Logger
}

func NewClient(client *blockchain.Client, w *wallet.Wallet, contract *Contract, logger *zap.Logger) *Client {
	return &Client{
		client:   client,
		sender:   blockchain.NewSender(client, logger),
		wallet:   w,
		contract: contract,
		logger:   logger.Named("launcher"),
	}
}

// InitializeConfig parameterizes a new launcher.
type InitializeConfig struct {
	Name         string
	Symbol       string
	Decimals     uint8
	InitialPrice uint64 // lamports per whole token
	MaxSupply    uint64 // base units
}

// InitializeResult reports a confirmed launcher initialization.
type InitializeResult struct {
	Mint      solana.PublicKey
	State     solana.PublicKey
	Vault     solana.PublicKey
	Signature solana.Signature
}

type initializeArgs struct {
	TokenName     string
	TokenSymbol   string
	TokenDecimals uint8
	InitialPrice  uint64
	MaxSupply     uint64
}

// Initialize creates a fresh mint under program authority together with its
// launcher state record and SOL vault, all in one transaction signed by the
// wallet and the new mint keypair.
func (c *Client) Initialize(ctx context.Context, cfg *InitializeConfig) (*InitializeResult, error) {
	mintWallet := solana.NewWallet()
	mint := mintWallet.PublicKey()

	stateAddr, _, err := StateAddress(c.contract.ProgramID, mint)
	if err != nil {
		return nil, err
	}
	vaultAddr, _, err := VaultAddress(c.contract.ProgramID, mint)
	if err != nil {
		return nil, err
	}

	data, err := c.encodeInstruction("initialize_token_launcher", initializeArgs{
		TokenName:     cfg.Name,
		TokenSymbol:   cfg.Symbol,
		TokenDecimals: cfg.Decimals,
		InitialPrice:  cfg.InitialPrice,
		MaxSupply:     cfg.MaxSupply,
	})
	if err != nil {
		return nil, err
	}

	ix := solana.NewInstruction(
		c.contract.ProgramID,
		[]*solana.AccountMeta{
			{PublicKey: c.wallet.PublicKey, IsWritable: true, IsSigner: true},
			{PublicKey: stateAddr, IsWritable: true, IsSigner: false},
			{PublicKey: mint, IsWritable: true, IsSigner: true},
			{PublicKey: vaultAddr, IsWritable: true, IsSigner: false},
			{PublicKey: solana.SystemProgramID, IsWritable: false, IsSigner: false},
			{PublicKey: solana.TokenProgramID, IsWritable: false, IsSigner: false},
			{PublicKey: solana.SysVarRentPubkey, IsWritable: false, IsSigner: false},
		},
		data,
	)

	c.logger.Info("Initializing token launcher 🚀",
		zap.String("mint", mint.String()),
		zap.String("state", stateAddr.String()),
		zap.String("name", cfg.Name),
		zap.Uint64("initial_price", cfg.InitialPrice),
		zap.Uint64("max_supply", cfg.MaxSupply))

	sig, err := c.sender.Send(ctx, &blockchain.TxRequest{
		Instructions: []solana.Instruction{ix},
		Payer:        c.wallet.PublicKey,
		Signers:      []solana.PrivateKey{c.wallet.PrivateKey, mintWallet.PrivateKey},
	})
	if err != nil {
		return nil, fmt.Errorf("launcher initialization failed: %w", err)
	}

	return &InitializeResult{
		Mint:      mint,
		State:     stateAddr,
		Vault:     vaultAddr,
		Signature: sig,
	}, nil
}

type amountArgs struct {
	Amount uint64
}

// Buy purchases tokens from the curve for solLamports. The program mints
// directly into the wallet's token account. Returns the confirmation and the
// re-fetched state snapshot.
func (c *Client) Buy(ctx context.Context, mint solana.PublicKey, solLamports uint64) (solana.Signature, *LauncherState, error) {
	stateAddr, _, err := StateAddress(c.contract.ProgramID, mint)
	if err != nil {
		return solana.Signature{}, nil, err
	}
	vaultAddr, _, err := VaultAddress(c.contract.ProgramID, mint)
	if err != nil {
		return solana.Signature{}, nil, err
	}
	buyerATA, err := c.wallet.ATA(mint)
	if err != nil {
		return solana.Signature{}, nil, fmt.Errorf("failed to derive buyer token account: %w", err)
	}

	data, err := c.encodeInstruction("buy_tokens", amountArgs{Amount: solLamports})
	if err != nil {
		return solana.Signature{}, nil, err
	}

	ix := solana.NewInstruction(
		c.contract.ProgramID,
		[]*solana.AccountMeta{
			{PublicKey: c.wallet.PublicKey, IsWritable: true, IsSigner: true},
			{PublicKey: stateAddr, IsWritable: true, IsSigner: false},
			{PublicKey: mint, IsWritable: true, IsSigner: false},
			{PublicKey: buyerATA, IsWritable: true, IsSigner: false},
			{PublicKey: vaultAddr, IsWritable: true, IsSigner: false},
			{PublicKey: solana.SystemProgramID, IsWritable: false, IsSigner: false},
			{PublicKey: solana.TokenProgramID, IsWritable: false, IsSigner: false},
			{PublicKey: solana.SPLAssociatedTokenAccountProgramID, IsWritable: false, IsSigner: false},
		},
		data,
	)

	c.logger.Info("Buying tokens",
		zap.String("mint", mint.String()),
		zap.Uint64("sol_lamports", solLamports))

	sig, err := c.sender.Send(ctx, &blockchain.TxRequest{
		Instructions: []solana.Instruction{ix},
		Payer:        c.wallet.PublicKey,
		Signers:      []solana.PrivateKey{c.wallet.PrivateKey},
	})
	if err != nil {
		return solana.Signature{}, nil, fmt.Errorf("buy failed: %w", err)
	}

	state, err := c.State(ctx, mint)
	if err != nil {
		return sig, nil, err
	}
	return sig, state, nil
}

// Sell burns tokenAmount base units back to the curve for SOL. The executed
// price carries the program's own sell discount; see SolForTokens for the
// client-side estimate.
func (c *Client) Sell(ctx context.Context, mint solana.PublicKey, tokenAmount uint64) (solana.Signature, *LauncherState, error) {
	stateAddr, _, err := StateAddress(c.contract.ProgramID, mint)
	if err != nil {
		return solana.Signature{}, nil, err
	}
	vaultAddr, _, err := VaultAddress(c.contract.ProgramID, mint)
	if err != nil {
		return solana.Signature{}, nil, err
	}
	sellerATA, err := c.wallet.ATA(mint)
	if err != nil {
		return solana.Signature{}, nil, fmt.Errorf("failed to derive seller token account: %w", err)
	}

	data, err := c.encodeInstruction("sell_tokens", amountArgs{Amount: tokenAmount})
	if err != nil {
		return solana.Signature{}, nil, err
	}

	ix := solana.NewInstruction(
		c.contract.ProgramID,
		[]*solana.AccountMeta{
			{PublicKey: c.wallet.PublicKey, IsWritable: true, IsSigner: true},
			{PublicKey: stateAddr, IsWritable: true, IsSigner: false},
			{PublicKey: mint, IsWritable: true, IsSigner: false},
			{PublicKey: sellerATA, IsWritable: true, IsSigner: false},
			{PublicKey: vaultAddr, IsWritable: true, IsSigner: false},
			{PublicKey: solana.SystemProgramID, IsWritable: false, IsSigner: false},
			{PublicKey: solana.TokenProgramID, IsWritable: false, IsSigner: false},
		},
		data,
	)

	c.logger.Info("Selling tokens",
		zap.String("mint", mint.String()),
		zap.Uint64("token_base_units", tokenAmount))

	sig, err := c.sender.Send(ctx, &blockchain.TxRequest{
		Instructions: []solana.Instruction{ix},
		Payer:        c.wallet.PublicKey,
		Signers:      []solana.PrivateKey{c.wallet.PrivateKey},
	})
	if err != nil {
		return solana.Signature{}, nil, fmt.Errorf("sell failed: %w", err)
	}

	state, err := c.State(ctx, mint)
	if err != nil {
		return sig, nil, err
	}
	return sig, state, nil
}

// Withdraw moves lamports of collected SOL from the vault to the wallet. The
// program rejects callers other than the launcher authority. Returns the
// confirmation and the re-fetched state snapshot.
func (c *Client) Withdraw(ctx context.Context, mint solana.PublicKey, lamports uint64) (solana.Signature, *LauncherState, error) {
	stateAddr, _, err := StateAddress(c.contract.ProgramID, mint)
	if err != nil {
		return solana.Signature{}, nil, err
	}
	vaultAddr, _, err := VaultAddress(c.contract.ProgramID, mint)
	if err != nil {
		return solana.Signature{}, nil, err
	}

	data, err := c.encodeInstruction("withdraw_sol", amountArgs{Amount: lamports})
	if err != nil {
		return solana.Signature{}, nil, err
	}

	ix := solana.NewInstruction(
		c.contract.ProgramID,
		[]*solana.AccountMeta{
			{PublicKey: c.wallet.PublicKey, IsWritable: true, IsSigner: true},
			{PublicKey: stateAddr, IsWritable: false, IsSigner: false},
			{PublicKey: mint, IsWritable: false, IsSigner: false},
			{PublicKey: vaultAddr, IsWritable: true, IsSigner: false},
			{PublicKey: solana.SystemProgramID, IsWritable: false, IsSigner: false},
		},
		data,
	)

	c.logger.Info("Withdrawing collected SOL",
		zap.String("mint", mint.String()),
		zap.Uint64("lamports", lamports))

	sig, err := c.sender.Send(ctx, &blockchain.TxRequest{
		Instructions: []solana.Instruction{ix},
		Payer:        c.wallet.PublicKey,
		Signers:      []solana.PrivateKey{c.wallet.PrivateKey},
	})
	if err != nil {
		return solana.Signature{}, nil, fmt.Errorf("withdraw failed: %w", err)
	}

	state, err := c.State(ctx, mint)
	if err != nil {
		return sig, nil, err
	}
	return sig, state, nil
}

func (c *Client) encodeInstruction(name string, args interface{}) ([]byte, error) {
	discriminator, err := c.contract.Discriminator(name)
	if err != nil {
		return nil, err
	}
	buf := new(bytes.Buffer)
	buf.Write(discriminator)
	if err := bin.NewBorshEncoder(buf).Encode(args); err != nil {
		return nil, fmt.Errorf("failed to encode %s args: %w", name, err)
	}
	return buf.Bytes(), nil
}
