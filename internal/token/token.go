package token

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dexforge/solana-launchpad/internal/blockchain"
	"github.com/dexforge/solana-launchpad/internal/wallet"
)

var (
	// ErrNoMint means metadata or distribution was requested before a token
	// was created in this session.
	ErrNoMint = errors.New("no token created in this session")

	// ErrInvalidAmount means a computed transfer amount resolved to zero.
	ErrInvalidAmount = errors.New("computed transfer amount is zero")
)

// chainReader is the read-only RPC surface the session needs.
type chainReader interface {
	MinimumBalanceForRentExemption(ctx context.Context, dataSize uint64) (uint64, error)
	TokenAccountBalance(ctx context.Context, account solana.PublicKey) (uint64, error)
	Balance(ctx context.Context, pubkey solana.PublicKey) (uint64, error)
}

// Session wraps the SPL token operations of one issuance run. The mint
// created by CreateToken is remembered on the session value, so parallel
// sessions never collide.
type Session struct {
	client chainReader
	sender *blockchain.Sender
	payer  *wallet.Wallet
	logger *zap.Logger

	mint     solana.PublicKey
	decimals uint8
}

func NewSession(client *blockchain.Client, payer *wallet.Wallet, logger *zap.Logger) *Session {
	return &Session{
		client: client,
		sender: blockchain.NewSender(client, logger),
		payer:  payer,
		logger: logger.Named("token"),
	}
}

// Mint returns the mint created by this session, or a zero key before
// CreateToken has run.
func (s *Session) Mint() solana.PublicKey {
	return s.mint
}

// Decimals returns the decimal precision of the session's mint.
func (s *Session) Decimals() uint8 {
	return s.decimals
}

// CreateToken creates a new SPL mint under the payer's exclusive authority,
// opens the payer's associated token account and mints
// initialSupply * 10^decimals base units into it, all in one transaction.
func (s *Session) CreateToken(ctx context.Context, decimals uint8, initialSupply uint64) (solana.PublicKey, error) {
	mintWallet := solana.NewWallet()
	mintPub := mintWallet.PublicKey()

	rent, err := s.client.MinimumBalanceForRentExemption(ctx, token.MINT_SIZE)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to get mint rent: %w", err)
	}

	payerATA, err := s.payer.ATA(mintPub)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive payer ATA: %w", err)
	}

	supplyBaseUnits := initialSupply * pow10(decimals)

	instructions := []solana.Instruction{
		system.NewCreateAccountInstruction(
			rent,
			token.MINT_SIZE,
			solana.TokenProgramID,
			s.payer.PublicKey,
			mintPub,
		).Build(),
		token.NewInitializeMintInstruction(
			decimals,
			s.payer.PublicKey,
			s.payer.PublicKey,
			mintPub,
			solana.SysVarRentPubkey,
		).Build(),
		associatedtokenaccount.NewCreateInstruction(
			s.payer.PublicKey,
			s.payer.PublicKey,
			mintPub,
		).Build(),
		token.NewMintToInstruction(
			supplyBaseUnits,
			mintPub,
			payerATA,
			s.payer.PublicKey,
			nil,
		).Build(),
	}

	s.logger.Info("Creating token",
		zap.String("mint", mintPub.String()),
		zap.Uint8("decimals", decimals),
		zap.Uint64("initial_supply", initialSupply))

	sig, err := s.sender.Send(ctx, &blockchain.TxRequest{
		Instructions: instructions,
		Payer:        s.payer.PublicKey,
		Signers:      []solana.PrivateKey{s.payer.PrivateKey, mintWallet.PrivateKey},
	})
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("token creation failed: %w", err)
	}

	s.mint = mintPub
	s.decimals = decimals

	s.logger.Info("Token created",
		zap.String("mint", mintPub.String()),
		zap.String("signature", sig.String()))
	return mintPub, nil
}

// Distribution reports what DistributeTokensAndSol actually moved.
type Distribution struct {
	Recipient    solana.PublicKey
	RecipientATA solana.PublicKey
	TokenAmount  float64 // human units
	SolAmount    float64
	Signature    solana.Signature
}

// DistributeTokensAndSol transfers floor(balance*bps/10000) tokens plus
// solAmount SOL to the recipient. Both transfers ride in one transaction, so
// they land or fail together.
func (s *Session) DistributeTokensAndSol(ctx context.Context, bps uint16, solAmount float64, recipient solana.PublicKey) (*Distribution, error) {
	if s.mint.IsZero() {
		return nil, ErrNoMint
	}

	payerATA, err := s.payer.ATA(s.mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive payer ATA: %w", err)
	}

	balance, err := s.client.TokenAccountBalance(ctx, payerATA)
	if err != nil {
		return nil, fmt.Errorf("failed to read payer token balance: %w", err)
	}

	amount := TransferAmount(balance, bps)
	if amount == 0 {
		return nil, fmt.Errorf("%w: balance=%d bps=%d", ErrInvalidAmount, balance, bps)
	}

	recipientATA, _, err := solana.FindAssociatedTokenAddress(recipient, s.mint)
	if err != nil {
		return nil, fmt.Errorf("failed to derive recipient ATA: %w", err)
	}

	lamports := SolToLamports(solAmount)

	instructions := []solana.Instruction{
		wallet.CreateATAIdempotentInstruction(s.payer.PublicKey, recipient, s.mint),
		token.NewTransferInstruction(
			amount,
			payerATA,
			recipientATA,
			s.payer.PublicKey,
			nil,
		).Build(),
	}
	if lamports > 0 {
		instructions = append(instructions,
			system.NewTransferInstruction(lamports, s.payer.PublicKey, recipient).Build())
	}

	s.logger.Info("Distributing tokens and SOL",
		zap.Uint16("bps", bps),
		zap.Uint64("token_base_units", amount),
		zap.Float64("sol", solAmount),
		zap.String("recipient", recipient.String()))

	sig, err := s.sender.Send(ctx, &blockchain.TxRequest{
		Instructions: instructions,
		Payer:        s.payer.PublicKey,
		Signers:      []solana.PrivateKey{s.payer.PrivateKey},
	})
	if err != nil {
		return nil, fmt.Errorf("distribution failed: %w", err)
	}

	return &Distribution{
		Recipient:    recipient,
		RecipientATA: recipientATA,
		TokenAmount:  float64(amount) / math.Pow10(int(s.decimals)),
		SolAmount:    solAmount,
		Signature:    sig,
	}, nil
}

// Balances is a point-in-time snapshot of one account's holdings.
type Balances struct {
	Sol   float64
	Token float64
}

// AccountBalances returns the SOL balance of owner and, when a mint is given,
// the owner's token balance. A missing holding account reads as zero, not as
// an error. The two reads run in parallel; neither mutates anything.
func (s *Session) AccountBalances(ctx context.Context, owner solana.PublicKey, mint *solana.PublicKey) (*Balances, error) {
	balances := &Balances{}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		lamports, err := s.client.Balance(gctx, owner)
		if err != nil {
			return fmt.Errorf("failed to get SOL balance: %w", err)
		}
		balances.Sol = float64(lamports) / math.Pow10(9)
		return nil
	})

	if mint != nil {
		m := *mint
		g.Go(func() error {
			ata, _, err := solana.FindAssociatedTokenAddress(owner, m)
			if err != nil {
				return fmt.Errorf("failed to derive ATA: %w", err)
			}
			raw, err := s.client.TokenAccountBalance(gctx, ata)
			if err != nil {
				if blockchain.IsAccountNotFoundError(err) {
					balances.Token = 0
					return nil
				}
				return fmt.Errorf("failed to get token balance: %w", err)
			}
			balances.Token = float64(raw) / math.Pow10(int(s.decimals))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return balances, nil
}

func pow10(decimals uint8) uint64 {
	result := uint64(1)
	for i := uint8(0); i < decimals; i++ {
		result *= 10
	}
	return result
}
