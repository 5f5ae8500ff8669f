package wallet

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"go.uber.org/zap"
)

// ErrKeyDecode marks key material that was supplied but cannot be decoded.
// The loader never silently falls back past a malformed value: the operator
// has to fix their configuration.
var ErrKeyDecode = errors.New("malformed key material")

const secretKeyLen = 64

// Wallet holds a Solana keypair and a cache of derived token accounts.
type Wallet struct {
	PrivateKey solana.PrivateKey
	PublicKey  solana.PublicKey
	ataCache   map[string]solana.PublicKey
}

// Load resolves a keypair from the two optional encoded forms. The base58
// form wins, the JSON byte-array form is the development fallback, and when
// neither is supplied a fresh ephemeral keypair is generated.
func Load(base58Secret, jsonSecret string, logger *zap.Logger) (*Wallet, error) {
	if base58Secret != "" {
		w, err := FromBase58(base58Secret)
		if err != nil {
			return nil, err
		}
		logger.Info("Loaded wallet from base58 secret",
			zap.String("address", w.PublicKey.String()))
		return w, nil
	}

	if jsonSecret != "" {
		w, err := FromJSONArray(jsonSecret)
		if err != nil {
			return nil, err
		}
		logger.Info("Loaded wallet from JSON secret",
			zap.String("address", w.PublicKey.String()))
		return w, nil
	}

	w := New(solana.NewWallet().PrivateKey)
	logger.Warn("No key material supplied, generated an ephemeral wallet",
		zap.String("address", w.PublicKey.String()))
	return w, nil
}

// New wraps an already-decoded private key.
func New(key solana.PrivateKey) *Wallet {
	return &Wallet{
		PrivateKey: key,
		PublicKey:  key.PublicKey(),
		ataCache:   make(map[string]solana.PublicKey),
	}
}

// FromBase58 decodes a base58-encoded 64-byte secret key.
func FromBase58(encoded string) (*Wallet, error) {
	raw, err := base58.Decode(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base58: %v", ErrKeyDecode, err)
	}
	if len(raw) != secretKeyLen {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrKeyDecode, secretKeyLen, len(raw))
	}
	return New(solana.PrivateKey(raw)), nil
}

// FromJSONArray decodes the JSON byte-array format written by solana-keygen,
// e.g. "[12,34,...]" with exactly 64 entries.
func FromJSONArray(encoded string) (*Wallet, error) {
	var raw []byte
	if err := json.Unmarshal([]byte(encoded), &raw); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON byte array: %v", ErrKeyDecode, err)
	}
	if len(raw) != secretKeyLen {
		return nil, fmt.Errorf("%w: expected %d entries, got %d", ErrKeyDecode, secretKeyLen, len(raw))
	}
	return New(solana.PrivateKey(raw)), nil
}

// SignTransaction signs tx with this wallet's private key.
func (w *Wallet) SignTransaction(tx *solana.Transaction) error {
	_, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(w.PublicKey) {
			return &w.PrivateKey
		}
		return nil
	})
	return err
}

// ATA returns the associated token account address for the given mint,
// memoizing the derivation.
func (w *Wallet) ATA(mint solana.PublicKey) (solana.PublicKey, error) {
	mintStr := mint.String()
	if ata, ok := w.ataCache[mintStr]; ok {
		return ata, nil
	}
	ata, _, err := solana.FindAssociatedTokenAddress(w.PublicKey, mint)
	if err != nil {
		return solana.PublicKey{}, err
	}
	w.ataCache[mintStr] = ata
	return ata, nil
}

// CreateATAIdempotentInstruction builds a create-associated-token-account
// instruction that is a no-op when the account already exists.
func CreateATAIdempotentInstruction(payer, owner, mint solana.PublicKey) solana.Instruction {
	associatedTokenProgramID := solana.SPLAssociatedTokenAccountProgramID

	ata, _, _ := solana.FindAssociatedTokenAddress(owner, mint)

	return solana.NewInstruction(
		associatedTokenProgramID,
		[]*solana.AccountMeta{
			{PublicKey: payer, IsWritable: true, IsSigner: true},
			{PublicKey: ata, IsWritable: true, IsSigner: false},
			{PublicKey: owner, IsWritable: false, IsSigner: false},
			{PublicKey: mint, IsWritable: false, IsSigner: false},
			{PublicKey: solana.SystemProgramID, IsWritable: false, IsSigner: false},
			{PublicKey: solana.TokenProgramID, IsWritable: false, IsSigner: false},
			{PublicKey: solana.SysVarRentPubkey, IsWritable: false, IsSigner: false},
		},
		[]byte{1}, // instruction code 1: create idempotent
	)
}

func (w *Wallet) String() string {
	return w.PublicKey.String()
}
