package wallet

import (
	"encoding/json"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadFromBase58Deterministic(t *testing.T) {
	key := solana.NewWallet().PrivateKey
	encoded := base58.Encode(key)

	first, err := Load(encoded, "", zap.NewNop())
	require.NoError(t, err)
	second, err := Load(encoded, "", zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, key.PublicKey(), first.PublicKey)
	assert.Equal(t, first.PublicKey, second.PublicKey)
}

func TestLoadMalformedBase58DoesNotFallBack(t *testing.T) {
	// "0" and "l" are outside the base58 alphabet.
	w, err := Load("0lII-not-a-key", "", zap.NewNop())

	assert.Nil(t, w)
	assert.ErrorIs(t, err, ErrKeyDecode)
}

func TestLoadWrongLengthBase58(t *testing.T) {
	short := base58.Encode([]byte{1, 2, 3})

	_, err := Load(short, "", zap.NewNop())
	assert.ErrorIs(t, err, ErrKeyDecode)
}

func TestLoadFromJSONArray(t *testing.T) {
	key := solana.NewWallet().PrivateKey
	entries := make([]int, len(key))
	for i, b := range key {
		entries[i] = int(b)
	}
	encoded, err := json.Marshal(entries)
	require.NoError(t, err)

	w, err := Load("", string(encoded), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey(), w.PublicKey)
}

func TestLoadMalformedJSONArray(t *testing.T) {
	_, err := Load("", "[1,2,3]", zap.NewNop())
	assert.ErrorIs(t, err, ErrKeyDecode)

	_, err = Load("", "{not json}", zap.NewNop())
	assert.ErrorIs(t, err, ErrKeyDecode)
}

func TestLoadGeneratesEphemeralWallet(t *testing.T) {
	first, err := Load("", "", zap.NewNop())
	require.NoError(t, err)
	second, err := Load("", "", zap.NewNop())
	require.NoError(t, err)

	assert.False(t, first.PublicKey.IsZero())
	assert.NotEqual(t, first.PublicKey, second.PublicKey)
}

func TestATAMemoization(t *testing.T) {
	w := New(solana.NewWallet().PrivateKey)
	mint := solana.NewWallet().PublicKey()

	first, err := w.ATA(mint)
	require.NoError(t, err)
	second, err := w.ATA(mint)
	require.NoError(t, err)

	expected, _, err := solana.FindAssociatedTokenAddress(w.PublicKey, mint)
	require.NoError(t, err)
	assert.Equal(t, expected, first)
	assert.Equal(t, first, second)
}

func TestCreateATAIdempotentInstruction(t *testing.T) {
	payer := solana.NewWallet().PublicKey()
	owner := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()

	ix := CreateATAIdempotentInstruction(payer, owner, mint)

	assert.Equal(t, solana.SPLAssociatedTokenAccountProgramID, ix.ProgramID())
	data, err := ix.Data()
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, data)

	accounts := ix.Accounts()
	require.Len(t, accounts, 7)
	assert.Equal(t, payer, accounts[0].PublicKey)
	assert.True(t, accounts[0].IsSigner)
}
