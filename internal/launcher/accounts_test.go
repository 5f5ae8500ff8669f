package launcher

import (
	"bytes"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testProgramID = solana.MPK("GQwwtMLV9P2ywbAqA9dAKxZjKT6NzMrwfqqFVsaCvGEF")

func TestStateAndVaultAddresses(t *testing.T) {
	mint := solana.NewWallet().PublicKey()

	state, stateBump, err := StateAddress(testProgramID, mint)
	require.NoError(t, err)
	vault, vaultBump, err := VaultAddress(testProgramID, mint)
	require.NoError(t, err)

	assert.NotEqual(t, state, vault)
	assert.False(t, state.IsZero())

	// Same mint derives the same addresses.
	stateAgain, bumpAgain, err := StateAddress(testProgramID, mint)
	require.NoError(t, err)
	assert.Equal(t, state, stateAgain)
	assert.Equal(t, stateBump, bumpAgain)
	_ = vaultBump

	// A different mint derives different addresses.
	other, _, err := StateAddress(testProgramID, solana.NewWallet().PublicKey())
	require.NoError(t, err)
	assert.NotEqual(t, state, other)
}

func TestDecodeLauncherState(t *testing.T) {
	original := LauncherState{
		Authority:     solana.NewWallet().PublicKey(),
		Mint:          solana.NewWallet().PublicKey(),
		TokenName:     "Launchpad Token",
		TokenSymbol:   "LPAD",
		TokenDecimals: 9,
		CurrentPrice:  1_000_000,
		MaxSupply:     1_000_000_000_000_000,
		TotalMinted:   42_000_000_000,
		SolCollected:  10_000_000,
		Bump:          254,
		VaultBump:     253,
	}

	buf := new(bytes.Buffer)
	buf.Write(make([]byte, accountDiscriminatorLen))
	require.NoError(t, bin.NewBorshEncoder(buf).Encode(original))

	decoded, err := decodeLauncherState(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, original, *decoded)
}

func TestDecodeLauncherStateTooShort(t *testing.T) {
	_, err := decodeLauncherState([]byte{1, 2, 3})
	assert.Error(t, err)

	_, err = decodeLauncherState(make([]byte, accountDiscriminatorLen))
	assert.Error(t, err)
}

func TestDecodeLauncherStateGarbage(t *testing.T) {
	// Payload too short for even the first fixed-size field.
	raw := make([]byte, accountDiscriminatorLen+4)

	_, err := decodeLauncherState(raw)
	assert.Error(t, err)
}
