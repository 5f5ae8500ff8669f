package amm

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildInitializeMarketInstruction(t *testing.T) {
	params := &MarketParams{
		BaseMint:     solana.NewWallet().PublicKey(),
		QuoteMint:    WrappedSolMint,
		BaseLotSize:  1_000_000,
		QuoteLotSize: 10_000,
		TickSize:     100,
		FeeRateBps:   150,
	}
	market := solana.NewWallet().PublicKey()

	ix := buildInitializeMarketInstruction(params, market,
		solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey(),
		solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey(),
		solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey(), 3)

	assert.Equal(t, OpenBookProgramID, ix.ProgramID())

	data, err := ix.Data()
	require.NoError(t, err)
	require.Len(t, data, 39)
	assert.Equal(t, byte(0), data[0])
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(data[1:5]))
	assert.Equal(t, uint64(1_000_000), binary.LittleEndian.Uint64(data[5:13]))
	assert.Equal(t, uint64(10_000), binary.LittleEndian.Uint64(data[13:21]))
	assert.Equal(t, uint16(150), binary.LittleEndian.Uint16(data[21:23]))
	assert.Equal(t, uint64(3), binary.LittleEndian.Uint64(data[23:31]))
	assert.Equal(t, uint64(100), binary.LittleEndian.Uint64(data[31:39]))

	accounts := ix.Accounts()
	require.Len(t, accounts, 10)
	assert.Equal(t, market, accounts[0].PublicKey)
	assert.True(t, accounts[0].IsWritable)
	assert.Equal(t, solana.SysVarRentPubkey, accounts[9].PublicKey)
}

func TestBuildSwapInstruction(t *testing.T) {
	keys, err := DerivePoolKeys(solana.NewWallet().PublicKey(),
		solana.NewWallet().PublicKey(), WrappedSolMint, 9, 9)
	require.NoError(t, err)

	user := solana.NewWallet().PublicKey()
	ix := buildSwapInstruction(keys, user,
		solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey(),
		&SwapAmounts{AmountIn: 5_000_000, AmountOut: 900, MinAmountOut: 891})

	assert.Equal(t, RaydiumV4ProgramID, ix.ProgramID())

	data, err := ix.Data()
	require.NoError(t, err)
	require.Len(t, data, 17)
	assert.Equal(t, ixSwapBaseIn, data[0])
	assert.Equal(t, uint64(5_000_000), binary.LittleEndian.Uint64(data[1:9]))
	assert.Equal(t, uint64(891), binary.LittleEndian.Uint64(data[9:17]))

	accounts := ix.Accounts()
	require.Len(t, accounts, 12)
	assert.Equal(t, user, accounts[11].PublicKey)
	assert.True(t, accounts[11].IsSigner)
}
