package amm

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateSwapAmounts(t *testing.T) {
	// Pool with base=1000, quote=10 and 1% slippage tolerance.
	amounts := CalculateSwapAmounts(1000, 10, 100, 100)

	// out = 100*10/(1000+100) = 0
	assert.Equal(t, uint64(0), amounts.AmountOut)

	// Same ratio in base units: reserves 1000:10 scaled up, 100 units swapped in.
	amounts = CalculateSwapAmounts(1_000_000, 10_000, 100_000, 100)
	// out = 100000*10000/1100000 = 909, min = 909 - 909*100/10000 = 900
	assert.Equal(t, uint64(909), amounts.AmountOut)
	assert.Equal(t, uint64(900), amounts.MinAmountOut)
	assert.Equal(t, uint64(100_000), amounts.AmountIn)
}

func TestCalculateSwapAmountsZeroSlippage(t *testing.T) {
	amounts := CalculateSwapAmounts(1_000_000, 1_000_000, 1000, 0)
	assert.Equal(t, amounts.AmountOut, amounts.MinAmountOut)
}

// Lamport-scale reserves: the intermediate product is ~1e20, past the uint64
// ceiling.
func TestCalculateSwapAmountsLargeReserves(t *testing.T) {
	amounts := CalculateSwapAmounts(10_000_000_000, 10_000_000_000, 10_000_000_000, 100)

	// out = 1e10*1e10/2e10 = 5e9, min = 5e9 - 1% = 4.95e9
	assert.Equal(t, uint64(5_000_000_000), amounts.AmountOut)
	assert.Equal(t, uint64(4_950_000_000), amounts.MinAmountOut)
}

func TestToBaseUnits(t *testing.T) {
	assert.Equal(t, uint64(1_000_000_000), ToBaseUnits(1, 9))
	assert.Equal(t, uint64(100_000_000), ToBaseUnits(0.1, 9))
	assert.Equal(t, uint64(50_000_000), ToBaseUnits(0.05, 9))
	assert.Equal(t, uint64(123), ToBaseUnits(1.23, 2))
	assert.Equal(t, uint64(0), ToBaseUnits(0, 9))
	assert.Equal(t, uint64(0), ToBaseUnits(-1, 9))
}

// Output normalization always uses 9 decimals, matching native SOL precision,
// even when the output mint's true decimals differ.
func TestNormalizeOutputFixedNineDecimals(t *testing.T) {
	assert.Equal(t, 1.0, NormalizeOutput(1_000_000_000))
	assert.Equal(t, 0.5, NormalizeOutput(500_000_000))

	// A 6-decimal asset's base units still get divided by 1e9.
	sixDecimalUnits := uint64(1_000_000) // one whole token at 6 decimals
	assert.Equal(t, 0.001, NormalizeOutput(sixDecimalUnits))
}

func TestDerivePoolKeysDeterministic(t *testing.T) {
	market := solana.NewWallet().PublicKey()
	base := solana.NewWallet().PublicKey()

	first, err := DerivePoolKeys(market, base, WrappedSolMint, 9, 9)
	require.NoError(t, err)
	second, err := DerivePoolKeys(market, base, WrappedSolMint, 9, 9)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Authority, second.Authority)
	assert.Equal(t, first.LpMint, second.LpMint)
	assert.NotEqual(t, first.ID, first.OpenOrders)

	vault, _, err := solana.FindAssociatedTokenAddress(first.Authority, base)
	require.NoError(t, err)
	assert.Equal(t, vault, first.BaseVault)
}

func TestFindVaultOwnerDeterministic(t *testing.T) {
	market := solana.NewWallet().PublicKey()

	owner, nonce, err := findVaultOwner(market)
	require.NoError(t, err)
	assert.False(t, owner.IsZero())
	assert.Less(t, nonce, uint64(255))

	// Re-derivation with the found nonce is stable.
	again, nonceAgain, err := findVaultOwner(market)
	require.NoError(t, err)
	assert.Equal(t, owner, again)
	assert.Equal(t, nonce, nonceAgain)
}
