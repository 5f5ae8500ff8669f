package token

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dexforge/solana-launchpad/internal/wallet"
)

type fakeReader struct {
	solBalance   uint64
	solErr       error
	tokenBalance uint64
	tokenErr     error
}

func (f *fakeReader) MinimumBalanceForRentExemption(context.Context, uint64) (uint64, error) {
	return 0, nil
}

func (f *fakeReader) TokenAccountBalance(context.Context, solana.PublicKey) (uint64, error) {
	return f.tokenBalance, f.tokenErr
}

func (f *fakeReader) Balance(context.Context, solana.PublicKey) (uint64, error) {
	return f.solBalance, f.solErr
}

func testSession(reader *fakeReader) *Session {
	return &Session{
		client:   reader,
		payer:    wallet.New(solana.NewWallet().PrivateKey),
		logger:   zap.NewNop(),
		mint:     solana.NewWallet().PublicKey(),
		decimals: 9,
	}
}

func TestDistributeFailsOnZeroComputedAmount(t *testing.T) {
	// Balance 3 at 1 bps floors to 0; the call must fail before anything is
	// sent.
	s := testSession(&fakeReader{tokenBalance: 3})

	dist, err := s.DistributeTokensAndSol(context.Background(), 1, 0.05, solana.NewWallet().PublicKey())

	assert.Nil(t, dist)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestDistributeRequiresMint(t *testing.T) {
	s := testSession(&fakeReader{tokenBalance: 1_000_000})
	s.mint = solana.PublicKey{}

	_, err := s.DistributeTokensAndSol(context.Background(), 2000, 0.05, solana.NewWallet().PublicKey())
	assert.ErrorIs(t, err, ErrNoMint)
}

func TestAccountBalancesMissingHoldingAccountReadsZero(t *testing.T) {
	// The canonical getTokenAccountBalance failure for a nonexistent account.
	s := testSession(&fakeReader{
		solBalance: 2_000_000_000,
		tokenErr:   errors.New("Invalid param: could not find account"),
	})
	mint := s.mint

	balances, err := s.AccountBalances(context.Background(), s.payer.PublicKey, &mint)

	require.NoError(t, err)
	assert.Equal(t, 2.0, balances.Sol)
	assert.Equal(t, 0.0, balances.Token)
}

func TestAccountBalancesScalesByDecimals(t *testing.T) {
	s := testSession(&fakeReader{
		solBalance:   500_000_000,
		tokenBalance: 5_000_000_000,
	})
	mint := s.mint

	balances, err := s.AccountBalances(context.Background(), s.payer.PublicKey, &mint)

	require.NoError(t, err)
	assert.Equal(t, 0.5, balances.Sol)
	assert.Equal(t, 5.0, balances.Token)
}

func TestAccountBalancesPropagatesOtherTokenErrors(t *testing.T) {
	s := testSession(&fakeReader{
		solBalance: 1_000_000_000,
		tokenErr:   errors.New("connection refused"),
	})
	mint := s.mint

	_, err := s.AccountBalances(context.Background(), s.payer.PublicKey, &mint)
	assert.Error(t, err)
}

func TestAccountBalancesWithoutMint(t *testing.T) {
	s := testSession(&fakeReader{
		solBalance: 3_000_000_000,
		tokenErr:   errors.New("should not be called"),
	})

	balances, err := s.AccountBalances(context.Background(), s.payer.PublicKey, nil)

	require.NoError(t, err)
	assert.Equal(t, 3.0, balances.Sol)
	assert.Equal(t, 0.0, balances.Token)
}
