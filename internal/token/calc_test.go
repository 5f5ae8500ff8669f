package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransferAmount(t *testing.T) {
	tests := []struct {
		name    string
		balance uint64
		bps     uint16
		want    uint64
	}{
		{"twenty percent of a million", 1_000_000, 2000, 200_000},
		{"full balance", 1_000_000, 10000, 1_000_000},
		{"floors fractional result", 3, 1, 0},
		{"single bps of large balance", 1_000_000_000_000_000_000, 1, 100_000_000_000_000},
		{"zero balance", 0, 5000, 0},
		{"odd balance floors", 999, 3333, 332}, // 999*3333/10000 = 332.9667
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TransferAmount(tt.balance, tt.bps))
		})
	}
}

func TestTransferAmountDistributionScenario(t *testing.T) {
	// 1,000,000 tokens at 9 decimals, 2000 bps distributed.
	balance := uint64(1_000_000) * 1_000_000_000
	amount := TransferAmount(balance, 2000)

	assert.Equal(t, uint64(200_000)*1_000_000_000, amount)
	assert.Equal(t, 200_000.0, float64(amount)/1e9)
}

func TestSolToLamports(t *testing.T) {
	assert.Equal(t, uint64(50_000_000), SolToLamports(0.05))
	assert.Equal(t, uint64(1_000_000_000), SolToLamports(1))
	assert.Equal(t, uint64(100_000_000), SolToLamports(0.1))
	assert.Equal(t, uint64(0), SolToLamports(0))
	assert.Equal(t, uint64(1), SolToLamports(0.000000001))
}
