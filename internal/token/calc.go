package token

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// TransferAmount computes floor(balance * bps / 10000) in base units.
// Decimal arithmetic keeps the intermediate product exact even for balances
// near the uint64 ceiling.
func TransferAmount(balance uint64, bps uint16) uint64 {
	amount := decimal.NewFromBigInt(new(big.Int).SetUint64(balance), 0).
		Mul(decimal.NewFromInt(int64(bps))).
		Div(decimal.NewFromInt(10000)).
		Floor()
	return amount.BigInt().Uint64()
}

// SolToLamports converts a human SOL amount to lamports, flooring.
func SolToLamports(sol float64) uint64 {
	if sol <= 0 {
		return 0
	}
	return decimal.NewFromFloat(sol).Shift(9).Floor().BigInt().Uint64()
}
