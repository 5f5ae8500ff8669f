package amm

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// SwapAmounts carries the computed legs of a fixed-input swap.
type SwapAmounts struct {
	AmountIn     uint64
	AmountOut    uint64
	MinAmountOut uint64
}

// CalculateSwapAmounts computes the constant-product output for a fixed input
// and the minimum acceptable output after discounting by slippageBps. The
// intermediate product amountIn*outputReserve exceeds uint64 at lamport-scale
// reserves, so it goes through big.Int.
func CalculateSwapAmounts(inputReserve, outputReserve, amountIn uint64, slippageBps uint16) *SwapAmounts {
	numerator := new(big.Int).Mul(
		new(big.Int).SetUint64(amountIn),
		new(big.Int).SetUint64(outputReserve),
	)
	denominator := new(big.Int).Add(
		new(big.Int).SetUint64(inputReserve),
		new(big.Int).SetUint64(amountIn),
	)
	amountOut := numerator.Div(numerator, denominator).Uint64()

	slippage := new(big.Int).Mul(
		new(big.Int).SetUint64(amountOut),
		big.NewInt(int64(slippageBps)),
	)
	minAmountOut := amountOut - slippage.Div(slippage, big.NewInt(10000)).Uint64()

	return &SwapAmounts{
		AmountIn:     amountIn,
		AmountOut:    amountOut,
		MinAmountOut: minAmountOut,
	}
}

// ToBaseUnits scales a human-unit amount by 10^decimals, flooring. Decimal
// arithmetic avoids float drift on amounts like 0.1.
func ToBaseUnits(amount float64, decimals uint8) uint64 {
	if amount <= 0 {
		return 0
	}
	return decimal.NewFromFloat(amount).Shift(int32(decimals)).Floor().BigInt().Uint64()
}

// NormalizeOutput converts a raw output amount to human units using native
// SOL precision (9 decimals) regardless of the output mint's true decimals.
// This matches the original client behavior and is asserted by tests; callers
// swapping into non-9-decimal mints get a scaled value.
func NormalizeOutput(raw uint64) float64 {
	return float64(raw) / math.Pow10(solDecimals)
}
