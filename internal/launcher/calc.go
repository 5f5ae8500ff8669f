package launcher

import (
	"github.com/shopspring/decimal"
)

// sellHaircut mirrors the program's sell-side discount: sellers receive 90%
// of the spot conversion. The estimate diverges from execution if the program
// ever changes its discount, so treat results as advisory.
var sellHaircut = decimal.NewFromFloat(0.9)

// TokensForSol estimates the token base units a buy of solLamports yields at
// the snapshot's current price: floor(sol * 10^decimals / price). The result
// is clamped to the remaining mintable supply, since the program rejects buys
// past max supply.
func TokensForSol(state *LauncherState, solLamports uint64) uint64 {
	if state.CurrentPrice == 0 {
		return 0
	}
	tokens := decimal.NewFromUint64(solLamports).
		Shift(int32(state.TokenDecimals)).
		Div(decimal.NewFromUint64(state.CurrentPrice)).
		Floor().
		BigInt().
		Uint64()

	if state.TotalMinted >= state.MaxSupply {
		return 0
	}
	if remaining := state.MaxSupply - state.TotalMinted; tokens > remaining {
		return remaining
	}
	return tokens
}

// SolForTokens estimates the lamports a sell of tokenAmount base units
// returns at the snapshot's current price, after the program's 10% haircut:
// floor(tokens * price / 10^decimals * 0.9).
func SolForTokens(state *LauncherState, tokenAmount uint64) uint64 {
	return decimal.NewFromUint64(tokenAmount).
		Mul(decimal.NewFromUint64(state.CurrentPrice)).
		Shift(-int32(state.TokenDecimals)).
		Mul(sellHaircut).
		Floor().
		BigInt().
		Uint64()
}
