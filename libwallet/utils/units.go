package utils

import (
	"math/big"
)

// VoteDecimals is the number of decimals of governance token amounts.
const VoteDecimals = 18

var weiPerUnit = new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(VoteDecimals), nil))

// ScaledToFloat converts a 10^18 scaled integer into its display value. A nil
// value converts to zero.
func ScaledToFloat(v *big.Int) float64 {
	if v == nil {
		return 0
	}
	f := new(big.Float).SetInt(v)
	f.Quo(f, weiPerUnit)
	out, _ := f.Float64()
	return out
}

// IsPositive reports whether v is non-nil and greater than zero.
func IsPositive(v *big.Int) bool {
	return v != nil && v.Sign() > 0
}
