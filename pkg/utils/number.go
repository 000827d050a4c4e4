package utils

import (
	"math"

	"github.com/shopspring/decimal"
)

// RoundWithTwoDecimalPlace arredonda para duas casas, metade para longe do zero.
// NaN e infinitos viram 0.
func RoundWithTwoDecimalPlace(f float64) float64 {
	if f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}

	return decimal.NewFromFloat(f).Round(2).InexactFloat64()
}
