// Package normalize converts raw backend representations into the canonical
// values the view models are built from: monetary amounts in major currency
// units and store names in a comparable canonical form.
package normalize

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/kopeyka/receipt-service/internal/wire"
)

var hundred = decimal.NewFromInt(100)

// MinorToMajor converts an amount in minor currency units (kopecks) to major
// units (rubles). The backend contract is that every monetary field is sent
// in minor units, so the division is unconditional; no magnitude heuristics.
// Negative and non-finite inputs normalize to 0.
func MinorToMajor(minor float64) float64 {
	if math.IsNaN(minor) || math.IsInf(minor, 0) || minor < 0 {
		return 0
	}
	major, _ := decimal.NewFromFloat(minor).Div(hundred).Float64()
	return major
}

// Money converts a wire number carrying minor units into a major-unit amount.
func Money(n wire.Number) float64 {
	return MinorToMajor(n.Float64())
}

// FormatMoney renders an amount as a fixed-decimal string for display.
// Display is the only place rounding happens; stored amounts stay unrounded
// so sums do not accumulate rounding error.
func FormatMoney(amount float64, decimals int) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	return decimal.NewFromFloat(amount).StringFixed(int32(decimals))
}
