// Package money rounds monetary amounts to a currency's minor unit.
package money

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Round rounds amount half-up (away from zero) to the given number of decimals.
func Round(amount float64, places int32) float64 {
	return decimal.NewFromFloat(amount).Round(places).InexactFloat64()
}

// PercentageOf returns amount * percentage / 100 rounded half-up to places.
func PercentageOf(amount, percentage float64, places int32) float64 {
	return decimal.NewFromFloat(amount).
		Mul(decimal.NewFromFloat(percentage)).
		Div(hundred).
		Round(places).
		InexactFloat64()
}
