// Package moneypkg provides monetary parsing and rounding helpers.
//
// All ledger arithmetic is done with shopspring decimals and rounded to
// cent granularity using round-half-away-from-zero, so repeated postings
// never accumulate binary floating-point drift.
package moneypkg

import (
	"github.com/shopspring/decimal"
)

// Parse converts a boundary-level amount string into a decimal rounded to
// two decimal places. It rejects anything that is not a finite real number
// (including "NaN", "Inf" and empty strings).
func Parse(amount string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Decimal{}, err
	}

	return RoundCents(d), nil
}

// RoundCents rounds to two decimal places, half away from zero.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// String renders a decimal as the canonical stored form with exactly two
// decimal places.
func String(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Zero is the canonical stored form of a zero amount.
const Zero = "0.00"
