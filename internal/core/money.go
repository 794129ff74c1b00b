// Package core provides the ledger domain types and money handling.
//
// Amounts are stored as integer cents. Parsing and display go through
// shopspring/decimal so that "12.5", "12,50" and "12.499" all land on a
// well-defined number of cents.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

const maxExponent = 18

// ParseAmount converts a user-typed decimal string to Money.
//
// It accepts dot or comma as decimal separator and rounds half away from zero
// on the third decimal place. Zero is a valid amount (a user may have spent
// nothing on a bill); negative values and garbage are rejected.
//
// Examples:
//
//	ParseAmount("12.34")  -> 1234 cents
//	ParseAmount("12,34")  -> 1234 cents
//	ParseAmount("12.345") -> 1235 cents
//	ParseAmount("0")      -> 0 cents
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	if d.IsNegative() {
		return Money{}, ErrInvalidAmount
	}
	// Rescaling an extreme exponent ("1e-20000000") allocates and loops for
	// minutes. Nothing typed into a bill field needs more than this.
	if e := d.Exponent(); e < -maxExponent || e > maxExponent {
		return Money{}, ErrInvalidAmount
	}
	cents := d.Shift(2).Round(0)
	// Prevent overflow when converting to int64
	if cents.GreaterThan(decimal.NewFromInt(1<<62)) {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents.IntPart()}, nil
}

// FromUnits builds Money from a whole-unit amount, e.g. FromUnits(-7).
func FromUnits(units int64) Money {
	return Money{Cents: units * 100}
}

func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }
func (m Money) Sub(o Money) Money { return Money{Cents: m.Cents - o.Cents} }
func (m Money) Neg() Money        { return Money{Cents: -m.Cents} }

func (m Money) Abs() Money {
	if m.Cents < 0 {
		return m.Neg()
	}
	return m
}

// Decimal returns the amount in units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String renders the amount as a plain decimal without trailing zeros
// ("7", "12.5", "-3.25"). No currency symbol or grouping is applied.
func (m Money) String() string {
	return m.Decimal().String()
}
