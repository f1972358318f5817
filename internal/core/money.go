// Package core holds the domain entities of the finance tracker: Money,
// Operation and MonthlyFinanceSummary. Construction is the single validation
// gate for every entity; no instance that violates an invariant can exist.
package core

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is used wherever a monetary value enters the domain
// without an explicit currency code.
const DefaultCurrency = "BRL"

var (
	ErrNegativeAmount   = errors.New("amount cannot be negative")
	ErrCurrencyMismatch = errors.New("currency mismatch")
)

// Money is an immutable monetary value with its currency code.
// Arithmetic returns new instances; the zero value is 0.00 with an empty
// currency and should not be used directly, use NewMoney or Zero.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

// NewMoney builds a Money value. An empty currency falls back to
// DefaultCurrency. Negative amounts are rejected.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if currency == "" {
		currency = DefaultCurrency
	}
	if amount.IsNegative() {
		return Money{}, ErrNegativeAmount
	}
	return Money{Amount: amount, Currency: currency}, nil
}

// NewMoneyFromString parses a decimal string such as "123.45".
func NewMoneyFromString(amount, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	return NewMoney(d, currency)
}

// Zero returns a zero amount in the given currency.
func Zero(currency string) Money {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{Amount: decimal.Zero, Currency: currency}
}

// Add returns the sum of m and other. Both operands must carry the same
// currency.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

// Subtract returns m minus other. It fails on currency mismatch and when the
// result would be negative; callers that need the spendable remainder compare
// with GreaterThan first.
func (m Money) Subtract(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	diff := m.Amount.Sub(other.Amount)
	if diff.IsNegative() {
		return Money{}, ErrNegativeAmount
	}
	return Money{Amount: diff, Currency: m.Currency}, nil
}

// GreaterThan reports whether m exceeds other. Currencies must match.
func (m Money) GreaterThan(other Money) (bool, error) {
	if m.Currency != other.Currency {
		return false, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	return m.Amount.GreaterThan(other.Amount), nil
}

// Equal reports value equality: same currency and numerically equal amount.
func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// Format renders the value for display, e.g. "R$ 1234.56".
func (m Money) Format() string {
	symbol := m.Currency
	if m.Currency == "BRL" {
		symbol = "R$"
	}
	return symbol + " " + m.Amount.StringFixed(2)
}
