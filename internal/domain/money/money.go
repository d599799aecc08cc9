// backend/internal/domain/money/money.go
package money

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrCurrencyMismatch = errors.New("money: currency mismatch")
	ErrInvalidQuantity  = errors.New("money: invalid quantity")
	ErrInvalidCompareAt = errors.New("money: compareAt must be greater than price")
)

// Money is an integer-cent amount with a currency code.
// All arithmetic stays in cents; nothing is ever truncated past two decimals.
type Money struct {
	Cents    int64  `json:"cents" firestore:"cents"`
	Currency string `json:"currency" firestore:"currency"`
}

// New creates a Money from integer cents.
func New(cents int64, currency string) Money {
	return Money{
		Cents:    cents,
		Currency: normalizeCurrency(currency),
	}
}

// FromDecimal creates a Money from a decimal amount (e.g. 12.345 -> 1235 cents).
// Rounding is half-away-from-zero to the nearest cent.
func FromDecimal(amount float64, currency string) Money {
	cents := int64(math.Round(amount * 100))
	return New(cents, currency)
}

// Zero returns a zero amount in the given currency.
func Zero(currency string) Money {
	return New(0, currency)
}

func (m Money) IsZero() bool {
	return m.Cents == 0
}

// SameCurrency reports whether both amounts share a currency.
// A zero amount with an empty currency is compatible with anything.
func (m Money) SameCurrency(o Money) bool {
	if m.Currency == "" || o.Currency == "" {
		return true
	}
	return m.Currency == o.Currency
}

// Add returns m + o. Mixing currencies is an error, never a silent sum.
func (m Money) Add(o Money) (Money, error) {
	if !m.SameCurrency(o) {
		return Money{}, ErrCurrencyMismatch
	}
	cur := m.Currency
	if cur == "" {
		cur = o.Currency
	}
	return Money{Cents: m.Cents + o.Cents, Currency: cur}, nil
}

// MulQty returns m * qty (line totals). qty must be >= 0.
func (m Money) MulQty(qty int) (Money, error) {
	if qty < 0 {
		return Money{}, ErrInvalidQuantity
	}
	return Money{Cents: m.Cents * int64(qty), Currency: m.Currency}, nil
}

// GreaterThan reports m > o in cents. Callers must compare same-currency amounts.
func (m Money) GreaterThan(o Money) bool {
	return m.Cents > o.Cents
}

// Decimal returns the amount as a float (display/serialization only).
func (m Money) Decimal() float64 {
	return float64(m.Cents) / 100
}

// Format renders the amount for display: "$12.34" for known symbols,
// "12.34 XXX" otherwise.
func (m Money) Format() string {
	whole := m.Cents / 100
	frac := m.Cents % 100
	if frac < 0 {
		frac = -frac
	}
	amount := fmt.Sprintf("%d.%02d", whole, frac)
	switch m.Currency {
	case "USD":
		return "$" + amount
	case "EUR":
		return "€" + amount
	case "GBP":
		return "£" + amount
	case "":
		return amount
	default:
		return amount + " " + m.Currency
	}
}

// DiscountPercent returns the rounded discount percentage implied by a
// compare-at price, and whether one applies (compareAt must exceed price).
func DiscountPercent(price Money, compareAt *Money) (int, bool) {
	if compareAt == nil || compareAt.Cents <= 0 {
		return 0, false
	}
	if !compareAt.GreaterThan(price) {
		return 0, false
	}
	pct := math.Round(float64(compareAt.Cents-price.Cents) / float64(compareAt.Cents) * 100)
	return int(pct), true
}

// ValidateCompareAt checks the compare-at invariant (compareAt > price when present).
func ValidateCompareAt(price Money, compareAt *Money) error {
	if compareAt == nil {
		return nil
	}
	if !price.SameCurrency(*compareAt) {
		return ErrCurrencyMismatch
	}
	if !compareAt.GreaterThan(price) {
		return ErrInvalidCompareAt
	}
	return nil
}

func normalizeCurrency(c string) string {
	return strings.ToUpper(strings.TrimSpace(c))
}
