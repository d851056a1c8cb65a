// Package core holds the temple point-of-sale domain: receipts, poojas,
// users, money in paise and civil dates.
package core

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount in paise.
type Money struct {
	Cents int64
}

// Rupees builds Money from a whole rupee amount.
func Rupees(r int64) Money {
	return Money{Cents: r * 100}
}

// ParseMoney parses a rupee amount such as "500", "1,500.50" or "₹25000".
// Grouping commas are ignored and the value is rounded half away from zero
// to paise. Negative amounts are rejected.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "₹")
	s = strings.TrimPrefix(s, "Rs.")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, Invalid("amount", "is required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, Invalid("amount", "is not a number")
	}
	return FromDecimal(d)
}

// FromDecimal converts a rupee decimal to Money.
func FromDecimal(d decimal.Decimal) (Money, error) {
	if d.IsNegative() {
		return Money{}, Invalid("amount", "must be zero or more")
	}
	paise := d.Round(2).Shift(2)
	if !paise.IsInteger() || paise.GreaterThan(decimal.NewFromInt(1<<53)) {
		return Money{}, Invalid("amount", "is out of range")
	}
	return Money{Cents: paise.IntPart()}, nil
}

// Decimal returns the amount in rupees.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

func (m Money) IsZero() bool {
	return m.Cents == 0
}

// String renders rupees with two decimals, e.g. "500.00".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// MarshalJSON writes the rupee amount as a JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal().String()), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string.
func (m *Money) UnmarshalJSON(b []byte) error {
	var raw any
	dec := json.NewDecoder(strings.NewReader(string(b)))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	var parsed Money
	var err error
	switch v := raw.(type) {
	case json.Number:
		parsed, err = ParseMoney(v.String())
	case string:
		parsed, err = ParseMoney(v)
	case nil:
		parsed = Money{}
	default:
		return fmt.Errorf("amount: unsupported JSON value %s", string(b))
	}
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
