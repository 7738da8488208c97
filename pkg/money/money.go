// Package money parses and formats shop currency amounts.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

var (
	// ErrNegative is returned by ParseAmount for values below zero.
	ErrNegative = errors.New("amount must not be negative")

	// ErrTooLarge is returned by ParseAmount for values that do not fit a
	// decimal(12,2) column.
	ErrTooLarge = errors.New("amount is too large")
)

// MaxAmount is the largest value a decimal(12,2) column holds.
var MaxAmount = decimal.RequireFromString("9999999999.99")

// Formatter renders amounts as "LAK 1,234.00".
type Formatter struct {
	ac accounting.Accounting
}

func NewFormatter(symbol string) *Formatter {
	return &Formatter{ac: accounting.Accounting{
		Symbol:    symbol + " ",
		Precision: 2,
		Thousand:  ",",
		Decimal:   ".",
	}}
}

// Format accepts decimal.Decimal, float64 or int.
func (f *Formatter) Format(v interface{}) string {
	switch x := v.(type) {
	case decimal.Decimal:
		return f.ac.FormatMoneyDecimal(x)
	case float64:
		return f.ac.FormatMoneyDecimal(decimal.NewFromFloat(x))
	case int:
		return f.ac.FormatMoneyDecimal(decimal.NewFromInt(int64(x)))
	default:
		return fmt.Sprint(v)
	}
}

// ParseAmount parses a non-negative amount. Blank input yields zero; thousands
// separators are tolerated.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q is not a number", s)
	}
	if d.IsNegative() {
		return decimal.Zero, ErrNegative
	}
	if d.GreaterThan(MaxAmount) {
		return decimal.Zero, ErrTooLarge
	}
	return d, nil
}
