// Package currencyutils parses the currency-prefixed amounts found in
// brokerage exports ("$-12.34", "-$1,250.00") into decimals.
package currencyutils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrEmptyAmount is returned when nothing numeric is left after stripping.
var ErrEmptyAmount = errors.New("empty amount")

// symbols are checked in order; multi-character codes come first.
var symbols = []string{"CHF", "USD", "$", "€", "£", "¥"}

// StripCurrencySymbol removes surrounding spaces, one leading currency symbol
// and comma thousands separators. A sign written before the symbol is kept,
// so "-$4.50" and "$-4.50" both become "-4.50".
func StripCurrencySymbol(s string) string {
	s = strings.TrimSpace(s)

	sign := ""
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		sign, s = s[:1], s[1:]
	}

	for _, sym := range symbols {
		if strings.HasPrefix(s, sym) {
			s = strings.TrimPrefix(s, sym)
			break
		}
	}

	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return ""
	}
	if sign == "+" {
		return s
	}
	return sign + s
}

// ParseCurrency strips the currency symbol from s and parses the rest.
// The returned decimal keeps the scale written in the input ("4.50" has two
// decimal places).
func ParseCurrency(s string) (decimal.Decimal, error) {
	stripped := StripCurrencySymbol(s)
	if stripped == "" || stripped == "-" {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", s, ErrEmptyAmount)
	}

	amount, err := decimal.NewFromString(stripped)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", s, err)
	}
	return amount, nil
}
