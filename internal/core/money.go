// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing signed amounts from CSV cells and
// formatting them for display with thousands separators.
package core

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// DefaultCurrencySymbol prefixes formatted amounts when no symbol is configured.
const DefaultCurrencySymbol = "$"

// ParseAmount converts a plain numeric cell to a signed decimal.
//
// Only surrounding whitespace is removed. Currency symbols, thousands
// separators and accounting parentheses are rejected: the upload must carry
// plain numbers.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("-40")    -> -40, nil
//	ParseAmount("$12.34") -> 0, error
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatMoney renders d with two decimals and thousands separators, prefixed
// by symbol. Negative values keep their sign after the symbol ("$-1,234.50").
func FormatMoney(symbol string, d decimal.Decimal) string {
	return symbol + humanize.FormatFloat("#,###.##", d.Round(2).InexactFloat64())
}

// FormatPercent renders a percentage with two decimals ("42.50%").
func FormatPercent(d decimal.Decimal) string {
	return d.StringFixed(2) + "%"
}
