// Package core provides the line item model and its parsing helpers.
//
// This file contains the parsing of dates and monetary amounts as they
// appear in the source spreadsheet.
package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the day-month-year layout of the Date column. Day and month
// may be written with or without a leading zero.
const DateLayout = "2-1-2006"

// ParseDate parses a day-month-year date such as "15-10-2023".
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrMissingField
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// ParseAmount converts an amount cell to a decimal.
//
// Normalization trims whitespace, drops thousands separators and spaces,
// and reads accounting negatives written in parentheses.
//
// Examples:
//
//	ParseAmount("1,234.50") -> 1234.5
//	ParseAmount("(200)")    -> -200
//	ParseAmount(" -7 ")     -> -7
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrMissingField
	}
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	s = strings.NewReplacer(",", "", " ", "", "\u00a0", "").Replace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if neg {
		if d.IsNegative() {
			return decimal.Zero, ErrInvalidAmount
		}
		d = d.Neg()
	}
	return d, nil
}
