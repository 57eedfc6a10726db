// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing dollar amounts from strings
// and formatting cents as US currency for display.
package core

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// ParseDollarsToCents converts a dollar string to cents with half-up rounding.
//
// An optional leading "$" and "," thousands separators are accepted. Zero is a
// valid amount (budgets may be zero); negative values are rejected.
//
// Examples:
//
//	ParseDollarsToCents("12.34")     -> 1234, nil
//	ParseDollarsToCents("$1,250.5")  -> 125050, nil
//	ParseDollarsToCents("12.345")    -> 1235, nil (rounds up)
//	ParseDollarsToCents("0")         -> 0, nil
func ParseDollarsToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" && fracPart == "" {
		return 0, ErrInvalidAmount
	}
	if intPart == "" {
		intPart = "0"
	}
	// ASCII digits only: the cent arithmetic below works on bytes.
	digits := intPart + fracPart
	for i := 0; i < len(digits); i++ {
		if c := digits[i]; c < '0' || c > '9' {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv >= maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	return iv*100 + fracCents, nil
}

// Dollars returns the amount as float64 for display purposes only.
// Use cents for calculations.
func (m Money) Dollars() float64 {
	return float64(m.Cents) / 100.0
}

// FormatUSD renders cents as a US-locale currency string, e.g. "$1,234.56".
func FormatUSD(m Money) string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	rem := strconv.FormatInt(cents%100, 10)
	if len(rem) == 1 {
		rem = "0" + rem
	}
	return sign + "$" + humanize.Comma(cents/100) + "." + rem
}

// String implements fmt.Stringer using FormatUSD.
func (m Money) String() string {
	return FormatUSD(m)
}
