// Package core defines the domain model shared by the aggregation engine,
// the storage layer and the HTTP API.
//
// This file holds monetary parsing and currency normalization. Amounts are
// decimal values (never floats) and conversions always use the from/to
// exchange-rate pair captured when the transaction was recorded: a stale
// captured rate is conversion ground truth, reproducibility beats accuracy.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// zeroDecimalCurrencies are currency codes whose minor unit is the whole
// unit, so normalized amounts are rounded to zero decimal places.
var zeroDecimalCurrencies = map[string]struct{}{
	"JPY": {},
	"KRW": {},
}

// CurrencyDecimals returns the number of fractional digits amounts in the
// given currency are rounded to.
func CurrencyDecimals(code string) int32 {
	if _, ok := zeroDecimalCurrencies[strings.ToUpper(code)]; ok {
		return 0
	}
	return 2
}

// NormalizeAmount converts amount to the target currency using the captured
// rate pair: amount * fromRate / toRate, half-up rounded to the currency's
// decimal places. A zero rate means "no conversion" and is treated as 1.
func NormalizeAmount(amount, fromRate, toRate decimal.Decimal, currency string) decimal.Decimal {
	if fromRate.IsZero() {
		fromRate = decimal.NewFromInt(1)
	}
	if toRate.IsZero() {
		toRate = decimal.NewFromInt(1)
	}
	return amount.Mul(fromRate).Div(toRate).Round(CurrencyDecimals(currency))
}

// ParseAmount parses a positive decimal amount from user input. It accepts
// both dot and comma decimal separators.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// ParseRate parses an exchange rate. An empty string means "no conversion"
// and yields 1.
func ParseRate(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NewFromInt(1), nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}
