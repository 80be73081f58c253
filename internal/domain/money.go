package domain

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// MaxPriceDecimals is the precision accepted for unit prices and funds.
const MaxPriceDecimals = 2

// HasAtMostDecimals reports whether d carries no digits beyond the given
// number of decimal places. Trailing zeros do not count, so 1.10 has one.
func HasAtMostDecimals(d decimal.Decimal, places int32) bool {
	return d.Equal(d.Round(places))
}

// IsKnownCurrency reports whether code is an ISO 4217 code known to go-money.
func IsKnownCurrency(code string) bool {
	return money.GetCurrency(code) != nil
}

// FormatMoney renders an amount in the given currency, e.g. "$9,500.00".
// The amount is rounded half away from zero to the currency's minor unit.
func FormatMoney(d decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return d.StringFixed(MaxPriceDecimals) + " " + currency
	}
	minor := d.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, currency).Display()
}
