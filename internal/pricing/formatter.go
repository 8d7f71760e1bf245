package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/amiraziz/souq-backend/pkg/enums"
	"github.com/amiraziz/souq-backend/pkg/errors"
)

// RateTable maps a currency code to its fixed conversion rate from the base
// currency. Rates are display-only; nothing ledger-side ever converts.
type RateTable map[enums.Currency]decimal.Decimal

// DefaultRates are the static display rates from USD.
func DefaultRates() RateTable {
	return RateTable{
		enums.CurrencyUSD: decimal.NewFromInt(1),
		enums.CurrencyAED: decimal.RequireFromString("3.67"),
		enums.CurrencyEGP: decimal.RequireFromString("50"),
		enums.CurrencySAR: decimal.RequireFromString("3.75"),
	}
}

var symbols = map[enums.Currency]string{
	enums.CurrencyUSD: "$",
	enums.CurrencyAED: "AED ",
	enums.CurrencyEGP: "EGP ",
	enums.CurrencySAR: "SAR ",
}

// Format converts a base-currency amount into a display string for the target
// currency: fixed rate multiplication, two decimal places, symbol per code.
// An unrecognized code is an error rather than a silent rate-1 fallback, so a
// missing table entry can never quietly misprice a product.
func Format(amount decimal.Decimal, code enums.Currency, rates RateTable) (string, error) {
	rate, ok := rates[code]
	if !ok {
		return "", errors.Newf(errors.CodeUnknownCurrency, "unknown currency code %q", code)
	}
	sym, ok := symbols[code]
	if !ok {
		return "", errors.Newf(errors.CodeUnknownCurrency, "unknown currency code %q", code)
	}
	return sym + amount.Mul(rate).StringFixed(2), nil
}

// FormatDefault formats with the built-in rate table.
func FormatDefault(amount decimal.Decimal, code enums.Currency) (string, error) {
	return Format(amount, code, DefaultRates())
}
