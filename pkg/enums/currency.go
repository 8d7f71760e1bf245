package enums

import "fmt"

// Currency represents the display currencies the storefront can render.
// USD is the base denomination all stored amounts are priced in.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyAED Currency = "AED"
	CurrencyEGP Currency = "EGP"
	CurrencySAR Currency = "SAR"
)

var validCurrencies = []Currency{
	CurrencyUSD,
	CurrencyAED,
	CurrencyEGP,
	CurrencySAR,
}

// String implements fmt.Stringer.
func (c Currency) String() string {
	return string(c)
}

// IsValid reports whether the currency is recognized.
func (c Currency) IsValid() bool {
	for _, candidate := range validCurrencies {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCurrency converts a raw string into a Currency.
func ParseCurrency(value string) (Currency, error) {
	for _, candidate := range validCurrencies {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid currency %q", value)
}
