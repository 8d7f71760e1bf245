package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/amiraziz/souq-backend/pkg/enums"
	"github.com/amiraziz/souq-backend/pkg/errors"
)

func TestFormatConvertsAndRounds(t *testing.T) {
	ten := decimal.NewFromInt(10)

	got, err := FormatDefault(ten, enums.CurrencyAED)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "AED 36.70" {
		t.Errorf("AED format = %q, want %q", got, "AED 36.70")
	}

	got, err = FormatDefault(ten, enums.CurrencyUSD)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "$10.00" {
		t.Errorf("USD format = %q, want %q", got, "$10.00")
	}
}

func TestFormatAlwaysTwoDecimals(t *testing.T) {
	got, err := FormatDefault(decimal.RequireFromString("19.999"), enums.CurrencyUSD)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "$20.00" {
		t.Errorf("format = %q, want %q", got, "$20.00")
	}
}

func TestFormatUnknownCurrency(t *testing.T) {
	_, err := FormatDefault(decimal.NewFromInt(10), enums.Currency("XBT"))
	if err == nil {
		t.Fatal("expected an error for an unrecognized code")
	}
	if appErr := errors.As(err); appErr == nil || appErr.Code() != errors.CodeUnknownCurrency {
		t.Errorf("expected CodeUnknownCurrency, got %v", err)
	}
}
