package currency

import (
	"testing"

	"github.com/joyalure/joyalure-backend/pkg/enums"
)

func TestAmountUSDIgnoresRate(t *testing.T) {
	got := Amount(2499, enums.CurrencyUSD, 12.5)
	if got.StringFixed(2) != "24.99" {
		t.Fatalf("expected 24.99, got %s", got.StringFixed(2))
	}
}

func TestAmountGHSAppliesRate(t *testing.T) {
	got := Amount(1000, enums.CurrencyGHS, 12.5)
	if got.StringFixed(2) != "125.00" {
		t.Fatalf("expected 125.00, got %s", got.StringFixed(2))
	}
}

func TestAmountExactFractionalRate(t *testing.T) {
	// 19.99 * 11.1 must not pick up float drift.
	got := Amount(1999, enums.CurrencyGHS, 11.1)
	if got.StringFixed(2) != "221.89" {
		t.Fatalf("expected 221.89, got %s", got.StringFixed(2))
	}
}

func TestDisplayRendersSymbolAndTwoDecimals(t *testing.T) {
	if got := Display(500, enums.CurrencyUSD, 12); got != "$5.00" {
		t.Fatalf("expected $5.00, got %s", got)
	}
	if got := Display(500, enums.CurrencyGHS, 12); got != "GH₵60.00" {
		t.Fatalf("expected GH₵60.00, got %s", got)
	}
}
