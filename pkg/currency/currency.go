package currency

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/joyalure/joyalure-backend/pkg/enums"
)

var symbols = map[enums.Currency]string{
	enums.CurrencyUSD: "$",
	enums.CurrencyGHS: "GH₵",
}

var hundred = decimal.NewFromInt(100)

// Amount converts integer USD cents into the display amount for the given
// currency. USD ignores the rate; GHS multiplies by the configured static
// rate. Prices are stored in cents only, conversion happens at render time.
func Amount(cents int, cur enums.Currency, ghsRate float64) decimal.Decimal {
	base := decimal.NewFromInt(int64(cents)).Div(hundred)
	if cur == enums.CurrencyUSD {
		return base
	}
	return base.Mul(decimal.NewFromFloat(ghsRate))
}

// Display renders the amount with the currency symbol and two fixed decimals.
func Display(cents int, cur enums.Currency, ghsRate float64) string {
	symbol, ok := symbols[cur]
	if !ok {
		symbol = string(cur) + " "
	}
	return fmt.Sprintf("%s%s", symbol, Amount(cents, cur, ghsRate).StringFixed(2))
}

// Symbol returns the display symbol for the currency.
func Symbol(cur enums.Currency) string {
	if symbol, ok := symbols[cur]; ok {
		return symbol
	}
	return string(cur)
}
