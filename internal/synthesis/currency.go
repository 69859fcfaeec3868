package synthesis

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencySymbol prefixes every rendered amount.
const CurrencySymbol = "₹"

var (
	crore = decimal.NewFromInt(10_000_000)
	lakh  = decimal.NewFromInt(100_000)

	groupingLocale = language.MustParse("en-IN")
)

// FormatCurrency renders an amount in crore (Cr) or lakh (L) with one decimal,
// or as a grouped integer below one lakh.
func FormatCurrency(amount decimal.Decimal) string {
	switch {
	case amount.GreaterThanOrEqual(crore):
		return CurrencySymbol + amount.Div(crore).StringFixed(1) + " Cr"
	case amount.GreaterThanOrEqual(lakh):
		return CurrencySymbol + amount.Div(lakh).StringFixed(1) + " L"
	default:
		p := message.NewPrinter(groupingLocale)
		return CurrencySymbol + p.Sprintf("%d", amount.Round(0).IntPart())
	}
}

// FormatNullCurrency renders a missing amount as zero.
func FormatNullCurrency(amount decimal.NullDecimal) string {
	if !amount.Valid {
		return FormatCurrency(decimal.Zero)
	}
	return FormatCurrency(amount.Decimal)
}
