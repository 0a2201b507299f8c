package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Format renders an amount as $1,234.56, with a leading minus for losses.
func Format(d decimal.Decimal) string {
	v := d.Round(2).InexactFloat64()
	if v < 0 {
		return printer.Sprintf("-$%.2f", -v)
	}
	return printer.Sprintf("$%.2f", v)
}

// FormatSigned always carries a sign, e.g. +$5.00 or -$12.50.
func FormatSigned(d decimal.Decimal) string {
	if d.IsNegative() {
		return Format(d)
	}
	return "+" + Format(d)
}
