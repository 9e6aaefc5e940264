package view

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var pricePrinter = message.NewPrinter(language.BrazilianPortuguese)

// FormatPrice renders an amount the way the menu shows it, e.g. "R$ 1.234,50"
func FormatPrice(amount decimal.Decimal) string {
	value := amount.Round(2).InexactFloat64()
	return pricePrinter.Sprintf("R$ %v", number.Decimal(value, number.Scale(2)))
}
