package amortization

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatAmount renders v with thousands separators and no decimals,
// e.g. 4840.08 -> "4,840".
func FormatAmount(v float64) string {
	return message.NewPrinter(language.English).Sprintf("%.0f", v)
}

// FormatMoney renders v with thousands separators and two decimals,
// e.g. 10000 -> "10,000.00".
func FormatMoney(v float64) string {
	return message.NewPrinter(language.English).Sprintf("%.2f", v)
}
