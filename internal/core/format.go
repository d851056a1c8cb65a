package core

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Unavailable is shown in place of a figure that could not be computed.
const Unavailable = "-"

var inPrinter = message.NewPrinter(language.MustParse("en-IN"))

// FormatAmount renders m with en-IN digit grouping and the rupee sign,
// e.g. "₹1,500" or "₹1,500.50". Paise are shown only when non-zero.
func FormatAmount(m Money) string {
	return "₹" + FormatAmountPlain(m)
}

// FormatAmountPlain is FormatAmount without the currency glyph.
func FormatAmountPlain(m Money) string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	whole := inPrinter.Sprintf("%d", cents/100)
	if paise := cents % 100; paise != 0 {
		return fmt.Sprintf("%s%s.%02d", sign, whole, paise)
	}
	return sign + whole
}

// FormatCount groups a count the same way amounts are grouped.
func FormatCount(n int) string {
	return inPrinter.Sprintf("%d", n)
}
