package compensation

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/warp/paycalc/paytable"
)

// Placeholder is rendered for amounts that do not exist, to tell "no data" from zero.
const Placeholder = "—"

var printer = message.NewPrinter(language.German)

// FormatEUR renders d as de-DE currency, e.g. "2.314,38 €". The digits come
// from d itself, so large amounts stay exact.
func FormatEUR(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	sign := ""
	if d.Round(2).IsNegative() {
		sign = "-"
	}
	return sign + groupThousands(whole) + "," + frac + " €"
}

// groupThousands renders an unsigned integer string with the German group
// separator. Values within int64 go through the locale printer.
func groupThousands(whole string) string {
	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		return printer.Sprintf("%v", number.Decimal(n))
	}
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatOptionalEUR renders Placeholder when ok is false.
func FormatOptionalEUR(d decimal.Decimal, ok bool) string {
	if !ok {
		return Placeholder
	}
	return FormatEUR(d)
}

// FormatValidFrom renders "Gültig ab: 1.3.2024", or "" without a date.
func FormatValidFrom(m paytable.EffectiveMeta) string {
	if !m.HasValidFrom() {
		return ""
	}
	return "Gültig ab: " + m.ValidFrom.Format("2.1.2006")
}
