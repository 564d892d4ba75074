package helpers

import (
	"strings"

	"github.com/shopspring/decimal"
)

const currencySymbol = "R$"

// FormatCurrency renders v as Brazilian Real with pt-BR grouping, e.g.
// 1050.5 -> "R$ 1.050,50".
func FormatCurrency(v float64) string {
	return FormatDecimal(decimal.NewFromFloat(v))
}

func FormatDecimal(d decimal.Decimal) string {
	fixed := d.Round(2).StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		fixed = fixed[1:]
		if fixed != "0.00" {
			sign = "-"
		}
	}
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return sign + currencySymbol + " " + b.String() + "," + fracPart
}

// LineTotal sums price × quantity without float drift.
func LineTotal(price float64, quantity int) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(quantity)))
}
