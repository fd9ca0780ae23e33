package http

import (
	"strings"

	"github.com/shopspring/decimal"

	"bankdash/internal/sections"
)

var thousand = decimal.NewFromInt(1000)

// formatValue renders a KPI value for display according to its format.
func formatValue(v decimal.Decimal, format string) string {
	switch format {
	case sections.FormatCount:
		return formatCount(v)
	case sections.FormatAmount:
		return formatAmount(v)
	case sections.FormatPercent:
		return v.StringFixed(2) + "%"
	default:
		return v.StringFixed(2)
	}
}

// formatCount shows counts of a thousand or more in thousands ("1.25K").
func formatCount(v decimal.Decimal) string {
	if v.Abs().GreaterThanOrEqual(thousand) {
		return v.Div(thousand).StringFixed(2) + "K"
	}
	return v.Round(0).String()
}

// formatAmount renders v with two decimals and comma thousands separators.
func formatAmount(v decimal.Decimal) string {
	return groupThousands(v.StringFixed(2))
}

// formatCell renders a table value: integers without decimals, everything
// else with two.
func formatCell(v decimal.Decimal) string {
	if v.IsInteger() {
		return groupThousands(v.StringFixed(0))
	}
	return formatAmount(v)
}

func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

// barWidth scales v against top into a 0..100 percentage for table bars.
func barWidth(v, top decimal.Decimal) int {
	if !top.IsPositive() || !v.IsPositive() {
		return 0
	}
	w := v.Mul(decimal.NewFromInt(100)).Div(top).Round(0).IntPart()
	if w > 100 {
		return 100
	}
	if w < 1 {
		return 1
	}
	return int(w)
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
