// Package core provides the dataset vocabulary shared by every layer:
// section names, the error taxonomy, nullable values and lenient parsing.
package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// dateLayouts are tried in order. Slash dates are read month-first.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"1/2/2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"01-02-2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseDate parses s against the known layouts. Blank or unrecognized input
// yields an invalid NullDate, never an error.
func ParseDate(s string) NullDate {
	s = strings.TrimSpace(s)
	if s == "" {
		return NullDate{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NullDate{Time: t, Valid: true}
		}
	}
	return NullDate{}
}

// ParseNumber parses a numeric cell. A leading currency symbol and thousands
// separators are ignored; blanks and "nan" are absent.
func ParseNumber(s string) decimal.NullDecimal {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "$€£")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "null") {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// ParseInt parses an integral numeric cell; "36.0" is accepted, "36.5" is not.
func ParseInt(s string) NullInt {
	n := ParseNumber(s)
	if !n.Valid || !n.Decimal.IsInteger() {
		return NullInt{}
	}
	return NullInt{Int: int(n.Decimal.IntPart()), Valid: true}
}
