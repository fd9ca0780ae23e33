// Package sections computes the per-section KPI scalars and summary tables
// that feed each dashboard page.
package sections

import "github.com/shopspring/decimal"

// Value formats hint the presentation layer how to render a number.
const (
	FormatCount   = "count"
	FormatAmount  = "amount"
	FormatDecimal = "decimal"
	FormatPercent = "percent"
)

// KPI is a single headline number.
type KPI struct {
	Name   string
	Label  string
	Value  decimal.Decimal
	Format string
}

// Row is one group of a summary table: the group key and one value per column.
type Row struct {
	Key    string
	Values []decimal.Decimal
}

// Table is a grouped aggregate feeding one chart.
type Table struct {
	Name     string
	Title    string
	Chart    string
	KeyLabel string
	Columns  []string
	Rows     []Row
}

// Summary is everything one section shows.
type Summary struct {
	Section string
	Title   string
	Records int
	KPIs    []KPI
	Tables  []Table
}

// KPI looks up a KPI by name.
func (s Summary) KPI(name string) (KPI, bool) {
	for _, k := range s.KPIs {
		if k.Name == name {
			return k, true
		}
	}
	return KPI{}, false
}

// Table looks up a table by name.
func (s Summary) Table(name string) (Table, bool) {
	for _, t := range s.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

// Keys returns the row keys in order.
func (t Table) Keys() []string {
	out := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Key
	}
	return out
}

// Lookup returns the first column value for key.
func (t Table) Lookup(key string) (decimal.Decimal, bool) {
	for _, r := range t.Rows {
		if r.Key == key && len(r.Values) > 0 {
			return r.Values[0], true
		}
	}
	return decimal.Zero, false
}

// Max returns the largest value in column col, used to scale bars.
func (t Table) Max(col int) decimal.Decimal {
	top := decimal.Zero
	for _, r := range t.Rows {
		if col < len(r.Values) && r.Values[col].GreaterThan(top) {
			top = r.Values[col]
		}
	}
	return top
}
