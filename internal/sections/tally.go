package sections

import (
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"bankdash/internal/core"
)

// groups accumulates per-key sums over a fixed number of columns, keeping
// first-seen key order.
type groups struct {
	order []string
	sums  map[string][]decimal.Decimal
	width int
}

func newGroups(width int) *groups {
	return &groups{sums: make(map[string][]decimal.Decimal), width: width}
}

// add adds vals to key's columns. An empty key is dropped.
func (g *groups) add(key string, vals ...decimal.Decimal) {
	if key == "" {
		return
	}
	cur, ok := g.sums[key]
	if !ok {
		cur = make([]decimal.Decimal, g.width)
		g.order = append(g.order, key)
	}
	for i := 0; i < g.width && i < len(vals); i++ {
		cur[i] = cur[i].Add(vals[i])
	}
	g.sums[key] = cur
}

// count adds one to key.
func (g *groups) count(key string) { g.add(key, decimal.NewFromInt(1)) }

func (g *groups) rows() []Row {
	out := make([]Row, 0, len(g.order))
	for _, k := range g.order {
		out = append(out, Row{Key: k, Values: g.sums[k]})
	}
	return out
}

// byValueDesc orders rows by the first column, largest first, ties by key.
func byValueDesc(rows []Row) []Row {
	sort.SliceStable(rows, func(i, j int) bool {
		if c := rows[i].Values[0].Cmp(rows[j].Values[0]); c != 0 {
			return c > 0
		}
		return rows[i].Key < rows[j].Key
	})
	return rows
}

// byCalendar orders rows keyed by month name from January to December.
func byCalendar(rows []Row) []Row {
	sort.SliceStable(rows, func(i, j int) bool {
		return core.MonthIndex(rows[i].Key) < core.MonthIndex(rows[j].Key)
	})
	return rows
}

// byNumericKey orders rows whose keys are integers ascending.
func byNumericKey(rows []Row) []Row {
	sort.SliceStable(rows, func(i, j int) bool {
		a, _ := strconv.Atoi(rows[i].Key)
		b, _ := strconv.Atoi(rows[j].Key)
		return a < b
	})
	return rows
}

// sum adds the present values.
func sum(vals ...decimal.NullDecimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range vals {
		if v.Valid {
			total = total.Add(v.Decimal)
		}
	}
	return total
}

// accumulator tracks sum and count of present values for a mean.
type accumulator struct {
	total decimal.Decimal
	n     int64
}

func (a *accumulator) add(v decimal.NullDecimal) {
	if !v.Valid {
		return
	}
	a.total = a.total.Add(v.Decimal)
	a.n++
}

func (a *accumulator) addInt(v core.NullInt) {
	if v.Valid {
		a.add(decimal.NullDecimal{Decimal: decimal.NewFromInt(int64(v.Int)), Valid: true})
	}
}

func (a *accumulator) mean() decimal.Decimal {
	if a.n == 0 {
		return decimal.Zero
	}
	return a.total.Div(decimal.NewFromInt(a.n))
}

// distinct counts unique non-empty identifiers.
type distinct map[string]struct{}

func (d distinct) add(id string) {
	if id != "" {
		d[id] = struct{}{}
	}
}

func (d distinct) len() decimal.Decimal { return decimal.NewFromInt(int64(len(d))) }

func count(n int) decimal.Decimal { return decimal.NewFromInt(int64(n)) }
