// Package filter turns sidebar facet selections into a record predicate.
package filter

import (
	"net/url"
	"sort"
	"strings"

	"bankdash/internal/core"
	"bankdash/internal/dataset"
)

// Facet names, also used as form field names.
const (
	FacetGender      = "gender"
	FacetMonth       = "month"
	FacetQuarter     = "quarter"
	FacetCardType    = "card_type"
	FacetAccountType = "account_type"
)

// AppliedParam marks a submitted filter form. Without it, facets that are
// not present in the query default to every observed value.
const AppliedParam = "applied"

// Facets lists the facet names in sidebar order.
var Facets = []string{FacetGender, FacetMonth, FacetQuarter, FacetCardType, FacetAccountType}

// Set is a set of allowed facet values.
type Set map[string]struct{}

// NewSet builds a Set from values, ignoring blanks.
func NewSet(values ...string) Set {
	s := make(Set, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			s[v] = struct{}{}
		}
	}
	return s
}

// Contains reports membership. Absent values are never members.
func (s Set) Contains(v string) bool {
	if v == "" {
		return false
	}
	_, ok := s[v]
	return ok
}

func (s Set) sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Selection holds the allowed values for each of the five facets. An empty
// Set matches nothing.
type Selection struct {
	Gender      Set
	Month       Set
	Quarter     Set
	CardType    Set
	AccountType Set
}

// Options are the observed values of each facet in display order.
type Options struct {
	Gender      []string `json:"gender"`
	Month       []string `json:"month"`
	Quarter     []string `json:"quarter"`
	CardType    []string `json:"card_type"`
	AccountType []string `json:"account_type"`
}

// Values returns the options for a facet name.
func (o Options) Values(facet string) []string {
	switch facet {
	case FacetGender:
		return o.Gender
	case FacetMonth:
		return o.Month
	case FacetQuarter:
		return o.Quarter
	case FacetCardType:
		return o.CardType
	case FacetAccountType:
		return o.AccountType
	}
	return nil
}

// Predicate reports whether a record passes every facet.
func (sel Selection) Predicate() func(dataset.Record) bool {
	return func(r dataset.Record) bool {
		return sel.Gender.Contains(r.Gender) &&
			sel.Month.Contains(r.Month()) &&
			sel.Quarter.Contains(r.Quarter()) &&
			sel.CardType.Contains(r.CardType) &&
			sel.AccountType.Contains(r.AccountType)
	}
}

// Set returns the set for a facet name.
func (sel Selection) Set(facet string) Set {
	switch facet {
	case FacetGender:
		return sel.Gender
	case FacetMonth:
		return sel.Month
	case FacetQuarter:
		return sel.Quarter
	case FacetCardType:
		return sel.CardType
	case FacetAccountType:
		return sel.AccountType
	}
	return nil
}

// Key is a canonical encoding of the selection, stable across map ordering.
func (sel Selection) Key() string {
	var b strings.Builder
	for i, facet := range Facets {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(facet)
		b.WriteByte('=')
		b.WriteString(strings.Join(sel.Set(facet).sorted(), ","))
	}
	return b.String()
}

// Apply filters the store by the selection.
func Apply(store *dataset.Store, sel Selection) dataset.RecordSet {
	return store.Filter(sel.Predicate())
}

// Observe collects the distinct non-empty values of every facet. Gender, card
// and account types keep first-seen order; months follow the calendar and
// quarters sort ascending.
func Observe(store *dataset.Store) Options {
	var opts Options
	seen := map[string]Set{}
	for _, f := range Facets {
		seen[f] = Set{}
	}
	add := func(facet, v string, dst *[]string) {
		if v == "" || seen[facet].Contains(v) {
			return
		}
		seen[facet][v] = struct{}{}
		*dst = append(*dst, v)
	}
	for _, r := range store.Records() {
		add(FacetGender, r.Gender, &opts.Gender)
		add(FacetMonth, r.Month(), &opts.Month)
		add(FacetQuarter, r.Quarter(), &opts.Quarter)
		add(FacetCardType, r.CardType, &opts.CardType)
		add(FacetAccountType, r.AccountType, &opts.AccountType)
	}
	sort.Slice(opts.Month, func(i, j int) bool {
		return core.MonthIndex(opts.Month[i]) < core.MonthIndex(opts.Month[j])
	})
	sort.Strings(opts.Quarter)
	return opts
}

// All selects every observed value of every facet.
func All(opts Options) Selection {
	return Selection{
		Gender:      NewSet(opts.Gender...),
		Month:       NewSet(opts.Month...),
		Quarter:     NewSet(opts.Quarter...),
		CardType:    NewSet(opts.CardType...),
		AccountType: NewSet(opts.AccountType...),
	}
}

// FromValues reads a selection from query or form values. Each facet may be
// repeated. Before the filter form is first applied, a facet absent from the
// values selects all of its options; afterwards absence means none.
func FromValues(values url.Values, opts Options) Selection {
	applied := values.Get(AppliedParam) != ""
	pick := func(facet string) Set {
		vals, ok := values[facet]
		if !ok && !applied {
			return NewSet(opts.Values(facet)...)
		}
		return NewSet(vals...)
	}
	return Selection{
		Gender:      pick(FacetGender),
		Month:       pick(FacetMonth),
		Quarter:     pick(FacetQuarter),
		CardType:    pick(FacetCardType),
		AccountType: pick(FacetAccountType),
	}
}

// Values encodes the selection as query values, the inverse of FromValues.
func (sel Selection) Values() url.Values {
	v := url.Values{}
	v.Set(AppliedParam, "1")
	for _, facet := range Facets {
		for _, val := range sel.Set(facet).sorted() {
			v.Add(facet, val)
		}
	}
	return v
}
