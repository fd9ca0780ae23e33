package sections

import (
	"fmt"

	"bankdash/internal/core"
	"bankdash/internal/dataset"
)

// Aggregator computes one section. Required lists the fields it reads,
// checked before Run is called.
type Aggregator struct {
	Section  string
	Required []string
	Run      func(dataset.RecordSet) Summary
}

var registry = map[string]Aggregator{
	core.SectionDemographics: {Section: core.SectionDemographics, Required: demographicsFields, Run: Demographics},
	core.SectionAccounts:     {Section: core.SectionAccounts, Required: accountsFields, Run: Accounts},
	core.SectionTransactions: {Section: core.SectionTransactions, Required: transactionsFields, Run: Transactions},
	core.SectionCards:        {Section: core.SectionCards, Required: cardsFields, Run: Cards},
}

// Lookup returns the aggregator for a section.
func Lookup(section string) (Aggregator, error) {
	agg, ok := registry[section]
	if !ok {
		return Aggregator{}, fmt.Errorf("%w: %q", core.ErrUnknownSection, section)
	}
	return agg, nil
}

// Validate checks that every required field is present.
func (a Aggregator) Validate(set dataset.RecordSet) error {
	for _, f := range a.Required {
		if !set.Has(f) {
			return &core.SchemaError{Section: a.Section, Field: f}
		}
	}
	return nil
}

// Compute validates the schema, rejects empty input and runs the aggregator.
func Compute(section string, set dataset.RecordSet) (Summary, error) {
	agg, err := Lookup(section)
	if err != nil {
		return Summary{}, err
	}
	if err := agg.Validate(set); err != nil {
		return Summary{}, err
	}
	if set.Len() == 0 {
		return Summary{}, &core.EmptyResultError{Section: section}
	}
	s := agg.Run(set)
	s.Section = section
	s.Title = core.SectionTitle(section)
	s.Records = set.Len()
	return s, nil
}
