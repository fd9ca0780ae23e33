package core

import (
	"errors"
	"fmt"
	"time"
)

// Section names, in navigation order.
const (
	SectionDemographics = "demographics"
	SectionAccounts     = "accounts"
	SectionTransactions = "transactions"
	SectionCards        = "cards"
)

type (
	// NullInt is an integer that may be absent.
	NullInt struct {
		Int   int
		Valid bool
	}

	// NullDate is a calendar date that may be absent. Unparseable source
	// values load as an invalid NullDate.
	NullDate struct {
		Time  time.Time
		Valid bool
	}
)

var (
	ErrUnknownSection = errors.New("unknown section")
	ErrNoDataset      = errors.New("no dataset loaded")
)

// LoadError reports a dataset that is missing or cannot be read as a table.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load dataset %q: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// SchemaError reports a column a section needs but the dataset lacks.
type SchemaError struct {
	Section string
	Field   string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("section %s: missing required field %s", e.Section, e.Field)
}

// EmptyResultError reports that the active filters left no records for a section.
type EmptyResultError struct {
	Section string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("section %s: no records match the current filters", e.Section)
}

// Sections returns all section names in navigation order.
func Sections() []string {
	return []string{SectionDemographics, SectionAccounts, SectionTransactions, SectionCards}
}

// SectionTitle returns the display title for a section.
func SectionTitle(section string) string {
	switch section {
	case SectionDemographics:
		return "Customer Demographics & Overview"
	case SectionAccounts:
		return "Accounts & Loan Analysis"
	case SectionTransactions:
		return "Transaction & Financial Analysis"
	case SectionCards:
		return "Credit Card Analysis"
	default:
		return section
	}
}

// IsSection reports whether name is one of the known sections.
func IsSection(name string) bool {
	for _, s := range Sections() {
		if s == name {
			return true
		}
	}
	return false
}
