// Package dataset holds the in-memory Record Store: the normalized, immutable
// set of banking records every dashboard section reads from.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"bankdash/internal/core"
)

var (
	ErrEmptyTable = errors.New("table has no header row")
	ErrNoColumns  = errors.New("table has no recognized columns")
)

// Store is the loaded dataset. It is never mutated after construction, so it
// can be shared by concurrent readers without locking.
type Store struct {
	generation string
	source     string
	loadedAt   time.Time
	columns    map[string]bool
	records    []Record
}

// RecordSet is a read-only view over a subset of a Store.
type RecordSet struct {
	columns map[string]bool
	records []Record
}

// Load reads a CSV file into a Store.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &core.LoadError{Source: path, Err: err}
	}
	defer f.Close()

	header, rows, err := ReadCSV(f)
	if err != nil {
		return nil, &core.LoadError{Source: path, Err: err}
	}
	return FromTable(path, header, rows)
}

// ReadCSV reads a header row and all data rows. Rows with a different cell
// count than the header are kept; FromTable pads or truncates them.
func ReadCSV(r io.Reader) ([]string, [][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil, ErrEmptyTable
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read row %d: %w", len(rows)+2, err)
		}
		rows = append(rows, rec)
	}
	return header, rows, nil
}

// FromTable builds a Store from a header and rows of raw cells. Headers are
// normalized and matched to logical fields; unknown columns are ignored.
func FromTable(source string, header []string, rows [][]string) (*Store, error) {
	if len(header) == 0 {
		return nil, &core.LoadError{Source: source, Err: ErrEmptyTable}
	}

	fieldAt := make([]string, len(header))
	columns := make(map[string]bool)
	for i, h := range header {
		if f, ok := ResolveField(NormalizeHeader(h)); ok && !columns[f] {
			fieldAt[i] = f
			columns[f] = true
		}
	}
	if len(columns) == 0 {
		return nil, &core.LoadError{Source: source, Err: fmt.Errorf("%w: %s", ErrNoColumns, strings.Join(header, ","))}
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		if isBlankRow(row) {
			continue
		}
		var rec Record
		for i, field := range fieldAt {
			if field == "" || i >= len(row) {
				continue
			}
			rec.set(field, row[i])
		}
		records = append(records, rec)
	}

	return &Store{
		generation: uuid.NewString(),
		source:     source,
		loadedAt:   time.Now(),
		columns:    columns,
		records:    records,
	}, nil
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func cleanText(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "nan") {
		return ""
	}
	return s
}

// Generation identifies this particular load of the dataset.
func (s *Store) Generation() string { return s.generation }

// Source names where the dataset came from.
func (s *Store) Source() string { return s.source }

// LoadedAt is when the Store was built.
func (s *Store) LoadedAt() time.Time { return s.loadedAt }

// Len returns the number of records.
func (s *Store) Len() int { return len(s.records) }

// Has reports whether the source table carried the given logical field.
func (s *Store) Has(field string) bool { return s.columns[field] }

// Columns returns the recognized logical fields in schema order.
func (s *Store) Columns() []string {
	out := make([]string, 0, len(s.columns))
	for _, f := range Fields {
		if s.columns[f] {
			out = append(out, f)
		}
	}
	return out
}

// Records returns the records. Callers must not modify the returned slice.
func (s *Store) Records() []Record { return s.records }

// All returns a RecordSet over every record.
func (s *Store) All() RecordSet {
	return RecordSet{columns: s.columns, records: s.records}
}

// Filter returns the records for which keep reports true.
func (s *Store) Filter(keep func(Record) bool) RecordSet {
	return s.All().Filter(keep)
}

// Filter narrows the set further.
func (rs RecordSet) Filter(keep func(Record) bool) RecordSet {
	out := make([]Record, 0, len(rs.records))
	for _, r := range rs.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return RecordSet{columns: rs.columns, records: out}
}

// Len returns the number of records in the set.
func (rs RecordSet) Len() int { return len(rs.records) }

// Has reports whether the underlying table carried the field.
func (rs RecordSet) Has(field string) bool { return rs.columns[field] }

// Records returns the records. Callers must not modify the returned slice.
func (rs RecordSet) Records() []Record { return rs.records }

// NewRecordSet builds a RecordSet directly, mainly for tests and fixtures.
func NewRecordSet(columns []string, records []Record) RecordSet {
	cols := make(map[string]bool, len(columns))
	for _, c := range columns {
		cols[c] = true
	}
	return RecordSet{columns: cols, records: records}
}
