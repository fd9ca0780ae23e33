package sources

import "context"

// Ports for dataset sources.
type (
	// TableReader returns the raw dataset as a header row plus data rows.
	TableReader interface {
		ReadTable(ctx context.Context) (header []string, rows [][]string, err error)
	}

	// Describer is implemented by sources that can name themselves for logs
	// and load errors.
	Describer interface {
		Describe() string
	}
)

// Describe names a source, falling back to a generic label.
func Describe(r TableReader) string {
	if d, ok := r.(Describer); ok {
		return d.Describe()
	}
	return "table"
}
