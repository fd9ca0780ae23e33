package backend

import (
	"context"

	"bankdash/internal/sources"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the dataset source and optional cleanup function
type BackendResult struct {
	Source  sources.TableReader
	Cleanup CleanupFunc
}

// Close runs the cleanup function, if any.
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates dataset sources based on configuration
type Factory interface {
	CreateSource(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for source creation
type Config struct {
	Type BackendType

	// CSV specific
	DatasetPath string

	// SQLite specific
	SQLiteDBPath string

	// Google Sheets specific
	GoogleSpreadsheetID string
	GoogleSheetRange    string
}

// BackendType represents the type of backend
type BackendType string

const (
	CSVBackend    BackendType = "csv"
	SQLiteBackend BackendType = "sqlite"
	SheetsBackend BackendType = "sheets"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case CSVBackend, SQLiteBackend, SheetsBackend:
		return true
	default:
		return false
	}
}
