package backend

import (
	"context"
	"fmt"
	"log/slog"

	"bankdash/internal/sources/csvfile"
	gsheet "bankdash/internal/sources/google"
	"bankdash/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateSource implements Factory.CreateSource
func (f *DefaultFactory) CreateSource(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case CSVBackend:
		return f.createCSVSource(config)
	case SQLiteBackend:
		return f.createSQLiteSource(config)
	case SheetsBackend:
		return f.createSheetsSource(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createCSVSource(config Config) (*BackendResult, error) {
	f.logger.Info("Initialized CSV backend", "dataset_path", config.DatasetPath)
	return &BackendResult{Source: csvfile.New(config.DatasetPath)}, nil
}

func (f *DefaultFactory) createSQLiteSource(config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Source:  repo,
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createSheetsSource(ctx context.Context, config Config) (*BackendResult, error) {
	cli, err := gsheet.New(ctx, config.GoogleSpreadsheetID, config.GoogleSheetRange)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets backend", "source", cli.Describe())

	return &BackendResult{Source: cli}, nil
}
