package services

import (
	"context"
	"fmt"

	"bankdash/internal/amqp"
	"bankdash/internal/dataset"
	"bankdash/internal/log"
	"bankdash/internal/sources"
	"bankdash/internal/storage"
)

// SnapshotStore persists imported tables.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, source string, header []string, rows [][]string) (storage.Snapshot, error)
	PruneSnapshots(ctx context.Context, keep int) (int, error)
}

// Publisher announces a stored snapshot.
type Publisher interface {
	PublishDatasetImported(ctx context.Context, msg *amqp.DatasetImportedMessage) error
}

// ImportResult describes a completed import.
type ImportResult struct {
	Snapshot  storage.Snapshot
	Records   int
	Pruned    int
	Announced bool
}

// ImportService orchestrates snapshot imports across SQLite and AMQP
type ImportService struct {
	store     SnapshotStore
	publisher Publisher
	keep      int
	logger    *log.Logger
}

// NewImportService creates the service. A nil publisher disables
// announcements; keep <= 0 disables pruning.
func NewImportService(store SnapshotStore, publisher Publisher, keep int, logger *log.Logger) *ImportService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &ImportService{
		store:     store,
		publisher: publisher,
		keep:      keep,
		logger:    logger.WithComponent(log.ComponentStorage),
	}
}

// Import reads the table from reader, checks that it is a usable dataset,
// saves it as a snapshot and announces it. A publish failure does not undo
// the import: the snapshot is saved and dashboards pick it up on their next
// reload.
func (s *ImportService) Import(ctx context.Context, reader sources.TableReader) (ImportResult, error) {
	name := sources.Describe(reader)
	header, rows, err := reader.ReadTable(ctx)
	if err != nil {
		return ImportResult{}, fmt.Errorf("read %s: %w", name, err)
	}
	ds, err := dataset.FromTable(name, header, rows)
	if err != nil {
		return ImportResult{}, fmt.Errorf("validate %s: %w", name, err)
	}

	snap, err := s.store.SaveSnapshot(ctx, name, header, rows)
	if err != nil {
		return ImportResult{}, fmt.Errorf("save snapshot: %w", err)
	}
	res := ImportResult{Snapshot: snap, Records: ds.Len()}

	if s.keep > 0 {
		pruned, err := s.store.PruneSnapshots(ctx, s.keep)
		if err != nil {
			s.logger.WarnContext(ctx, "Failed to prune old snapshots", log.FieldError, err)
		}
		res.Pruned = pruned
	}

	if s.publisher == nil {
		s.logger.WarnContext(ctx, "AMQP client not available, skipping import announcement", log.FieldImportID, snap.ID)
		return res, nil
	}
	msg := amqp.NewDatasetImportedMessage(snap.ID, snap.Source, snap.Rows)
	if err := s.publisher.PublishDatasetImported(ctx, msg); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish dataset imported message",
			log.FieldImportID, snap.ID,
			log.FieldError, err)
		return res, nil
	}
	res.Announced = true
	return res, nil
}
