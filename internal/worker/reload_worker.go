// Package worker keeps the dashboard's dataset current in the background.
package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"bankdash/internal/amqp"
	"bankdash/internal/dataset"
	"bankdash/internal/log"
)

// Reloader swaps in a freshly read Store.
type Reloader interface {
	Reload(ctx context.Context) (*dataset.Store, error)
}

// ReloadWorker reloads the dataset when a snapshot import is announced and,
// optionally, on a fixed interval. A failed reload leaves the previous Store
// active.
type ReloadWorker struct {
	reloader Reloader
	logger   *log.Logger

	mu         sync.Mutex
	lastImport string

	reloads  int64
	failures int64
}

func NewReloadWorker(reloader Reloader, logger *log.Logger) *ReloadWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &ReloadWorker{
		reloader: reloader,
		logger:   logger.WithComponent(log.ComponentDataset),
	}
}

// HandleDatasetImported processes a dataset imported message from AMQP.
// Redelivered messages for the import just handled are skipped. Reload
// failures are logged, not returned, so the message is not requeued forever.
func (w *ReloadWorker) HandleDatasetImported(ctx context.Context, msg *amqp.DatasetImportedMessage) error {
	w.mu.Lock()
	duplicate := msg.ImportID == w.lastImport
	w.mu.Unlock()
	if duplicate {
		w.logger.DebugContext(ctx, "Skipping already handled import", log.FieldImportID, msg.ImportID)
		return nil
	}

	w.logger.InfoContext(ctx, "Processing dataset imported message",
		log.FieldImportID, msg.ImportID,
		log.FieldSource, msg.Source,
		log.FieldRecords, msg.Rows)

	if _, err := w.reload(ctx); err != nil {
		return nil
	}
	w.mu.Lock()
	w.lastImport = msg.ImportID
	w.mu.Unlock()
	return nil
}

// Run reloads every interval until ctx is cancelled. A zero interval returns
// immediately.
func (w *ReloadWorker) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			_, _ = w.reload(ctx)
		}
	}
}

func (w *ReloadWorker) reload(ctx context.Context) (*dataset.Store, error) {
	start := time.Now()
	store, err := w.reloader.Reload(ctx)
	if err != nil {
		atomic.AddInt64(&w.failures, 1)
		w.logger.ErrorContext(ctx, "Dataset reload failed, keeping previous store",
			log.FieldOperation, log.OpReload,
			log.FieldError, err)
		return nil, err
	}
	atomic.AddInt64(&w.reloads, 1)
	w.logger.InfoContext(ctx, "Dataset reloaded",
		log.FieldOperation, log.OpReload,
		log.FieldGeneration, store.Generation(),
		log.FieldRecords, store.Len(),
		log.FieldDuration, time.Since(start).Milliseconds())
	return store, nil
}

// Stats returns the number of successful and failed reloads.
func (w *ReloadWorker) Stats() (reloads, failures int64) {
	return atomic.LoadInt64(&w.reloads), atomic.LoadInt64(&w.failures)
}
