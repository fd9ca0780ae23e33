package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"bankdash/internal/core"
	"bankdash/internal/sources"
)

// Provider owns the current Store and replaces it wholesale on reload.
// Sessions capture Current() at login and keep that Store for their lifetime.
type Provider struct {
	reader  sources.TableReader
	current atomic.Pointer[Store]
}

// NewProvider creates a provider; call Reload before Current.
func NewProvider(reader sources.TableReader) *Provider {
	return &Provider{reader: reader}
}

// Reload reads the source again and swaps in a fresh Store. On failure the
// previous Store stays current.
func (p *Provider) Reload(ctx context.Context) (*Store, error) {
	name := sources.Describe(p.reader)
	header, rows, err := p.reader.ReadTable(ctx)
	if err != nil {
		return nil, &core.LoadError{Source: name, Err: err}
	}
	store, err := FromTable(name, header, rows)
	if err != nil {
		return nil, err
	}
	p.current.Store(store)
	slog.InfoContext(ctx, "Dataset loaded",
		"source", name,
		"records", store.Len(),
		"columns", len(store.Columns()),
		"generation", store.Generation())
	return store, nil
}

// Current returns the active Store.
func (p *Provider) Current() (*Store, error) {
	s := p.current.Load()
	if s == nil {
		return nil, fmt.Errorf("provider current: %w", core.ErrNoDataset)
	}
	return s, nil
}

// Ready reports whether a Store has been loaded.
func (p *Provider) Ready() bool {
	return p.current.Load() != nil
}
