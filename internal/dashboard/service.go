// Package dashboard runs section aggregations for a session's record store
// and a filter selection, turning every failure into a per-section outcome.
package dashboard

import (
	"context"
	"errors"
	"time"

	"bankdash/internal/cache"
	"bankdash/internal/core"
	"bankdash/internal/dataset"
	"bankdash/internal/filter"
	"bankdash/internal/log"
	"bankdash/internal/sections"
)

// Status of one section computation.
type Status string

const (
	StatusOK          Status = "ok"
	StatusEmpty       Status = "empty"
	StatusSchemaError Status = "schema_error"
	StatusError       Status = "error"
)

// Result is what a section renders: a summary, or the reason there is none.
type Result struct {
	Section string
	Title   string
	Status  Status
	Summary sections.Summary
	Err     error
	Cached  bool
}

// Message is the user-facing text for a failed section.
func (r Result) Message() string {
	switch r.Status {
	case StatusOK:
		return ""
	case StatusEmpty:
		return "No data available for the selected filters."
	case StatusSchemaError:
		var se *core.SchemaError
		if errors.As(r.Err, &se) {
			return "The dataset is missing the " + se.Field + " column required by this section."
		}
		return "The dataset does not have the columns this section needs."
	default:
		return "This section could not be computed."
	}
}

// Service computes sections and memoizes their summaries.
type Service struct {
	memo   *cache.Memo[sections.Summary]
	logger *log.Logger
}

// Options configures the result cache.
type Options struct {
	CacheSize int
	CacheTTL  time.Duration
}

// DefaultOptions returns the cache sizing used when none is configured.
func DefaultOptions() Options {
	return Options{CacheSize: 256, CacheTTL: 10 * time.Minute}
}

// NewService creates a service with its own result cache. The cache is
// registered with manager for periodic expiry when manager is non-nil.
func NewService(opts Options, manager *cache.Manager, logger *log.Logger) *Service {
	if opts.CacheSize <= 0 || opts.CacheTTL <= 0 {
		def := DefaultOptions()
		if opts.CacheSize <= 0 {
			opts.CacheSize = def.CacheSize
		}
		if opts.CacheTTL <= 0 {
			opts.CacheTTL = def.CacheTTL
		}
	}
	lru := cache.NewLRUCache[sections.Summary](opts.CacheSize, opts.CacheTTL)
	if manager != nil {
		manager.Register("section_results", lru)
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Service{
		memo:   cache.NewMemo[sections.Summary](lru),
		logger: logger.WithComponent(log.ComponentDashboard),
	}
}

// CacheKey identifies a computation: the store it ran over, the selection
// and the section.
func CacheKey(store *dataset.Store, sel filter.Selection, section string) string {
	return store.Generation() + "|" + section + "|" + sel.Key()
}

// Section filters store by sel and computes section. It never panics on bad
// data; failures come back in the Result.
func (s *Service) Section(ctx context.Context, store *dataset.Store, sel filter.Selection, section string) (res Result) {
	res = Result{Section: section, Title: core.SectionTitle(section)}
	if store == nil {
		res.Status, res.Err = StatusError, core.ErrNoDataset
		return res
	}
	if !core.IsSection(section) {
		res.Status, res.Err = StatusError, core.ErrUnknownSection
		return res
	}

	defer func() {
		if p := recover(); p != nil {
			s.logger.ErrorContext(ctx, "Section computation panicked", log.FieldSection, section, "panic", p)
			res.Status, res.Err, res.Summary = StatusError, errors.New("section computation failed"), sections.Summary{}
		}
	}()

	summary, hit, err := s.memo.Do(CacheKey(store, sel, section), func() (sections.Summary, error) {
		return sections.Compute(section, filter.Apply(store, sel))
	})
	res.Cached = hit
	res.Err = err
	res.Status = classify(err)
	if err == nil {
		res.Summary = summary
	}

	fields := log.NewFields().
		WithOperation(log.OpCompute).
		WithSection(section, store.Generation(), string(res.Status), summary.Records)
	fields[log.FieldCacheHit] = hit
	if res.Status == StatusError {
		s.logger.ErrorContext(ctx, "Section computation failed", fields.WithError(err).ToSlice()...)
	} else {
		s.logger.DebugContext(ctx, "Section computed", fields.ToSlice()...)
	}
	return res
}

// All computes every section for the same store and selection. Each section
// is independent; one failing does not affect the others.
func (s *Service) All(ctx context.Context, store *dataset.Store, sel filter.Selection) []Result {
	out := make([]Result, 0, len(core.Sections()))
	for _, section := range core.Sections() {
		out = append(out, s.Section(ctx, store, sel, section))
	}
	return out
}

func classify(err error) Status {
	var schemaErr *core.SchemaError
	var emptyErr *core.EmptyResultError
	switch {
	case err == nil:
		return StatusOK
	case errors.As(err, &emptyErr):
		return StatusEmpty
	case errors.As(err, &schemaErr):
		return StatusSchemaError
	default:
		return StatusError
	}
}
