package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankdash/internal/cache"
	"bankdash/internal/core"
	"bankdash/internal/dataset"
	"bankdash/internal/filter"
)

const samplePath = "../dataset/testdata/banking_sample.csv"

func loadSample(t *testing.T) *dataset.Store {
	t.Helper()
	store, err := dataset.Load(samplePath)
	require.NoError(t, err)
	return store
}

func newService() *Service {
	return NewService(DefaultOptions(), nil, nil)
}

func TestSectionOK(t *testing.T) {
	store := loadSample(t)
	svc := newService()
	sel := filter.All(filter.Observe(store))

	res := svc.Section(context.Background(), store, sel, core.SectionDemographics)
	require.NoError(t, res.Err)
	assert.Equal(t, StatusOK, res.Status)
	assert.Equal(t, "Customer Demographics & Overview", res.Title)
	assert.False(t, res.Cached)
	assert.Empty(t, res.Message())
	// C4 has no transaction date, so it has no month and is filtered out.
	assert.Equal(t, 3, res.Summary.Records)
}

func TestSectionMemoized(t *testing.T) {
	store := loadSample(t)
	svc := newService()
	sel := filter.All(filter.Observe(store))

	first := svc.Section(context.Background(), store, sel, core.SectionCards)
	second := svc.Section(context.Background(), store, sel, core.SectionCards)
	require.Equal(t, StatusOK, second.Status)
	assert.False(t, first.Cached)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Summary, second.Summary)

	reloaded := loadSample(t)
	third := svc.Section(context.Background(), reloaded, sel, core.SectionCards)
	assert.False(t, third.Cached, "a new store generation must be recomputed")

	narrowed := sel
	narrowed.Gender = filter.NewSet("Female")
	fourth := svc.Section(context.Background(), store, narrowed, core.SectionCards)
	assert.False(t, fourth.Cached)
	assert.Equal(t, 1, fourth.Summary.Records)
}

func TestSectionEmpty(t *testing.T) {
	store := loadSample(t)
	sel := filter.All(filter.Observe(store))
	sel.Gender = filter.NewSet()

	res := newService().Section(context.Background(), store, sel, core.SectionTransactions)
	assert.Equal(t, StatusEmpty, res.Status)
	var empty *core.EmptyResultError
	assert.True(t, errors.As(res.Err, &empty))
	assert.Equal(t, "No data available for the selected filters.", res.Message())
}

func TestSectionSchemaErrorIsolated(t *testing.T) {
	header := []string{"Customer ID", "Gender", "Age", "City", "Account Type", "Card Type", "Transaction Date"}
	rows := [][]string{
		{"C1", "Male", "33", "Rome", "Savings", "Visa", "2023-05-01"},
		{"C2", "Female", "41", "Milan", "Current", "Amex", "2023-06-01"},
	}
	store, err := dataset.FromTable("inline", header, rows)
	require.NoError(t, err)

	results := newService().All(context.Background(), store, filter.All(filter.Observe(store)))
	require.Len(t, results, 4)

	byName := map[string]Result{}
	for _, r := range results {
		byName[r.Section] = r
	}
	assert.Equal(t, StatusOK, byName[core.SectionDemographics].Status)
	assert.Equal(t, StatusSchemaError, byName[core.SectionCards].Status)
	assert.Contains(t, byName[core.SectionCards].Message(), "CardID")
	assert.Equal(t, StatusSchemaError, byName[core.SectionAccounts].Status)
	assert.Equal(t, StatusSchemaError, byName[core.SectionTransactions].Status)
}

func TestSectionUnknownAndMissingStore(t *testing.T) {
	svc := newService()
	store := loadSample(t)

	res := svc.Section(context.Background(), store, filter.Selection{}, "forecast")
	assert.Equal(t, StatusError, res.Status)
	assert.ErrorIs(t, res.Err, core.ErrUnknownSection)

	res = svc.Section(context.Background(), nil, filter.Selection{}, core.SectionCards)
	assert.ErrorIs(t, res.Err, core.ErrNoDataset)
	assert.Equal(t, "This section could not be computed.", res.Message())
}

func TestCacheRegisteredWithManager(t *testing.T) {
	m := cache.NewManager()
	NewService(Options{}, m, nil)
	assert.Contains(t, m.CleanAll(), "section_results")
}

func TestCacheKey(t *testing.T) {
	store := loadSample(t)
	sel := filter.All(filter.Observe(store))
	k := CacheKey(store, sel, core.SectionCards)
	assert.Contains(t, k, store.Generation())
	assert.Contains(t, k, "cards")
	assert.NotEqual(t, k, CacheKey(store, sel, core.SectionAccounts))
}
