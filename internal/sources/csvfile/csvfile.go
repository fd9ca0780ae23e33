// Package csvfile reads the dataset from a CSV file on disk.
package csvfile

import (
	"context"
	"fmt"
	"os"

	"bankdash/internal/dataset"
	"bankdash/internal/sources"
)

var _ sources.TableReader = (*Reader)(nil)

// Reader reads the whole file on every ReadTable call, so a reload picks up
// a replaced file.
type Reader struct {
	path string
}

func New(path string) *Reader {
	return &Reader{path: path}
}

func (r *Reader) Describe() string { return r.path }

func (r *Reader) ReadTable(ctx context.Context) ([]string, [][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	f, err := os.Open(r.path)
	if err != nil {
		return nil, nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return dataset.ReadCSV(f)
}
