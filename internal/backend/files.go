package backend

import (
	"context"
	"fmt"

	"findash/internal/core"
	"findash/internal/source"

	"golang.org/x/sync/errgroup"
)

var _ source.RecordReader = (*MultiReader)(nil)

// MultiReader reads several sources concurrently and concatenates their
// records in source order. The first failure cancels the others.
type MultiReader struct {
	names   []string
	readers []source.RecordReader
}

// NewMultiReader pairs each reader with a name used in error messages.
func NewMultiReader(names []string, readers []source.RecordReader) *MultiReader {
	return &MultiReader{names: names, readers: readers}
}

func (m *MultiReader) ReadRecords(ctx context.Context) ([]core.Record, error) {
	results := make([][]core.Record, len(m.readers))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, r := range m.readers {
		g.Go(func() error {
			recs, err := r.ReadRecords(ctx)
			if err != nil {
				return fmt.Errorf("%s: %w", m.names[i], err)
			}
			results[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, recs := range results {
		total += len(recs)
	}
	out := make([]core.Record, 0, total)
	for _, recs := range results {
		out = append(out, recs...)
	}
	return out, nil
}
