// Package csvfile reads line items from a CSV export of the report.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"

	"findash/internal/core"
	"findash/internal/source"
)

var _ source.RecordReader = (*Reader)(nil)

// Reader loads records from a CSV file with a header row.
type Reader struct {
	path string
}

func NewReader(path string) *Reader {
	return &Reader{path: path}
}

// ReadRecords implements source.RecordReader.
func (r *Reader) ReadRecords(ctx context.Context) ([]core.Record, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open csv %s: %w", r.path, err)
	}
	defer f.Close()

	recs, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}
	slog.InfoContext(ctx, "Loaded CSV file", "path", r.path, "records", len(recs))
	return recs, nil
}

// Parse reads records from CSV content.
func Parse(rd io.Reader) ([]core.Record, error) {
	reader := csv.NewReader(rd)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	all, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("file must contain a header row")
	}
	return source.ParseRows(all[0], all[1:])
}
