package source

import (
	"context"
	"time"

	"findash/internal/core"
)

// Ports for record sources and sinks.
type (
	// RecordReader loads the full set of raw line items.
	RecordReader interface {
		ReadRecords(ctx context.Context) ([]core.Record, error)
	}

	// RecordWriter replaces the stored line items with a new import.
	RecordWriter interface {
		// ReplaceRecords stores imp atomically and returns a reference to it.
		ReplaceRecords(ctx context.Context, imp Import) (ref string, err error)
	}

	// Import is one batch of records read from a named source.
	Import struct {
		Source     string
		Records    []core.Record
		ImportedAt time.Time
	}
)
