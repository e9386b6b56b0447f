package backend

import (
	"context"

	"findash/internal/source"
)

// CleanupFunc releases resources held by a backend
type CleanupFunc func() error

// BackendResult holds the reader for the selected backend. Writer is nil for
// read-only backends (xlsx, csv, sheets).
type BackendResult struct {
	Reader  source.RecordReader
	Writer  source.RecordWriter
	Cleanup CleanupFunc
}

// Close runs Cleanup when one is set.
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// xlsx and csv
	Files     []string
	XLSXSheet string

	// sqlite
	SQLiteDBPath string

	// sheets
	GoogleSpreadsheetID   string
	GoogleSheetRange      string
	GoogleCredentialsFile string
	GoogleCredentialsJSON string
}

type BackendType string

const (
	XLSXBackend   BackendType = "xlsx"
	CSVBackend    BackendType = "csv"
	SheetsBackend BackendType = "sheets"
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case XLSXBackend, CSVBackend, SheetsBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// FileBased reports whether the backend reads DATA_FILES.
func (bt BackendType) FileBased() bool {
	return bt == XLSXBackend || bt == CSVBackend
}
