package backend

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"findash/internal/source"
	"findash/internal/source/csvfile"
	"findash/internal/source/google"
	"findash/internal/source/memory"
	"findash/internal/source/xlsx"
	"findash/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if config.Type.FileBased() {
		return f.createFileBackend(config)
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case SheetsBackend:
		return f.createSheetsBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createFileBackend(config Config) (*BackendResult, error) {
	readers := make([]source.RecordReader, len(config.Files))
	for i, path := range config.Files {
		readers[i] = FileReader(config.Type, path, config.XLSXSheet)
	}

	f.logger.Info("Initialized file backend",
		"component", "backend",
		"backend", config.Type.String(),
		"files", strings.Join(config.Files, ","))

	if len(readers) == 1 {
		return &BackendResult{Reader: readers[0]}, nil
	}
	return &BackendResult{Reader: NewMultiReader(config.Files, readers)}, nil
}

// FileReader returns the reader for a single data file of the given type.
func FileReader(t BackendType, path, sheet string) source.RecordReader {
	if t == CSVBackend {
		return csvfile.NewReader(path)
	}
	return xlsx.NewReader(path, sheet)
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "component", "backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Reader:  repo,
		Writer:  repo,
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context, config Config) (*BackendResult, error) {
	cli, err := google.New(ctx, google.Config{
		SpreadsheetID:   config.GoogleSpreadsheetID,
		Range:           config.GoogleSheetRange,
		CredentialsFile: config.GoogleCredentialsFile,
		CredentialsJSON: config.GoogleCredentialsJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets backend", "component", "backend", "range", config.GoogleSheetRange)

	return &BackendResult{Reader: cli}, nil
}

func (f *DefaultFactory) createMemoryBackend() (*BackendResult, error) {
	store := memory.New()
	f.logger.Info("Initialized memory backend", "component", "backend")
	return &BackendResult{Reader: store, Writer: store}, nil
}
