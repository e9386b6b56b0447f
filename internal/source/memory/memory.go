package memory

import (
	"context"
	"fmt"
	"sync"

	"findash/internal/core"
	"findash/internal/source"
)

var (
	_ source.RecordReader = (*Store)(nil)
	_ source.RecordWriter = (*Store)(nil)
)

// Store keeps records in process memory.
type Store struct {
	mu      sync.Mutex
	items   []core.Record
	imports int
}

func New(records ...core.Record) *Store {
	return &Store{items: append([]core.Record(nil), records...)}
}

// ReadRecords returns a copy of the stored records.
func (s *Store) ReadRecords(_ context.Context) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Record(nil), s.items...), nil
}

// ReplaceRecords validates and stores the import, returning a synthetic reference.
func (s *Store) ReplaceRecords(_ context.Context, imp source.Import) (string, error) {
	for i, r := range imp.Records {
		if err := r.Validate(); err != nil {
			return "", fmt.Errorf("record %d: %w", i+1, err)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]core.Record(nil), imp.Records...)
	s.imports++
	return fmt.Sprintf("mem:%d", s.imports), nil
}
