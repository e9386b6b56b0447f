package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"findash/internal/core"
	"findash/internal/source"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

var (
	_ source.RecordReader = (*SQLiteRepository)(nil)
	_ source.RecordWriter = (*SQLiteRepository)(nil)
)

// ErrNoImport is returned when the database holds no import yet.
var ErrNoImport = errors.New("no import found")

// ImportInfo describes a stored import.
type ImportInfo struct {
	ID          int64
	Source      string
	RecordCount int
	ImportedAt  time.Time
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ReplaceRecords implements source.RecordWriter. The previous records are
// removed and the new import is written in a single transaction.
func (r *SQLiteRepository) ReplaceRecords(ctx context.Context, imp source.Import) (string, error) {
	for i, rec := range imp.Records {
		if err := rec.Validate(); err != nil {
			return "", fmt.Errorf("record %d: %w", i+1, err)
		}
	}
	importedAt := imp.ImportedAt
	if importedAt.IsZero() {
		importedAt = time.Now()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO imports (source, record_count, imported_at) VALUES (?, ?, ?)`,
		imp.Source, len(imp.Records), importedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("insert import: %w", err)
	}
	importID, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("import id: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return "", fmt.Errorf("clear records: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (import_id, date, site, item, item_detail, amount) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range imp.Records {
		if _, err := stmt.ExecContext(ctx, importID,
			rec.Date.Format(dateLayout), rec.Site, rec.Item, rec.ItemDetail, rec.Amount.String()); err != nil {
			return "", fmt.Errorf("insert record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit import: %w", err)
	}

	slog.InfoContext(ctx, "Import saved to SQLite",
		"import_id", importID,
		"source", imp.Source,
		"records", len(imp.Records))

	return strconv.FormatInt(importID, 10), nil
}

// ReadRecords implements source.RecordReader.
func (r *SQLiteRepository) ReadRecords(ctx context.Context) ([]core.Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT date, site, item, item_detail, amount FROM records ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var out []core.Record
	for rows.Next() {
		var dateStr, site, item, detail, amountStr string
		if err := rows.Scan(&dateStr, &site, &item, &detail, &amountStr); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		date, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			return nil, &core.DataError{Row: len(out) + 1, Column: core.ColumnDate, Value: dateStr, Err: core.ErrInvalidDate}
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, &core.DataError{Row: len(out) + 1, Column: core.ColumnAmount, Value: amountStr, Err: core.ErrInvalidAmount}
		}
		out = append(out, core.NewRecord(date, site, item, detail, amount))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

// LatestImport returns metadata about the most recent import.
func (r *SQLiteRepository) LatestImport(ctx context.Context) (ImportInfo, error) {
	var (
		info       ImportInfo
		importedAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, source, record_count, imported_at FROM imports ORDER BY id DESC LIMIT 1`).
		Scan(&info.ID, &info.Source, &info.RecordCount, &importedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ImportInfo{}, ErrNoImport
	}
	if err != nil {
		return ImportInfo{}, fmt.Errorf("query latest import: %w", err)
	}
	info.ImportedAt, err = time.Parse(time.RFC3339, importedAt)
	if err != nil {
		return ImportInfo{}, fmt.Errorf("parse import time %q: %w", importedAt, err)
	}
	return info, nil
}
