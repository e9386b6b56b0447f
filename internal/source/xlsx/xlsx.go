// Package xlsx reads line items from an Excel workbook.
package xlsx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"findash/internal/core"
	"findash/internal/source"

	"github.com/xuri/excelize/v2"
)

var _ source.RecordReader = (*Reader)(nil)

// Reader loads records from one sheet of an .xlsx file.
type Reader struct {
	path  string
	sheet string
}

// NewReader returns a reader for path. An empty sheet selects the first sheet.
func NewReader(path, sheet string) *Reader {
	return &Reader{path: path, sheet: sheet}
}

// ReadRecords implements source.RecordReader.
func (r *Reader) ReadRecords(ctx context.Context) ([]core.Record, error) {
	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", r.path, err)
	}
	defer f.Close()

	recs, err := readWorkbook(f, r.sheet)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}
	slog.InfoContext(ctx, "Loaded workbook", "path", r.path, "records", len(recs))
	return recs, nil
}

// Parse reads records from an .xlsx stream.
func Parse(rd io.Reader, sheet string) ([]core.Record, error) {
	f, err := excelize.OpenReader(rd)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return readWorkbook(f, sheet)
}

func readWorkbook(f *excelize.File, sheet string) ([]core.Record, error) {
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}
	header, data := rows[0], rows[1:]

	cols, err := source.MapHeader(header)
	if err != nil {
		return nil, err
	}
	for _, row := range data {
		if cols.Date < len(row) {
			row[cols.Date] = normalizeDate(row[cols.Date])
		}
	}
	return source.ParseRows(header, data)
}

// normalizeDate turns an Excel date serial into the day-month-year layout.
// Text dates are returned unchanged.
func normalizeDate(v string) string {
	v = strings.TrimSpace(v)
	serial, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return v
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return v
	}
	return t.Format("02-01-2006")
}
