// Package source reads raw line items from tabular sources.
//
// Every backend turns its input into a header row plus string cells and hands
// them to ParseRows, so all sources share the same validation rules.
package source

import (
	"errors"
	"fmt"
	"strings"

	"findash/internal/core"
)

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing column")

// RequiredColumns are the header names every source must provide.
var RequiredColumns = []string{
	core.ColumnDate,
	core.ColumnSite,
	core.ColumnItem,
	core.ColumnItemDetail,
	core.ColumnAmount,
}

// Columns holds the position of each required column in a header row.
type Columns struct {
	Date, Site, Item, ItemDetail, Amount int
}

// MapHeader locates the required columns. Matching ignores case and
// surrounding whitespace; extra columns are allowed.
func MapHeader(header []string) (Columns, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		norm := normalizeHeader(h)
		if _, dup := pos[norm]; !dup {
			pos[norm] = i
		}
	}
	var missing []string
	find := func(name string) int {
		i, ok := pos[normalizeHeader(name)]
		if !ok {
			missing = append(missing, name)
			return -1
		}
		return i
	}
	cols := Columns{
		Date:       find(core.ColumnDate),
		Site:       find(core.ColumnSite),
		Item:       find(core.ColumnItem),
		ItemDetail: find(core.ColumnItemDetail),
		Amount:     find(core.ColumnAmount),
	}
	if len(missing) > 0 {
		return Columns{}, fmt.Errorf("%w: %s; got headers=%v", ErrMissingColumn, strings.Join(missing, ","), header)
	}
	return cols, nil
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.Join(strings.Fields(h), " "))
}

// ParseRows converts string rows into records. Row numbers in errors are
// 1-based sheet rows, counting the header as row 1. Blank rows are skipped.
// The first malformed row aborts the parse.
func ParseRows(header []string, rows [][]string) ([]core.Record, error) {
	cols, err := MapHeader(header)
	if err != nil {
		return nil, err
	}
	out := make([]core.Record, 0, len(rows))
	for i, row := range rows {
		if isBlank(row) {
			continue
		}
		rec, err := parseRow(cols, row)
		if err != nil {
			var de *core.DataError
			if errors.As(err, &de) {
				de.Row = i + 2
			}
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func parseRow(cols Columns, row []string) (core.Record, error) {
	dateStr := cell(row, cols.Date)
	date, err := core.ParseDate(dateStr)
	if err != nil {
		return core.Record{}, &core.DataError{Column: core.ColumnDate, Value: dateStr, Err: err}
	}
	amountStr := cell(row, cols.Amount)
	amount, err := core.ParseAmount(amountStr)
	if err != nil {
		return core.Record{}, &core.DataError{Column: core.ColumnAmount, Value: amountStr, Err: err}
	}
	rec := core.NewRecord(date,
		cell(row, cols.Site),
		cell(row, cols.Item),
		cell(row, cols.ItemDetail),
		amount)
	if err := rec.Validate(); err != nil {
		return core.Record{}, err
	}
	return rec, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
