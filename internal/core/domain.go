package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type (
	// Record is one raw line item as read from the source spreadsheet.
	Record struct {
		Date       time.Time
		Site       string
		Item       string
		ItemDetail string
		Amount     decimal.Decimal
	}

	// DerivedRecord is a Record annotated with its fiscal calendar labels.
	DerivedRecord struct {
		Record
		FiscalYear  string
		MonthYear   string
		MonthAbbrev string
	}
)

// Column names as they appear in the source header row.
const (
	ColumnDate       = "Date"
	ColumnSite       = "Site"
	ColumnItem       = "Item"
	ColumnItemDetail = "Item Detail"
	ColumnAmount     = "Amount"
)

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrMissingField  = errors.New("missing required field")
)

// DataError reports a malformed or missing field in a source record.
// Row is the 1-based row number in the source sheet (header is row 1), or 0 when unknown.
type DataError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *DataError) Error() string {
	var b strings.Builder
	b.WriteString("data error")
	if e.Row > 0 {
		fmt.Fprintf(&b, " at row %d", e.Row)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, " column %q", e.Column)
	}
	if e.Value != "" {
		fmt.Fprintf(&b, " value %q", e.Value)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *DataError) Unwrap() error { return e.Err }

// Validate checks that every required field of the record is present.
func (r Record) Validate() error {
	if r.Date.IsZero() {
		return &DataError{Column: ColumnDate, Err: ErrMissingField}
	}
	if strings.TrimSpace(r.Site) == "" {
		return &DataError{Column: ColumnSite, Err: ErrMissingField}
	}
	if strings.TrimSpace(r.Item) == "" {
		return &DataError{Column: ColumnItem, Err: ErrMissingField}
	}
	if strings.TrimSpace(r.ItemDetail) == "" {
		return &DataError{Column: ColumnItemDetail, Err: ErrMissingField}
	}
	return nil
}

// NewRecord builds a record from already typed values. The date is truncated to UTC midnight.
func NewRecord(date time.Time, site, item, detail string, amount decimal.Decimal) Record {
	return Record{
		Date:       time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
		Site:       site,
		Item:       item,
		ItemDetail: detail,
		Amount:     amount,
	}
}

// Derive annotates a record with its fiscal year, month-year and month abbreviation.
func Derive(r Record) DerivedRecord {
	return DerivedRecord{
		Record:      r,
		FiscalYear:  FiscalYear(r.Date),
		MonthYear:   MonthYear(r.Date),
		MonthAbbrev: MonthAbbrev(r.Date),
	}
}

// DeriveAll annotates every record, preserving order.
func DeriveAll(records []Record) []DerivedRecord {
	out := make([]DerivedRecord, len(records))
	for i, r := range records {
		out[i] = Derive(r)
	}
	return out
}
