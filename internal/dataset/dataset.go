// Package dataset holds the immutable snapshot the dashboard is served from.
//
// A Snapshot is built once from the loaded records: every record is annotated
// with its fiscal calendar labels and the pivot grid is computed up front.
// After construction nothing writes to it, so a single *Snapshot can be shared
// by all request handlers without locking.
package dataset

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"findash/internal/core"
	"findash/internal/filter"
	"findash/internal/pivot"
	"findash/internal/source"
)

// Snapshot is the read-only dataset: derived records plus the pivot grid.
type Snapshot struct {
	records []core.DerivedRecord
	rows    []pivot.Row
	options Options
}

// Options lists the distinct values offered by the filter dropdowns.
type Options struct {
	Sites       []string `json:"sites"`
	ItemDetails []string `json:"item_details"`
	FiscalYears []string `json:"fiscal_years"`
}

// Stats summarises the snapshot for logs and health output.
type Stats struct {
	Records   int `json:"records"`
	PivotRows int `json:"pivot_rows"`
	Sites     int `json:"sites"`
}

// View is everything the dashboard needs for one filter selection.
type View struct {
	Filters       filter.Filters
	TimeSeries    []pivot.SeriesPoint
	FiscalSummary []pivot.SummaryBar
	Rows          []pivot.Row
	Table         []pivot.DisplayRow
}

// New builds a snapshot from raw records.
func New(records []core.Record) *Snapshot {
	derived := core.DeriveAll(records)
	return &Snapshot{
		records: derived,
		rows:    pivot.Build(derived),
		options: buildOptions(derived),
	}
}

// Load reads every record from r and builds the snapshot. Any read or
// parse error aborts the load; no partial snapshot is returned.
func Load(ctx context.Context, r source.RecordReader) (*Snapshot, error) {
	records, err := r.ReadRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	for i, rec := range records {
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
	}
	return New(records), nil
}

func buildOptions(records []core.DerivedRecord) Options {
	var opts Options
	sites := map[string]struct{}{}
	details := map[string]struct{}{}
	years := map[string]struct{}{}
	for _, r := range records {
		if _, ok := sites[r.Site]; !ok {
			sites[r.Site] = struct{}{}
			opts.Sites = append(opts.Sites, r.Site)
		}
		if _, ok := details[r.ItemDetail]; !ok {
			details[r.ItemDetail] = struct{}{}
			opts.ItemDetails = append(opts.ItemDetails, r.ItemDetail)
		}
		if _, ok := years[r.FiscalYear]; !ok {
			years[r.FiscalYear] = struct{}{}
			opts.FiscalYears = append(opts.FiscalYears, r.FiscalYear)
		}
	}
	sort.Strings(opts.ItemDetails)
	sort.Strings(opts.FiscalYears)
	return opts
}

// Records returns a copy of the derived records.
func (s *Snapshot) Records() []core.DerivedRecord {
	return slices.Clone(s.records)
}

// Rows returns a copy of the full pivot grid.
func (s *Snapshot) Rows() []pivot.Row {
	return slices.Clone(s.rows)
}

// Options returns the filter choices. Sites keep first-appearance order;
// item details and fiscal years are sorted.
func (s *Snapshot) Options() Options {
	return Options{
		Sites:       slices.Clone(s.options.Sites),
		ItemDetails: slices.Clone(s.options.ItemDetails),
		FiscalYears: slices.Clone(s.options.FiscalYears),
	}
}

func (s *Snapshot) Stats() Stats {
	return Stats{
		Records:   len(s.records),
		PivotRows: len(s.rows),
		Sites:     len(s.options.Sites),
	}
}

// Render filters the records and the grid with the same selections and
// derives the chart series and display table from the result. The table
// keeps the grid order (site, item, item detail, fiscal year).
func (s *Snapshot) Render(f filter.Filters) View {
	records := filter.Records(s.records, f)
	rows := filter.Rows(s.rows, f)
	return View{
		Filters:       f,
		TimeSeries:    pivot.TimeSeries(records),
		FiscalSummary: pivot.FiscalSummary(records),
		Rows:          rows,
		Table:         pivot.DisplayAll(rows),
	}
}
