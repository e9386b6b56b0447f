package filter

import (
	"findash/internal/core"
	"findash/internal/pivot"
)

// Filters holds the three dashboard selections. A value passes only when
// it matches all of them.
type Filters struct {
	Sites       Selection
	ItemDetails Selection
	FiscalYears Selection
}

// None returns filters that restrict nothing.
func None() Filters {
	return Filters{}
}

// Key returns a canonical string for the filters, usable as a cache key.
func (f Filters) Key() string {
	return "site=" + f.Sites.String() + ";detail=" + f.ItemDetails.String() + ";fy=" + f.FiscalYears.String()
}

// Match reports whether a (site, item detail, fiscal year) triple passes.
func (f Filters) Match(site, itemDetail, fiscalYear string) bool {
	return f.Sites.Contains(site) &&
		f.ItemDetails.Contains(itemDetail) &&
		f.FiscalYears.Contains(fiscalYear)
}

func apply[T any](in []T, f Filters, dims func(T) (string, string, string)) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if f.Match(dims(v)) {
			out = append(out, v)
		}
	}
	return out
}

// Records returns the derived records that pass f. The input is not modified.
func Records(records []core.DerivedRecord, f Filters) []core.DerivedRecord {
	return apply(records, f, func(r core.DerivedRecord) (string, string, string) {
		return r.Site, r.ItemDetail, r.FiscalYear
	})
}

// Rows returns the pivot rows that pass f. The input is not modified.
func Rows(rows []pivot.Row, f Filters) []pivot.Row {
	return apply(rows, f, func(r pivot.Row) (string, string, string) {
		return r.Site, r.ItemDetail, r.FiscalYear
	})
}
