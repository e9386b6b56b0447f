// Package pivot reshapes derived line items into the fiscal-year grid and the
// chart series shown on the dashboard.
package pivot

import (
	"sort"

	"findash/internal/core"

	"github.com/shopspring/decimal"
)

// Key identifies one row of the pivot grid.
type Key struct {
	Site       string
	Item       string
	ItemDetail string
	FiscalYear string
}

// Less orders keys by site, item, item detail and fiscal year.
func (k Key) Less(o Key) bool {
	if k.Site != o.Site {
		return k.Site < o.Site
	}
	if k.Item != o.Item {
		return k.Item < o.Item
	}
	if k.ItemDetail != o.ItemDetail {
		return k.ItemDetail < o.ItemDetail
	}
	return k.FiscalYear < o.FiscalYear
}

// Row is one line of the pivot grid. Months are in fiscal order (Sep..Aug).
// Total always equals the sum of Months; use Add to change amounts.
type Row struct {
	Key
	Months [12]decimal.Decimal
	Total  decimal.Decimal
}

// NewRow returns a row with every month set to an explicit zero.
func NewRow(k Key) Row {
	r := Row{Key: k, Total: decimal.Zero}
	for i := range r.Months {
		r.Months[i] = decimal.Zero
	}
	return r
}

// Add accumulates amount into the given fiscal month and recomputes Total.
func (r *Row) Add(month int, amount decimal.Decimal) {
	r.Months[month] = r.Months[month].Add(amount)
	r.recompute()
}

func (r *Row) recompute() {
	total := decimal.Zero
	for _, m := range r.Months {
		total = total.Add(m)
	}
	r.Total = total
}

// Month returns the amount for a month abbreviation such as "Oct".
func (r Row) Month(abbrev string) decimal.Decimal {
	for i, m := range core.FiscalMonths {
		if m == abbrev {
			return r.Months[i]
		}
	}
	return decimal.Zero
}

// Build groups records by (site, item, item detail, fiscal year), sums the
// amounts per fiscal month and returns the rows sorted by key.
func Build(records []core.DerivedRecord) []Row {
	index := make(map[Key]int)
	var rows []Row

	for _, rec := range records {
		k := Key{
			Site:       rec.Site,
			Item:       rec.Item,
			ItemDetail: rec.ItemDetail,
			FiscalYear: rec.FiscalYear,
		}
		i, ok := index[k]
		if !ok {
			i = len(rows)
			index[k] = i
			rows = append(rows, NewRow(k))
		}
		rows[i].Add(core.FiscalMonthIndex(rec.Date), rec.Amount)
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Key.Less(rows[j].Key)
	})
	return rows
}
