package pivot

import (
	"sort"

	"findash/internal/core"

	"github.com/shopspring/decimal"
)

// Million is the divisor used by the fiscal summary chart.
var Million = decimal.NewFromInt(1_000_000)

// SeriesPoint is one point of the monthly line chart.
type SeriesPoint struct {
	MonthYear  string          `json:"month_year"`
	ItemDetail string          `json:"item_detail"`
	Amount     decimal.Decimal `json:"amount"`
}

// SummaryBar is one bar of the fiscal-year chart, in millions.
type SummaryBar struct {
	FiscalYear     string          `json:"fiscal_year"`
	ItemDetail     string          `json:"item_detail"`
	AmountMillions decimal.Decimal `json:"amount_millions"`
}

type bucket struct {
	period string
	detail string
}

func sumBy(records []core.DerivedRecord, period func(core.DerivedRecord) string) ([]bucket, map[bucket]decimal.Decimal) {
	sums := make(map[bucket]decimal.Decimal)
	var keys []bucket
	for _, r := range records {
		b := bucket{period: period(r), detail: r.ItemDetail}
		cur, ok := sums[b]
		if !ok {
			keys = append(keys, b)
			cur = decimal.Zero
		}
		sums[b] = cur.Add(r.Amount)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].period != keys[j].period {
			return keys[i].period < keys[j].period
		}
		return keys[i].detail < keys[j].detail
	})
	return keys, sums
}

// TimeSeries sums amounts per (month-year, item detail), in chronological order.
func TimeSeries(records []core.DerivedRecord) []SeriesPoint {
	keys, sums := sumBy(records, func(r core.DerivedRecord) string { return r.MonthYear })
	out := make([]SeriesPoint, 0, len(keys))
	for _, k := range keys {
		out = append(out, SeriesPoint{MonthYear: k.period, ItemDetail: k.detail, Amount: sums[k]})
	}
	return out
}

// FiscalSummary sums amounts per (fiscal year, item detail) and scales them to millions.
func FiscalSummary(records []core.DerivedRecord) []SummaryBar {
	keys, sums := sumBy(records, func(r core.DerivedRecord) string { return r.FiscalYear })
	out := make([]SummaryBar, 0, len(keys))
	for _, k := range keys {
		out = append(out, SummaryBar{
			FiscalYear:     k.period,
			ItemDetail:     k.detail,
			AmountMillions: sums[k].DivRound(Million, 6),
		})
	}
	return out
}
