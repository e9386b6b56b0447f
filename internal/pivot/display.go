package pivot

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// DisplayRow is the formatted projection of a Row used by the data grid.
type DisplayRow struct {
	Site       string     `json:"site"`
	Item       string     `json:"item"`
	ItemDetail string     `json:"item_detail"`
	FiscalYear string     `json:"fiscal_year"`
	Months     [12]string `json:"months"`
	Total      string     `json:"total"`
}

// FormatAmount renders the integer part of d with thousands separators.
// Zero renders as the empty string.
func FormatAmount(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return humanize.Comma(d.IntPart())
}

// Display formats a single row.
func Display(r Row) DisplayRow {
	out := DisplayRow{
		Site:       r.Site,
		Item:       r.Item,
		ItemDetail: r.ItemDetail,
		FiscalYear: r.FiscalYear,
		Total:      FormatAmount(r.Total),
	}
	for i, m := range r.Months {
		out.Months[i] = FormatAmount(m)
	}
	return out
}

// DisplayAll formats rows preserving their order.
func DisplayAll(rows []Row) []DisplayRow {
	out := make([]DisplayRow, len(rows))
	for i, r := range rows {
		out[i] = Display(r)
	}
	return out
}
