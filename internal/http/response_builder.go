package http

import (
	"findash/internal/core"
	"findash/internal/dataset"
	"findash/internal/pivot"
)

// ViewResponse is the JSON body of /api/view.
type ViewResponse struct {
	TimeSeries    []SeriesPointJSON `json:"time_series"`
	FiscalSummary []SummaryBarJSON  `json:"fiscal_summary"`
	Table         TablePage         `json:"table"`
}

// SeriesPointJSON carries chart amounts as plain numbers for Chart.js.
type SeriesPointJSON struct {
	MonthYear  string  `json:"month_year"`
	ItemDetail string  `json:"item_detail"`
	Amount     float64 `json:"amount"`
}

type SummaryBarJSON struct {
	FiscalYear     string  `json:"fiscal_year"`
	ItemDetail     string  `json:"item_detail"`
	AmountMillions float64 `json:"amount_millions"`
}

// TablePage is one page of the display grid.
type TablePage struct {
	Months    []string           `json:"months"`
	Rows      []pivot.DisplayRow `json:"rows"`
	Page      int                `json:"page"`
	Pages     int                `json:"pages"`
	PageSize  int                `json:"page_size"`
	TotalRows int                `json:"total_rows"`
}

func (p TablePage) HasPrev() bool { return p.Page > 1 }
func (p TablePage) HasNext() bool { return p.Page < p.Pages }
func (p TablePage) PrevPage() int { return p.Page - 1 }
func (p TablePage) NextPage() int { return p.Page + 1 }

// Paginate slices rows into the requested page. Pages past the end clamp to
// the last page; an empty grid has a single empty page.
func Paginate(rows []pivot.DisplayRow, page, size int) TablePage {
	if size < 1 {
		size = len(rows)
		if size == 0 {
			size = 1
		}
	}
	pages := (len(rows) + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	start := (page - 1) * size
	end := min(start+size, len(rows))
	return TablePage{
		Months:    core.FiscalMonths[:],
		Rows:      rows[start:end],
		Page:      page,
		Pages:     pages,
		PageSize:  size,
		TotalRows: len(rows),
	}
}

// BuildViewResponse converts a rendered view into its JSON form.
func BuildViewResponse(v dataset.View, page, pageSize int) ViewResponse {
	resp := ViewResponse{
		TimeSeries:    make([]SeriesPointJSON, len(v.TimeSeries)),
		FiscalSummary: make([]SummaryBarJSON, len(v.FiscalSummary)),
		Table:         Paginate(v.Table, page, pageSize),
	}
	for i, p := range v.TimeSeries {
		resp.TimeSeries[i] = SeriesPointJSON{MonthYear: p.MonthYear, ItemDetail: p.ItemDetail, Amount: p.Amount.InexactFloat64()}
	}
	for i, b := range v.FiscalSummary {
		resp.FiscalSummary[i] = SummaryBarJSON{FiscalYear: b.FiscalYear, ItemDetail: b.ItemDetail, AmountMillions: b.AmountMillions.InexactFloat64()}
	}
	return resp
}
