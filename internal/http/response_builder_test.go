package http

import (
	"fmt"
	"testing"

	"findash/internal/dataset"
	"findash/internal/pivot"

	"github.com/shopspring/decimal"
)

func displayRows(n int) []pivot.DisplayRow {
	rows := make([]pivot.DisplayRow, n)
	for i := range rows {
		rows[i] = pivot.DisplayRow{Site: fmt.Sprintf("S%02d", i)}
	}
	return rows
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name      string
		n, page   int
		size      int
		wantPage  int
		wantPages int
		wantRows  int
		wantFirst string
	}{
		{"first page", 250, 1, 100, 1, 3, 100, "S00"},
		{"last partial page", 250, 3, 100, 3, 3, 50, "S200"},
		{"past the end clamps", 250, 9, 100, 3, 3, 50, "S200"},
		{"empty grid", 0, 1, 100, 1, 1, 0, ""},
		{"exact multiple", 200, 2, 100, 2, 2, 100, "S100"},
		{"zero size shows everything", 5, 1, 0, 1, 1, 5, "S00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(displayRows(tt.n), tt.page, tt.size)
			if p.Page != tt.wantPage || p.Pages != tt.wantPages || len(p.Rows) != tt.wantRows || p.TotalRows != tt.n {
				t.Fatalf("Paginate() = page %d/%d rows %d total %d", p.Page, p.Pages, len(p.Rows), p.TotalRows)
			}
			if tt.wantRows > 0 && p.Rows[0].Site != tt.wantFirst {
				t.Errorf("first row = %s, want %s", p.Rows[0].Site, tt.wantFirst)
			}
			if len(p.Months) != 12 || p.Months[0] != "Sep" {
				t.Errorf("months = %v", p.Months)
			}
		})
	}
}

func TestPagerNavigation(t *testing.T) {
	p := Paginate(displayRows(30), 2, 10)
	if !p.HasPrev() || !p.HasNext() || p.PrevPage() != 1 || p.NextPage() != 3 {
		t.Fatalf("unexpected navigation: %+v", p)
	}
	first := Paginate(displayRows(30), 1, 10)
	if first.HasPrev() {
		t.Error("first page has no previous")
	}
}

func TestBuildViewResponse(t *testing.T) {
	v := dataset.View{
		TimeSeries:    []pivot.SeriesPoint{{MonthYear: "2023-10", ItemDetail: "D", Amount: decimal.RequireFromString("12.5")}},
		FiscalSummary: []pivot.SummaryBar{{FiscalYear: "2023", ItemDetail: "D", AmountMillions: decimal.RequireFromString("1.25")}},
		Table:         displayRows(3),
	}
	resp := BuildViewResponse(v, 1, 2)
	if resp.TimeSeries[0].Amount != 12.5 || resp.FiscalSummary[0].AmountMillions != 1.25 {
		t.Fatalf("unexpected conversion: %+v", resp)
	}
	if resp.Table.Pages != 2 || len(resp.Table.Rows) != 2 {
		t.Fatalf("unexpected table: %+v", resp.Table)
	}
}
