package cli

import (
	"strings"
	"testing"

	"findash/internal/filter"
	"findash/internal/pivot"
)

func TestRenderTableEmpty(t *testing.T) {
	if got := RenderTable(Table{}); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(Table{
		Title:       "Totals",
		Headers:     []string{"Site", "Total"},
		Rows:        [][]string{{"SDCT", "1,250,000"}, {"KTN", "500"}},
		NumericFrom: 1,
	})
	for _, want := range []string{"Totals", "Site", "Total", "SDCT", "1,250,000", "KTN", "500"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPivotTable(t *testing.T) {
	row := pivot.DisplayRow{
		Site:       "SDCT",
		Item:       "Revenue",
		ItemDetail: "[1003] Revenue Total",
		FiscalYear: "2023",
		Total:      "1,250,000",
	}
	row.Months[1] = "1,250,000"

	tbl := PivotTable("t", []pivot.DisplayRow{row})
	if len(tbl.Headers) != 17 {
		t.Fatalf("expected 17 columns, got %d", len(tbl.Headers))
	}
	if tbl.Headers[4] != "Sep" || tbl.Headers[15] != "Aug" || tbl.Headers[16] != "Total" {
		t.Fatalf("unexpected headers: %v", tbl.Headers)
	}
	if len(tbl.Rows) != 1 || len(tbl.Rows[0]) != 17 {
		t.Fatalf("unexpected rows: %v", tbl.Rows)
	}
	if tbl.Rows[0][5] != "1,250,000" || tbl.Rows[0][4] != "" {
		t.Fatalf("month cells misplaced: %v", tbl.Rows[0])
	}
}

func TestDescribeFilters(t *testing.T) {
	tests := []struct {
		name string
		f    filter.Filters
		want string
	}{
		{"none", filter.None(), "All rows"},
		{
			"site and year",
			filter.Filters{
				Sites:       filter.NewSelection("SDCT", "KTN"),
				FiscalYears: filter.NewFiscalYearSelection("2023"),
			},
			"site=KTN,SDCT  fy=2023",
		},
		{
			"sentinel year",
			filter.Filters{FiscalYears: filter.NewFiscalYearSelection("none", "2023")},
			"All rows",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describeFilters(tt.f); got != tt.want {
				t.Fatalf("describeFilters() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFilterFlags(t *testing.T) {
	ff := filterFlags{sites: []string{"SDCT", " "}, fiscalYears: []string{"none"}}
	f := ff.Filters()
	if !f.Sites.Contains("SDCT") || f.Sites.Contains("KTN") {
		t.Fatalf("unexpected site selection %s", f.Sites)
	}
	if !f.ItemDetails.IsUnrestricted() || !f.FiscalYears.IsUnrestricted() {
		t.Fatalf("expected unrestricted detail and year, got %s", f.Key())
	}
}
