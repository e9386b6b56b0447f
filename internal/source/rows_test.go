package source

import (
	"errors"
	"testing"

	"findash/internal/core"
)

func TestParseRows(t *testing.T) {
	header := []string{"Date", " site ", "ITEM", "Item  Detail", "Amount", "Comment"}
	rows := [][]string{
		{"15-10-2023", "A", "Rev", "D1", "100", "x"},
		{"", "", "", "", ""},
		{"10-02-2024", "A", "Rev", "D1", "1,050.50"},
	}
	recs, err := ParseRows(header, rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[1].Amount.String() != "1050.5" || recs[1].Date.Month() != 2 || recs[0].ItemDetail != "D1" {
		t.Fatalf("unexpected record: %+v", recs[1])
	}
}

func TestParseRowsErrors(t *testing.T) {
	header := []string{"Date", "Site", "Item", "Item Detail", "Amount"}
	cases := []struct {
		name   string
		rows   [][]string
		row    int
		column string
		want   error
	}{
		{"bad date", [][]string{{"15-10-2023", "A", "R", "D", "1"}, {"2023/10/15", "A", "R", "D", "1"}}, 3, core.ColumnDate, core.ErrInvalidDate},
		{"bad amount", [][]string{{"15-10-2023", "A", "R", "D", "ten"}}, 2, core.ColumnAmount, core.ErrInvalidAmount},
		{"missing amount", [][]string{{"15-10-2023", "A", "R", "D"}}, 2, core.ColumnAmount, core.ErrMissingField},
		{"missing site", [][]string{{"15-10-2023", "", "R", "D", "1"}}, 2, core.ColumnSite, core.ErrMissingField},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recs, err := ParseRows(header, tc.rows)
			if recs != nil {
				t.Fatalf("partial result returned: %v", recs)
			}
			var de *core.DataError
			if !errors.As(err, &de) {
				t.Fatalf("expected DataError, got %v", err)
			}
			if de.Row != tc.row || de.Column != tc.column || !errors.Is(err, tc.want) {
				t.Fatalf("got %+v, want row %d column %s err %v", de, tc.row, tc.column, tc.want)
			}
		})
	}
}

func TestMapHeaderMissing(t *testing.T) {
	_, err := MapHeader([]string{"Date", "Site", "Amount"})
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}
