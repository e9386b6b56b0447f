package core

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// ParseMust is a test helper that panics on invalid amounts.
func ParseMust(s string) decimal.Decimal {
	d, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		out  string
		want error
	}{
		{"1", "1", nil},
		{"1.25", "1.25", nil},
		{" 150000 ", "150000", nil},
		{"1,234.50", "1234.5", nil},
		{"-7", "-7", nil},
		{"(200)", "-200", nil},
		{"1 000", "1000", nil},
		{"0", "0", nil},
		{"", "", ErrMissingField},
		{"abc", "", ErrInvalidAmount},
		{"1.2.3", "", ErrInvalidAmount},
		{"(-5)", "", ErrInvalidAmount},
		{"()", "", ErrInvalidAmount},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.want != nil {
			if !errors.Is(err, tc.want) {
				t.Errorf("ParseAmount(%q) err = %v, want %v", tc.in, err, tc.want)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAmount(%q) unexpected error: %v", tc.in, err)
			continue
		}
		if !got.Equal(decimal.RequireFromString(tc.out)) {
			t.Errorf("ParseAmount(%q) = %s, want %s", tc.in, got, tc.out)
		}
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("15-10-2023")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(time.Date(2023, time.October, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("got %v", got)
	}
	if _, err := ParseDate("5-2-2024"); err != nil {
		t.Fatalf("unpadded date rejected: %v", err)
	}
	for _, bad := range []string{"2023-10-15", "32-01-2024", "15/10/2023", "yesterday"} {
		if _, err := ParseDate(bad); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("ParseDate(%q) err = %v, want ErrInvalidDate", bad, err)
		}
	}
	if _, err := ParseDate("  "); !errors.Is(err, ErrMissingField) {
		t.Errorf("blank date err = %v, want ErrMissingField", err)
	}
}

func TestDataErrorUnwrap(t *testing.T) {
	err := error(&DataError{Row: 4, Column: ColumnAmount, Value: "n/a", Err: ErrInvalidAmount})
	if !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("errors.Is failed through DataError")
	}
	var de *DataError
	if !errors.As(err, &de) || de.Row != 4 {
		t.Fatalf("errors.As failed: %v", err)
	}
	want := `data error at row 4 column "Amount" value "n/a": invalid amount`
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestRecordValidate(t *testing.T) {
	ok := NewRecord(time.Now(), "A", "Rev", "D1", decimal.NewFromInt(1))
	if err := ok.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bad := ok
	bad.ItemDetail = " "
	err := bad.Validate()
	var de *DataError
	if !errors.As(err, &de) || de.Column != ColumnItemDetail || !errors.Is(err, ErrMissingField) {
		t.Fatalf("unexpected error: %v", err)
	}
}
