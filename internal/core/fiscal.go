package core

import (
	"strconv"
	"time"
)

// FiscalYearStart is the calendar month that opens a fiscal year.
const FiscalYearStart = time.September

// FiscalMonths lists the month abbreviations in fiscal order.
var FiscalMonths = [12]string{"Sep", "Oct", "Nov", "Dec", "Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug"}

// FiscalYear returns the label of the fiscal year containing t, which is
// the calendar year the fiscal year started in.
func FiscalYear(t time.Time) string {
	return strconv.Itoa(fiscalYear(t))
}

func fiscalYear(t time.Time) int {
	if t.Month() < FiscalYearStart {
		return t.Year() - 1
	}
	return t.Year()
}

// MonthYear returns a sortable "YYYY-MM" label.
func MonthYear(t time.Time) string {
	return t.Format("2006-01")
}

// MonthAbbrev returns the three letter English month name.
func MonthAbbrev(t time.Time) string {
	return FiscalMonths[FiscalMonthIndex(t)]
}

// FiscalMonthIndex is the position of t's month in FiscalMonths (Sep=0, Aug=11).
func FiscalMonthIndex(t time.Time) int {
	return (int(t.Month()) - int(FiscalYearStart) + 12) % 12
}
