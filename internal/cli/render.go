package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"findash/internal/core"
	"findash/internal/pivot"
)

// Theme colors
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Padding(0, 1)

	amountStyle = cellStyle.
			Foreground(ColorGreen).
			Align(lipgloss.Right)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)
)

// Table is a bordered text table for CLI output. Columns from NumericFrom
// onwards are right aligned.
type Table struct {
	Title       string
	Headers     []string
	Rows        [][]string
	NumericFrom int
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders a bordered table with headers and rows.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorBorder)).
		Headers(t.Headers...).
		Rows(t.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case t.NumericFrom > 0 && col >= t.NumericFrom:
				return amountStyle
			default:
				return cellStyle
			}
		})

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}
	b.WriteString(tbl.Render())
	b.WriteString("\n")
	return b.String()
}

// PivotTable lays out display rows in the dashboard grid column order.
func PivotTable(title string, rows []pivot.DisplayRow) Table {
	headers := []string{core.ColumnSite, core.ColumnItem, core.ColumnItemDetail, "Fiscal Year"}
	headers = append(headers, core.FiscalMonths[:]...)
	headers = append(headers, "Total")

	out := Table{Title: title, Headers: headers, NumericFrom: 4}
	for _, r := range rows {
		cells := []string{r.Site, r.Item, r.ItemDetail, r.FiscalYear}
		cells = append(cells, r.Months[:]...)
		cells = append(cells, r.Total)
		out.Rows = append(out.Rows, cells)
	}
	return out
}

// RenderSummary renders a muted one-line footer below a table.
func RenderSummary(format string, args ...any) string {
	return mutedStyle.Render(fmt.Sprintf("  "+format, args...)) + "\n"
}
