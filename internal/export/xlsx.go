// Package export writes the pivot grid to an Excel workbook.
package export

import (
	"fmt"
	"io"

	"findash/internal/core"
	"findash/internal/pivot"

	"github.com/xuri/excelize/v2"
)

const SheetName = "Pivot"

// Header is the first row of the exported sheet.
var Header = func() []string {
	h := []string{core.ColumnSite, core.ColumnItem, core.ColumnItemDetail, "Fiscal Year"}
	h = append(h, core.FiscalMonths[:]...)
	return append(h, "Total")
}()

// #,##0 thousands separated, no decimals
const numberFormat = 3

// WriteXLSX writes rows to w as a single-sheet workbook. Month and total
// cells are numeric; zero months are left empty like the dashboard grid.
func WriteXLSX(w io.Writer, rows []pivot.Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("set sheet name: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#333333"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	textStyle, err := f.NewStyle(&excelize.Style{Border: thinBorders()})
	if err != nil {
		return fmt.Errorf("create text style: %w", err)
	}
	numStyle, err := f.NewStyle(&excelize.Style{NumFmt: numberFormat, Border: thinBorders()})
	if err != nil {
		return fmt.Errorf("create number style: %w", err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{
		NumFmt: numberFormat,
		Font:   &excelize.Font{Bold: true},
		Border: thinBorders(),
	})
	if err != nil {
		return fmt.Errorf("create total style: %w", err)
	}

	lastCol, err := excelize.ColumnNumberToName(len(Header))
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetName, "A1", &Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, r := range rows {
		line := i + 2
		values := make([]any, 0, len(Header))
		values = append(values, r.Site, r.Item, r.ItemDetail, r.FiscalYear)
		for _, m := range r.Months {
			if m.IsZero() {
				values = append(values, nil)
				continue
			}
			values = append(values, m.InexactFloat64())
		}
		if r.Total.IsZero() {
			values = append(values, nil)
		} else {
			values = append(values, r.Total.InexactFloat64())
		}

		cell := fmt.Sprintf("A%d", line)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", line, err)
		}
		if err := f.SetCellStyle(SheetName, cell, fmt.Sprintf("D%d", line), textStyle); err != nil {
			return err
		}
		if err := f.SetCellStyle(SheetName, fmt.Sprintf("E%d", line), fmt.Sprintf("P%d", line), numStyle); err != nil {
			return err
		}
		if err := f.SetCellStyle(SheetName, fmt.Sprintf("%s%d", lastCol, line), fmt.Sprintf("%s%d", lastCol, line), totalStyle); err != nil {
			return err
		}
	}

	widths := map[string]float64{"A": 10, "B": 18, "C": 32, "D": 12}
	for col, wdt := range widths {
		if err := f.SetColWidth(SheetName, col, col, wdt); err != nil {
			return fmt.Errorf("set col width %s: %w", col, err)
		}
	}
	if err := f.SetColWidth(SheetName, "E", lastCol, 13); err != nil {
		return fmt.Errorf("set month widths: %w", err)
	}
	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		XSplit:      4,
		YSplit:      1,
		TopLeftCell: "E2",
		ActivePane:  "bottomRight",
	}); err != nil {
		return fmt.Errorf("freeze panes: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func thinBorders() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "#CCCCCC", Style: 1},
		{Type: "right", Color: "#CCCCCC", Style: 1},
		{Type: "top", Color: "#CCCCCC", Style: 1},
		{Type: "bottom", Color: "#CCCCCC", Style: 1},
	}
}
