package cli

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"findash/internal/export"
	"findash/internal/filter"
	"findash/internal/pivot"
)

func newPivotCommand(a *app) *cobra.Command {
	var ff filterFlags

	cmd := &cobra.Command{
		Use:   "pivot",
		Short: "Print the pivot table for the selected filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := LoadSnapshot(cmd.Context(), a.cfg, a.logger)
			if err != nil {
				return err
			}
			f := ff.Filters()
			rows := pivot.DisplayAll(filter.Rows(snap.Rows(), f))

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, RenderTitle("findash pivot"))
			if len(rows) == 0 {
				fmt.Fprint(out, RenderSummary("No rows match the selected filters"))
				return nil
			}
			fmt.Fprint(out, RenderTable(PivotTable(describeFilters(f), rows)))
			fmt.Fprint(out, RenderSummary("%s of %s rows", humanize.Comma(int64(len(rows))), humanize.Comma(int64(snap.Stats().PivotRows))))
			return nil
		},
	}
	ff.bind(cmd)
	return cmd
}

func newExportCommand(a *app) *cobra.Command {
	var (
		ff     filterFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered pivot table to an xlsx workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := LoadSnapshot(cmd.Context(), a.cfg, a.logger)
			if err != nil {
				return err
			}
			rows := filter.Rows(snap.Rows(), ff.Filters())

			var buf bytes.Buffer
			if err := export.WriteXLSX(&buf, rows); err != nil {
				return fmt.Errorf("write workbook: %w", err)
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s (%s)\n", len(rows), output, humanize.Bytes(uint64(buf.Len())))
			return nil
		},
	}
	ff.bind(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "findash-pivot.xlsx", "Output workbook path")
	return cmd
}

func describeFilters(f filter.Filters) string {
	parts := make([]string, 0, 3)
	for _, p := range []struct {
		name string
		sel  filter.Selection
	}{
		{"site", f.Sites},
		{"detail", f.ItemDetails},
		{"fy", f.FiscalYears},
	} {
		if !p.sel.IsUnrestricted() {
			parts = append(parts, p.name+"="+strings.Join(p.sel.Values(), ","))
		}
	}
	if len(parts) == 0 {
		return "All rows"
	}
	return strings.Join(parts, "  ")
}
