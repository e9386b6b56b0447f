package http

import (
	"bytes"
	"net/http"

	"findash/internal/dataset"
	"findash/internal/export"
	"findash/internal/filter"
	applog "findash/internal/log"
)

// option is one entry of a filter dropdown.
type option struct {
	Value    string
	Selected bool
}

func options(all []string, sel filter.Selection) []option {
	out := make([]option, len(all))
	for i, v := range all {
		out[i] = option{Value: v, Selected: !sel.IsUnrestricted() && sel.Contains(v)}
	}
	return out
}

// handleIndex renders the dashboard page. Without selection parameters the
// dropdowns start from the configured defaults.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	logger := applog.FromContext(r.Context())
	if s.templates == nil {
		logger.ErrorContext(r.Context(), "Templates not loaded", "path", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	q := r.URL.Query()
	opts := s.snapshot.Options()
	f := DefaultFilters(KnownDefaults(s.dashboard.Defaults, opts))
	if HasFilters(q) {
		f = ParseFilters(q)
	}
	v := s.render(r.Context(), f)

	data := struct {
		Sites       []option
		ItemDetails []option
		FiscalYears []option
		Stats       dataset.Stats
		Table       TablePage
	}{
		Sites:       options(opts.Sites, f.Sites),
		ItemDetails: options(opts.ItemDetails, f.ItemDetails),
		FiscalYears: options(opts.FiscalYears, f.FiscalYears),
		Stats:       s.snapshot.Stats(),
		Table:       Paginate(v.Table, 1, s.dashboard.Table.PageSize),
	}

	s.executeTemplate(w, r, "index.html", data)
}

// handleView returns the chart series and one table page as JSON.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := ParseFilters(q)
	page := s.page(r)
	v := s.render(r.Context(), f)

	if err := writeJSON(w, http.StatusOK, BuildViewResponse(v, page, s.dashboard.Table.PageSize)); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Encode view failed", "error", err)
	}
}

// handleTable renders the paginated grid partial.
func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	f := ParseFilters(r.URL.Query())
	v := s.render(r.Context(), f)
	s.executeTemplate(w, r, "table.html", Paginate(v.Table, s.page(r), s.dashboard.Table.PageSize))
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, s.snapshot.Options()); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Encode options failed", "error", err)
	}
}

// handleExport streams the filtered grid as an Excel workbook.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	logger := applog.FromContext(r.Context())
	f := ParseFilters(r.URL.Query())
	v := s.render(r.Context(), f)

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, v.Rows); err != nil {
		logger.ErrorContext(r.Context(), "Export failed", "error", err, applog.FieldOperation, applog.OpExport)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="findash-pivot.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
	logger.InfoContext(r.Context(), "Exported pivot grid", applog.FieldPivotRows, len(v.Rows))
}

// page parses the page parameter, falling back to 1 with a warning.
func (s *Server) page(r *http.Request) int {
	page, err := ParsePage(r.URL.Query())
	if err != nil {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Invalid page parameter", "error", err, "corrected_to", page)
	}
	return page
}

// executeTemplate renders into a buffer first so a failure yields a clean 500.
func (s *Server) executeTemplate(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed", "error", err, "template", name)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
