package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"findash/internal/config"
	"findash/internal/core"
	"findash/internal/dataset"
	applog "findash/internal/log"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

func record(y int, m time.Month, site, detail string, amount int64) core.Record {
	return core.NewRecord(time.Date(y, m, 1, 0, 0, 0, 0, time.UTC), site, "Revenue", detail, decimal.NewFromInt(amount))
}

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	snap := dataset.New([]core.Record{
		record(2023, time.October, "SDCT", "[1003] Revenue Total", 100),
		record(2024, time.February, "SDCT", "[1003] Revenue Total", 50),
		record(2024, time.February, "KTN", "[1027] Gross Profit", 2_000_000),
		record(2024, time.September, "SDCT", "[1027] Gross Profit", 150_000),
		record(2022, time.December, "KTN", "[2001] Opex", 7),
	})
	if opts.CacheSize == 0 {
		opts.CacheSize = 8
	}
	srv := NewServer(":0", snap, opts)
	t.Cleanup(func() { srv.cacheManager.Stop() })
	return srv
}

func get(t *testing.T, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func TestIndexAndHealth(t *testing.T) {
	srv := newTestServer(t, Options{})

	rr := get(t, srv, "/")
	if rr.Code != http.StatusOK {
		t.Fatalf("index status=%d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Financial Dashboard") {
		t.Fatalf("index body missing heading")
	}
	if !strings.Contains(body, `<option value="SDCT" selected>`) {
		t.Errorf("default site not preselected")
	}
	if strings.Contains(body, `<option value="KTN" selected>`) {
		t.Errorf("non-default site preselected")
	}
	if rr.Header().Get("X-Content-Type-Options") != "nosniff" || rr.Header().Get("X-Request-ID") == "" {
		t.Errorf("missing security headers: %v", rr.Header())
	}

	for _, path := range []string{"/healthz", "/readyz"} {
		if rr := get(t, srv, path); rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
	if rr := get(t, srv, "/nope"); rr.Code != http.StatusNotFound {
		t.Fatalf("unknown path status=%d", rr.Code)
	}
}

func TestIndexQueryOverridesDefaults(t *testing.T) {
	srv := newTestServer(t, Options{})
	body := get(t, srv, "/?site=KTN").Body.String()
	if !strings.Contains(body, `<option value="KTN" selected>`) || strings.Contains(body, `<option value="SDCT" selected>`) {
		t.Fatalf("query selection not applied")
	}
}

func TestViewAPI(t *testing.T) {
	srv := newTestServer(t, Options{})

	rr := get(t, srv, "/api/view?site=SDCT&fy=none")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	var resp ViewResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Table.TotalRows != 2 || len(resp.Table.Rows) != 2 {
		t.Fatalf("table = %+v", resp.Table)
	}
	if resp.Table.Rows[0].Total != "150" {
		t.Errorf("first row total = %q", resp.Table.Rows[0].Total)
	}
	for _, p := range resp.TimeSeries {
		if p.ItemDetail == "[2001] Opex" {
			t.Errorf("KTN series leaked: %+v", p)
		}
	}
	if len(resp.FiscalSummary) != 2 {
		t.Errorf("fiscal summary = %+v", resp.FiscalSummary)
	}

	rr = get(t, srv, "/api/view?site=Atlantis")
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Table.TotalRows != 0 || len(resp.TimeSeries) != 0 || resp.Table.Pages != 1 {
		t.Errorf("unknown site should yield empty view: %+v", resp)
	}
}

func TestViewCache(t *testing.T) {
	srv := newTestServer(t, Options{})
	get(t, srv, "/api/view?site=SDCT&detail=x")
	get(t, srv, "/api/view?detail=x&site=SDCT")
	st := srv.views.Stats()
	if st.Size != 1 || st.Hits != 1 {
		t.Fatalf("cache stats = %+v", st)
	}
}

func TestTablePartialPagination(t *testing.T) {
	d := config.DefaultDashboard()
	d.Table.PageSize = 2
	srv := newTestServer(t, Options{Dashboard: d})

	rr := get(t, srv, "/ui/table?page=2")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Page 2 of 2 (4 rows)") {
		t.Fatalf("unexpected pager: %s", body)
	}
	if !strings.Contains(body, "Previous") || strings.Contains(body, ">Next<") {
		t.Errorf("unexpected pager buttons")
	}

	rr = get(t, srv, "/ui/table?page=abc")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "Page 1 of 2") {
		t.Fatalf("bad page should fall back to page 1, got %d", rr.Code)
	}

	rr = get(t, srv, "/ui/table?site=Atlantis")
	if !strings.Contains(rr.Body.String(), "No rows match") {
		t.Errorf("expected empty placeholder")
	}
}

func TestOptionsAPI(t *testing.T) {
	srv := newTestServer(t, Options{})
	rr := get(t, srv, "/api/options")
	var opts dataset.Options
	if err := json.Unmarshal(rr.Body.Bytes(), &opts); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(opts.Sites) != 2 || opts.Sites[0] != "SDCT" || len(opts.FiscalYears) != 3 {
		t.Fatalf("options = %+v", opts)
	}
}

func TestExport(t *testing.T) {
	srv := newTestServer(t, Options{})
	rr := get(t, srv, "/export.xlsx?site=KTN")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	if !strings.Contains(rr.Header().Get("Content-Disposition"), "findash-pivot.xlsx") {
		t.Errorf("missing attachment header")
	}
	f, err := excelize.OpenReader(bytes.NewReader(rr.Body.Bytes()))
	if err != nil {
		t.Fatalf("not a workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2 KTN rows", len(rows))
	}
	for _, r := range rows[1:] {
		if r[0] != "KTN" {
			t.Errorf("unexpected site %q", r[0])
		}
	}
}

func TestTemplateParseErrorPath(t *testing.T) {
	srv := newTestServer(t, Options{TemplatesFS: fstest.MapFS{}})
	if rr := get(t, srv, "/"); rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for missing templates, got %d", rr.Code)
	}
	if rr := get(t, srv, "/readyz"); rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 from readyz, got %d", rr.Code)
	}
	if rr := get(t, srv, "/api/view"); rr.Code != http.StatusOK {
		t.Fatalf("JSON endpoints should not need templates, got %d", rr.Code)
	}
}

func TestRequestIDEcho(t *testing.T) {
	srv := newTestServer(t, Options{})

	req := httptest.NewRequest(http.MethodGet, "/api/options", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	if got := rr.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("X-Request-ID = %q, want caller supplied id", got)
	}

	rr = get(t, srv, "/api/options")
	if got := rr.Header().Get("X-Request-ID"); !strings.HasPrefix(got, "req_") {
		t.Fatalf("X-Request-ID = %q, want generated id", got)
	}
}

func TestIndexDropsDefaultsMissingFromData(t *testing.T) {
	snap := dataset.New([]core.Record{
		record(2023, time.October, "KTN", "[1003] Revenue Total", 100),
		record(2024, time.February, "KTN", "[1027] Gross Profit", 200),
		record(2024, time.March, "KTN", "[2001] Opex", 5),
	})
	srv := NewServer(":0", snap, Options{CacheSize: 8})
	t.Cleanup(func() { srv.cacheManager.Stop() })

	body := get(t, srv, "/").Body.String()
	if strings.Contains(body, "No rows match the selected filters") {
		t.Fatalf("index filtered by a site the data does not contain:\n%s", body)
	}
	if !strings.Contains(body, "<td>KTN</td>") || !strings.Contains(body, "(2 rows)") {
		t.Fatalf("expected the two default detail rows for KTN:\n%s", body)
	}

	// The charts request only what the form has selected.
	q := url.Values{ParamDetail: config.DefaultItemDetails}
	var resp ViewResponse
	if err := json.Unmarshal(get(t, srv, "/api/view?"+q.Encode()).Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Table.TotalRows != 2 {
		t.Fatalf("view table rows = %d, want 2 to match the page", resp.Table.TotalRows)
	}
}

func TestRequestLogsCarryRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := applog.New(applog.Config{
		Component: applog.ComponentHTTP,
		Handler:   slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})
	srv := newTestServer(t, Options{Logger: logger})

	req := httptest.NewRequest(http.MethodGet, "/api/view?site=SDCT", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	srv.Handler.ServeHTTP(httptest.NewRecorder(), req)

	var completed, rendered string
	for _, line := range strings.Split(buf.String(), "\n") {
		switch {
		case strings.Contains(line, "HTTP request completed"):
			completed = line
		case strings.Contains(line, "Rendering view"):
			rendered = line
		}
	}
	if !strings.Contains(completed, "request_id=abc-123") {
		t.Errorf("completion log missing request id: %q", completed)
	}
	if !strings.Contains(rendered, "sites=[SDCT]") || !strings.Contains(rendered, "request_id=abc-123") {
		t.Errorf("render log missing filters or request id: %q", rendered)
	}
}
