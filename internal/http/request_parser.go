package http

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"findash/internal/config"
	"findash/internal/dataset"
	"findash/internal/filter"
)

// Query parameter names. Each may be repeated.
const (
	ParamSite       = "site"
	ParamDetail     = "detail"
	ParamFiscalYear = "fy"
	ParamPage       = "page"
)

// ParseFilters reads the repeatable selection parameters. Missing or blank
// values leave a dimension unrestricted.
func ParseFilters(q url.Values) filter.Filters {
	return filter.Filters{
		Sites:       filter.NewSelection(values(q, ParamSite)...),
		ItemDetails: filter.NewSelection(values(q, ParamDetail)...),
		FiscalYears: filter.NewFiscalYearSelection(values(q, ParamFiscalYear)...),
	}
}

// HasFilters reports whether any selection parameter is present.
func HasFilters(q url.Values) bool {
	return q.Has(ParamSite) || q.Has(ParamDetail) || q.Has(ParamFiscalYear)
}

// DefaultFilters converts the dashboard defaults into filters.
func DefaultFilters(d config.DashboardDefaults) filter.Filters {
	return filter.Filters{
		Sites:       filter.NewSelection(d.Sites...),
		ItemDetails: filter.NewSelection(d.ItemDetails...),
		FiscalYears: filter.NewFiscalYearSelection(d.FiscalYears...),
	}
}

// KnownDefaults drops default values that the loaded data does not offer,
// so the preselected dropdowns and the first rendered view agree. A
// dimension left empty is unrestricted.
func KnownDefaults(d config.DashboardDefaults, opts dataset.Options) config.DashboardDefaults {
	return config.DashboardDefaults{
		Sites:       known(d.Sites, opts.Sites),
		ItemDetails: known(d.ItemDetails, opts.ItemDetails),
		FiscalYears: known(d.FiscalYears, append([]string{filter.NoFiscalYear}, opts.FiscalYears...)),
	}
}

func known(values, available []string) []string {
	var out []string
	for _, v := range values {
		if slices.Contains(available, strings.TrimSpace(v)) {
			out = append(out, v)
		}
	}
	return out
}

// ParsePage returns the 1-based page number. A missing value is page 1;
// malformed or non-positive values are reported so callers can log them.
func ParsePage(q url.Values) (int, error) {
	v := strings.TrimSpace(q.Get(ParamPage))
	if v == "" {
		return 1, nil
	}
	p, err := strconv.Atoi(v)
	if err != nil {
		return 1, fmt.Errorf("invalid page %q: %w", v, err)
	}
	if p < 1 {
		return 1, fmt.Errorf("invalid page %d: must be at least 1", p)
	}
	return p, nil
}

func values(q url.Values, key string) []string {
	raw := q[key]
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if v = sanitizeInput(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
