// Package filter narrows line items and pivot rows by the dashboard selections.
package filter

import (
	"sort"
	"strings"
)

// NoFiscalYear is the fiscal-year option meaning "do not filter by year".
const NoFiscalYear = "none"

// Selection is the chosen set of values for one dimension. The zero value
// is unrestricted and matches everything.
type Selection struct {
	values map[string]struct{}
}

// Unrestricted returns a selection that matches every value.
func Unrestricted() Selection {
	return Selection{}
}

// NewSelection builds a selection from user input. Blank entries are
// ignored; no remaining values means unrestricted.
func NewSelection(values ...string) Selection {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		set[v] = struct{}{}
	}
	if len(set) == 0 {
		return Unrestricted()
	}
	return Selection{values: set}
}

// NewFiscalYearSelection is NewSelection where any occurrence of NoFiscalYear
// makes the whole selection unrestricted.
func NewFiscalYearSelection(values ...string) Selection {
	for _, v := range values {
		if strings.TrimSpace(v) == NoFiscalYear {
			return Unrestricted()
		}
	}
	return NewSelection(values...)
}

// IsUnrestricted reports whether the selection matches every value.
func (s Selection) IsUnrestricted() bool {
	return s.values == nil
}

// Contains reports whether v passes the selection.
func (s Selection) Contains(v string) bool {
	if s.values == nil {
		return true
	}
	_, ok := s.values[v]
	return ok
}

// Values returns the selected values in sorted order, or nil when unrestricted.
func (s Selection) Values() []string {
	if s.values == nil {
		return nil
	}
	out := make([]string, 0, len(s.values))
	for v := range s.values {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// String renders the selection as a stable, comparable token.
func (s Selection) String() string {
	if s.values == nil {
		return "*"
	}
	return "[" + strings.Join(s.Values(), "|") + "]"
}
