package google

import (
	"errors"
	"fmt"
	"strings"

	"findash/internal/core"
	"findash/internal/source"
)

// parseValues converts a values matrix (as returned by Sheets API) into
// records. The first row is the header.
func parseValues(values [][]interface{}) ([]core.Record, error) {
	if len(values) == 0 {
		return nil, errors.New("range is empty")
	}
	header := toStrings(values[0])
	rows := make([][]string, 0, len(values)-1)
	for _, v := range values[1:] {
		rows = append(rows, toStrings(v))
	}
	return source.ParseRows(header, rows)
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}
