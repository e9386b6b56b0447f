package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"
)

// Built-in dropdown selections applied when the dashboard first loads.
var (
	DefaultSites       = []string{"SDCT"}
	DefaultItemDetails = []string{"[1003] Revenue Total", "[1027] Gross Profit"}
	DefaultFiscalYears = []string{"none"}
)

const DefaultPageSize = 100

// Dashboard holds presentation defaults read from a TOML file.
type Dashboard struct {
	Defaults DashboardDefaults `toml:"defaults"`
	Table    TableSettings     `toml:"table"`
}

type DashboardDefaults struct {
	Sites       []string `toml:"sites"`
	ItemDetails []string `toml:"item_details"`
	FiscalYears []string `toml:"fiscal_years"`
}

type TableSettings struct {
	PageSize int `toml:"page_size"`
}

// DefaultDashboard returns the built-in presentation defaults.
func DefaultDashboard() Dashboard {
	return Dashboard{
		Defaults: DashboardDefaults{
			Sites:       append([]string(nil), DefaultSites...),
			ItemDetails: append([]string(nil), DefaultItemDetails...),
			FiscalYears: append([]string(nil), DefaultFiscalYears...),
		},
		Table: TableSettings{PageSize: DefaultPageSize},
	}
}

// LoadDashboard reads path over the built-in defaults. A missing file is not
// an error; keys absent from the file keep their default.
func LoadDashboard(path string) (Dashboard, error) {
	d := DefaultDashboard()
	if path == "" {
		return d, nil
	}
	if _, err := toml.DecodeFile(path, &d); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultDashboard(), nil
		}
		return Dashboard{}, fmt.Errorf("decode dashboard config %s: %w", path, err)
	}
	if d.Table.PageSize < 1 {
		return Dashboard{}, fmt.Errorf("invalid table page_size %d: must be at least 1", d.Table.PageSize)
	}
	return d, nil
}
