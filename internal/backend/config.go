package backend

import (
	"fmt"
	"strings"

	"findash/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type: backendType,

		Files:     append([]string(nil), appConfig.DataFiles...),
		XLSXSheet: appConfig.XLSXSheet,

		SQLiteDBPath: appConfig.SQLiteDBPath,

		GoogleSpreadsheetID:   appConfig.GoogleSpreadsheetID,
		GoogleSheetRange:      appConfig.GoogleSheetRange,
		GoogleCredentialsFile: appConfig.GoogleCredentialsFile,
		GoogleCredentialsJSON: appConfig.GoogleCredentialsJSON,
	}, nil
}

func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type %q: must be one of %s", c.Type, strings.Join(GetBackendTypeStrings(), ", "))
	}

	if c.Type.FileBased() && len(c.Files) == 0 {
		return fmt.Errorf("at least one data file is required for %s backend", c.Type)
	}

	switch c.Type {
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
	case SheetsBackend:
		if c.GoogleSpreadsheetID == "" {
			return fmt.Errorf("Google Spreadsheet ID is required for sheets backend")
		}
		if c.GoogleSheetRange == "" {
			return fmt.Errorf("Google sheet range is required for sheets backend")
		}
	}

	return nil
}

// GetBackendTypeStrings returns all valid backend type strings
func GetBackendTypeStrings() []string {
	types := []BackendType{XLSXBackend, CSVBackend, SheetsBackend, SQLiteBackend, MemoryBackend}
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.String()
	}
	return out
}
