package config

const (
	envSheetsID      = "GOOGLE_SHEETS_ID"
	envSheetsCreds   = "GOOGLE_APPLICATION_CREDENTIALS"
	envSheetsBaseURL = "SHEETS_BASE_URL"
)

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	Backend    string
	SQLitePath string
	Sheets     SheetsConfig
}

// SheetsConfig controls how we talk to the Google Sheets values API.
type SheetsConfig struct {
	SpreadsheetID   string
	CredentialsFile string
	BaseURL         string
}

func loadStore() StoreConfig {
	return StoreConfig{
		Backend:    resolveBackend(),
		SQLitePath: envOrDefault(envSQLitePath, defaultSQLitePath),
		Sheets: SheetsConfig{
			SpreadsheetID:   envOrDefault(envSheetsID, ""),
			CredentialsFile: envOrDefault(envSheetsCreds, ""),
			BaseURL:         envOrDefault(envSheetsBaseURL, ""),
		},
	}
}

func resolveBackend() string {
	switch envOrDefault(envStoreBackend, defaultStore) {
	case StoreSQLite:
		return StoreSQLite
	case StoreMemory:
		return StoreMemory
	default:
		return StoreSheets
	}
}
