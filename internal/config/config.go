package config

import (
	"fmt"
	"os"
)

// Config holds runtime configuration for the bot.
type Config struct {
	Transport       string
	Port            string
	LogLevel        string
	LogFormat       string
	AuthorizedUsers []int64
	SessionPolicy   string
	Telegram        TelegramConfig
	Store           StoreConfig
	Journal         JournalConfig
	Metrics         MetricsConfig
}

// Load reads configuration from environment variables with sensible defaults.
// It fails only on missing required settings; everything else falls back.
func Load() (Config, error) {
	cfg := Config{
		Transport:       resolveTransport(),
		Port:            envOrDefault(envPort, defaultPort),
		LogLevel:        os.Getenv(envLogLevel),
		LogFormat:       os.Getenv(envLogFormat),
		AuthorizedUsers: int64ListEnv(envAuthorizedUsers),
		SessionPolicy:   resolvePolicy(),
		Telegram:        loadTelegram(),
		Store:           loadStore(),
		Journal:         loadJournal(),
		Metrics:         loadMetrics(),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("config: %s must be provided", envBotToken)
	}
	if c.Transport == TransportWebhook && c.Telegram.WebhookURL == "" {
		return fmt.Errorf("config: %s must be provided in webhook mode", envWebhookURL)
	}
	if c.Store.Backend == StoreSheets {
		if c.Store.Sheets.SpreadsheetID == "" {
			return fmt.Errorf("config: %s must be provided for the sheets store", envSheetsID)
		}
		if c.Store.Sheets.CredentialsFile == "" {
			return fmt.Errorf("config: %s must be provided for the sheets store", envSheetsCreds)
		}
	}
	return nil
}

// resolveTransport honors TRANSPORT when set; otherwise the presence of a
// webhook URL selects webhook mode, matching how the bot was deployed before
// polling existed.
func resolveTransport() string {
	switch envOrDefault(envTransport, "") {
	case TransportPolling:
		return TransportPolling
	case TransportWebhook:
		return TransportWebhook
	}
	if os.Getenv(envWebhookURL) != "" {
		return TransportWebhook
	}
	return TransportPolling
}

func resolvePolicy() string {
	if envOrDefault(envSessionPolicy, PolicyReplace) == PolicyReject {
		return PolicyReject
	}
	return PolicyReplace
}

// JournalConfig controls the local finalized-game journal.
type JournalConfig struct {
	Enabled bool
	Dir     string
}

func loadJournal() JournalConfig {
	return JournalConfig{
		Enabled: boolEnvOrDefault(envJournalEnabled, false),
		Dir:     envOrDefault(envJournalDir, defaultJournalDir),
	}
}
