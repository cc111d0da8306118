package config

import "time"

const (
	envBotToken        = "TELEGRAM_BOT_TOKEN"
	envTelegramBaseURL = "TELEGRAM_BASE_URL"
	envAuthorizedUsers = "AUTHORIZED_USERS"
	envTransport       = "TRANSPORT"
	envWebhookURL      = "WEBHOOK_URL"
	envPort            = "PORT"
	envPollTimeout     = "POLL_TIMEOUT"
	envStoreBackend    = "STORE_BACKEND"
	envSQLitePath      = "SQLITE_PATH"
	envSessionPolicy   = "SESSION_REPLACE_POLICY"
	envJournalEnabled  = "JOURNAL_ENABLED"
	envJournalDir      = "JOURNAL_DIR"
	envMetricsPort     = "METRICS_PORT"
	envMetricsOn       = "METRICS_ENABLED"
	envOtelEndpoint    = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService     = "OTEL_SERVICE_NAME"
	envOtelInsecure    = "OTEL_EXPORTER_OTLP_INSECURE"
	envLogLevel        = "LOG_LEVEL"
	envLogFormat       = "LOG_FORMAT"

	// Transport modes.
	TransportPolling = "polling"
	TransportWebhook = "webhook"

	// Store backends.
	StoreSheets = "sheets"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"

	// Session replacement policies for a second /new on an active chat.
	PolicyReplace = "replace"
	PolicyReject  = "reject"

	defaultPort        = "3000"
	defaultMetricsPort = "9090"
	defaultStore       = StoreSheets
	defaultSQLitePath  = "./data/results.db"
	defaultJournalDir  = "./data/journal"
	// Telegram caps long-poll timeouts well above this; 30s keeps connections fresh.
	defaultPollTimeout = 30 * time.Second
)
