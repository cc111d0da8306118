package server

import (
	"context"
	"fmt"
	"log/slog"

	"catan-results-bot/internal/config"
	"catan-results-bot/internal/logging"
	"catan-results-bot/internal/metrics"
	"catan-results-bot/internal/store"
	"catan-results-bot/internal/store/sheets"
	"catan-results-bot/internal/store/sqlite"
)

// buildStore selects the persistence backend, wraps it with read retries and
// instrumentation, and returns a cleanup for backends that hold resources.
func buildStore(ctx context.Context, cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (store.Store, func() error, error) {
	inner, cleanup, err := buildBackend(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	wrapped := store.NewRetryingStore(inner, logger, 0, 0)
	wrapped = store.NewInstrumentedStore(wrapped, cfg.Store.Backend, recorder)

	logging.Info(logger, "store configured", slog.String(logging.FieldStore, cfg.Store.Backend))
	return wrapped, cleanup, nil
}

func buildBackend(ctx context.Context, cfg config.Config, logger *slog.Logger) (store.Store, func() error, error) {
	noCleanup := func() error { return nil }

	switch cfg.Store.Backend {
	case config.StoreSheets:
		client, err := sheets.NewClient(ctx, sheets.Config{
			SpreadsheetID:   cfg.Store.Sheets.SpreadsheetID,
			CredentialsFile: cfg.Store.Sheets.CredentialsFile,
			BaseURL:         cfg.Store.Sheets.BaseURL,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("building sheets store: %w", err)
		}
		return client, noCleanup, nil
	case config.StoreSQLite:
		db, err := sqlite.New(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("building sqlite store: %w", err)
		}
		return db, db.Close, nil
	case config.StoreMemory:
		return store.NewMemoryStore(), noCleanup, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
