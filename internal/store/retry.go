package store

import (
	"context"
	"log/slog"
	"time"

	"catan-results-bot/internal/logging"
)

const (
	defaultRetryAttempts = 3
	defaultBackoff       = 200 * time.Millisecond
)

type backoffFunc func(attempt int) time.Duration

// retryingStore wraps a Store with retry/backoff on roster loads. Appends are
// passed through untouched: they are not idempotent, so a blind retry could
// duplicate rows.
type retryingStore struct {
	inner       Store
	logger      *slog.Logger
	maxAttempts int
	backoffFn   backoffFunc
}

// NewRetryingStore wraps the given store with read retries. If maxAttempts or
// backoff are <= 0, defaults are used.
func NewRetryingStore(inner Store, logger *slog.Logger, maxAttempts int, backoff time.Duration) Store {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	return &retryingStore{
		inner:       inner,
		logger:      logger,
		maxAttempts: maxAttempts,
		backoffFn: func(attempt int) time.Duration {
			return time.Duration(attempt) * backoff
		},
	}
}

func (r *retryingStore) LoadRoster(ctx context.Context) ([]string, error) {
	var lastErr error

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		roster, err := r.inner.LoadRoster(ctx)
		if err == nil {
			return roster, nil
		}
		lastErr = err

		if attempt == r.maxAttempts {
			break
		}

		r.logWarn(ctx, "roster load retry", "attempt", attempt, "max_attempts", r.maxAttempts, "err", err)

		delay := r.backoffFn(attempt)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	r.logWarn(ctx, "roster load failed", "attempts", r.maxAttempts, "err", lastErr)
	return nil, lastErr
}

func (r *retryingStore) AppendPlayers(ctx context.Context, raw string) ([]string, error) {
	return r.inner.AppendPlayers(ctx, raw)
}

func (r *retryingStore) AppendResult(ctx context.Context, res Result) error {
	return r.inner.AppendResult(ctx, res)
}

func (r *retryingStore) logWarn(ctx context.Context, msg string, args ...any) {
	logger := logging.FromContext(ctx, r.logger)
	if logger != nil {
		logger.Warn(msg, args...)
	}
}
