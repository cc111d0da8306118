package store

import (
	"context"
	"time"

	"catan-results-bot/internal/metrics"
)

// instrumentedStore records one metric per operation against the wrapped
// backend.
type instrumentedStore struct {
	inner   Store
	backend string
	metrics *metrics.Recorder
}

// NewInstrumentedStore wraps a store with per-operation metrics.
func NewInstrumentedStore(inner Store, backend string, recorder *metrics.Recorder) Store {
	return &instrumentedStore{inner: inner, backend: backend, metrics: recorder}
}

func (s *instrumentedStore) LoadRoster(ctx context.Context) ([]string, error) {
	start := time.Now()
	roster, err := s.inner.LoadRoster(ctx)
	s.metrics.RecordStoreCall(s.backend, "load_roster", time.Since(start), err)
	return roster, err
}

func (s *instrumentedStore) AppendPlayers(ctx context.Context, raw string) ([]string, error) {
	start := time.Now()
	names, err := s.inner.AppendPlayers(ctx, raw)
	s.metrics.RecordStoreCall(s.backend, "append_players", time.Since(start), err)
	return names, err
}

func (s *instrumentedStore) AppendResult(ctx context.Context, res Result) error {
	start := time.Now()
	err := s.inner.AppendResult(ctx, res)
	s.metrics.RecordStoreCall(s.backend, "append_result", time.Since(start), err)
	return err
}
