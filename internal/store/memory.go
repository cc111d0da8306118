package store

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"
)

// MemoryStore keeps rosters and results in memory. It backs local runs and
// tests, with identical semantics to the remote backends.
type MemoryStore struct {
	mu      sync.Mutex
	roster  []string
	results []Row
	now     func() time.Time
}

// NewMemoryStore constructs a MemoryStore seeded with the given roster.
func NewMemoryStore(roster ...string) *MemoryStore {
	names := make([]string, len(roster))
	copy(names, roster)
	return &MemoryStore{roster: names, now: time.Now}
}

// WithClock overrides the timestamp source; intended for tests.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

// LoadRoster returns the roster alphabetically sorted.
func (s *MemoryStore) LoadRoster(ctx context.Context) ([]string, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.roster))
	copy(out, s.roster)
	sort.Strings(out)
	return out, nil
}

// AppendPlayers normalizes raw and adds the resulting names to the roster.
func (s *MemoryStore) AppendPlayers(ctx context.Context, raw string) ([]string, error) {
	_ = ctx
	names := NormalizeNames(raw)
	if len(names) == 0 {
		return nil, ErrNoPlayers
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.roster = append(s.roster, names...)
	return names, nil
}

// AppendResult numbers the game and stores one row per player.
func (s *MemoryStore) AppendResult(ctx context.Context, res Result) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := make([]string, 0, len(s.results))
	for _, row := range s.results {
		existing = append(existing, strconv.Itoa(row.GameNumber))
	}
	number := NextGameNumber(existing)
	s.results = append(s.results, BuildRows(res, number, s.now())...)
	return nil
}

// Rows returns a copy of all persisted rows.
func (s *MemoryStore) Rows() []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Row, len(s.results))
	copy(out, s.results)
	return out
}
