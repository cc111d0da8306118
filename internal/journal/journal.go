// Package journal keeps an append-only local archive of finalized games, one
// JSON object per line. It is a recovery aid for the remote store, not a
// source of truth.
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"catan-results-bot/internal/game"
	"catan-results-bot/internal/store"
	"catan-results-bot/internal/timeutil"
)

const fileName = "games.ndjson"

// Entry is one archived game.
type Entry struct {
	ArchivedAt  string        `json:"archived_at"`
	Players     []EntryPlayer `json:"players"`
	WinnerColor string        `json:"winner_color"`
	Location    string        `json:"location"`
}

// EntryPlayer is one player line within an archived game.
type EntryPlayer struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

func entryPlayers(players []game.Player) []EntryPlayer {
	out := make([]EntryPlayer, 0, len(players))
	for _, p := range players {
		out = append(out, EntryPlayer{Name: p.Name, Score: p.Score})
	}
	return out
}

// Writer appends finalized games to an NDJSON file under its base path.
type Writer struct {
	mu       sync.Mutex
	basePath string
	now      func() time.Time
}

// NewWriter constructs a writer rooted at basePath.
func NewWriter(basePath string) *Writer {
	return &Writer{basePath: basePath, now: time.Now}
}

// WithClock overrides the timestamp source; intended for tests.
func (w *Writer) WithClock(now func() time.Time) *Writer {
	w.now = now
	return w
}

// Path returns the journal file location.
func (w *Writer) Path() string {
	return filepath.Join(w.basePath, fileName)
}

// Record appends one finalized game.
func (w *Writer) Record(ctx context.Context, res store.Result) error {
	if w == nil {
		return fmt.Errorf("journal writer not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	entry := Entry{
		ArchivedAt:  timeutil.FormatTimestamp(w.now()),
		Players:     entryPlayers(res.Players),
		WinnerColor: res.WinnerColor,
		Location:    res.Location,
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := os.MkdirAll(w.basePath, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(w.Path(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return err
	}
	return f.Sync()
}
