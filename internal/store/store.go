// Package store defines the persistence contract for rosters and finalized
// game results, shared by the Sheets, SQLite, and in-memory backends.
package store

import (
	"context"
	"errors"

	"catan-results-bot/internal/game"
)

// ErrNoPlayers is returned by AppendPlayers when no valid names remain after
// normalization.
var ErrNoPlayers = errors.New("store: no valid player names provided")

// Result is a finalized game session ready to be persisted.
type Result struct {
	Players     []game.Player
	WinnerColor string
	Location    string
}

// Store persists rosters and game results.
//
// LoadRoster returns the known player names in alphabetical order; an empty
// roster is treated as an upstream failure by callers. AppendPlayers takes a
// raw comma-separated list, normalizes it, and returns the names actually
// added. AppendResult assigns the next game number and writes one row per
// player; its errors must reach the caller so the session can be retried.
type Store interface {
	LoadRoster(ctx context.Context) ([]string, error)
	AppendPlayers(ctx context.Context, raw string) ([]string, error)
	AppendResult(ctx context.Context, res Result) error
}
