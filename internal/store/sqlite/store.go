// Package sqlite persists rosters and results in a local SQLite database,
// mainly for self-hosted runs without spreadsheet access.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"catan-results-bot/internal/store"
	"catan-results-bot/internal/timeutil"
)

const schema = `
CREATE TABLE IF NOT EXISTS players (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS results (
	game_number  INTEGER NOT NULL,
	recorded_at  TEXT    NOT NULL,
	player       TEXT    NOT NULL,
	score        INTEGER NOT NULL,
	highest      INTEGER NOT NULL,
	lowest       INTEGER NOT NULL,
	winner_color TEXT    NOT NULL DEFAULT '',
	location     TEXT    NOT NULL DEFAULT ''
);
`

// Store implements store.Store on a local SQLite file.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// New opens (creating if needed) the database at path and ensures the schema.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ensuring schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// LoadRoster returns all known player names alphabetically.
func (s *Store) LoadRoster(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM players ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: loading roster: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// AppendPlayers normalizes raw and inserts the resulting names.
func (s *Store) AppendPlayers(ctx context.Context, raw string) ([]string, error) {
	names := store.NormalizeNames(raw)
	if len(names) == 0 {
		return nil, store.ErrNoPlayers
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	for _, name := range names {
		if _, err := tx.ExecContext(ctx, `INSERT INTO players (name) VALUES (?)`, name); err != nil {
			return nil, fmt.Errorf("sqlite: inserting player %s: %w", name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return names, nil
}

// AppendResult assigns the next game number and inserts one row per player,
// atomically.
func (s *Store) AppendResult(ctx context.Context, res store.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var max int
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(game_number), 0) FROM results`).Scan(&max); err != nil {
		return fmt.Errorf("sqlite: reading last game number: %w", err)
	}

	for _, row := range store.BuildRows(res, max+1, s.now()) {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO results (game_number, recorded_at, player, score, highest, lowest, winner_color, location)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			row.GameNumber,
			timeutil.FormatTimestamp(row.Timestamp),
			row.Player,
			row.Score,
			boolInt(row.Highest),
			boolInt(row.Lowest),
			row.WinnerColor,
			row.Location,
		)
		if err != nil {
			return fmt.Errorf("sqlite: inserting result row for %s: %w", row.Player, err)
		}
	}
	return tx.Commit()
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
