package store

import (
	"strconv"
	"strings"
	"time"
)

// Row is one persisted line of a finalized game: one per player, all sharing
// the game number and timestamp. Winner color and location are only carried on
// rows flagged highest, mirroring the spreadsheet layout.
type Row struct {
	GameNumber  int
	Timestamp   time.Time
	Player      string
	Score       int
	Highest     bool
	Lowest      bool
	WinnerColor string
	Location    string
}

// BuildRows expands a result into per-player rows. Every player whose score
// equals the maximum is flagged highest (ties flag several players), and
// symmetrically for the minimum.
func BuildRows(res Result, gameNumber int, at time.Time) []Row {
	if len(res.Players) == 0 {
		return nil
	}

	highest := res.Players[0].Score
	lowest := res.Players[0].Score
	for _, p := range res.Players[1:] {
		if p.Score > highest {
			highest = p.Score
		}
		if p.Score < lowest {
			lowest = p.Score
		}
	}

	rows := make([]Row, 0, len(res.Players))
	for _, p := range res.Players {
		row := Row{
			GameNumber: gameNumber,
			Timestamp:  at,
			Player:     p.Name,
			Score:      p.Score,
			Highest:    p.Score == highest,
			Lowest:     p.Score == lowest,
		}
		if row.Highest {
			row.WinnerColor = res.WinnerColor
			row.Location = res.Location
		}
		rows = append(rows, row)
	}
	return rows
}

// NextGameNumber computes max(existing)+1 over the raw game-number column.
// Unparseable cells count as zero, so an empty or corrupted column yields 1.
func NextGameNumber(existing []string) int {
	max := 0
	for _, raw := range existing {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || n < 0 {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max + 1
}
