package game

import (
	"fmt"
	"regexp"
)

// scorePattern accepts exactly the single digits 0-9 or the literal "10".
// "010", negatives, and decimals are all rejected.
var scorePattern = regexp.MustCompile(`^(10|[0-9])$`)

// ErrInvalidScore is returned when a score reply is not in the 0-10 range.
var ErrInvalidScore = fmt.Errorf("score must be a whole number between 0 and 10")

// Scoring walks the selected players in selection order, collecting one score
// each.
type Scoring struct {
	selection *Selection
	cursor    int
	scores    map[string]int
}

func newScoring(selection *Selection) *Scoring {
	return &Scoring{
		selection: selection,
		scores:    make(map[string]int),
	}
}

// Current returns the player whose score is collected next, or ok=false once
// every selected player has been scored.
func (s *Scoring) Current() (string, bool) {
	names := s.selection.Names()
	if s.cursor >= len(names) {
		return "", false
	}
	return names[s.cursor], true
}

// Record validates raw and stores it for the current player, advancing the
// cursor. On invalid input the cursor does not move. Recording with no current
// player is a no-op.
func (s *Scoring) Record(raw string) error {
	if !scorePattern.MatchString(raw) {
		return ErrInvalidScore
	}

	name, ok := s.Current()
	if !ok {
		return nil
	}

	score := 0
	for _, r := range raw {
		score = score*10 + int(r-'0')
	}
	s.scores[name] = score
	s.cursor++
	return nil
}

// Done reports whether every selected player has a recorded score.
func (s *Scoring) Done() bool {
	return s.cursor >= s.selection.Size()
}

// Score returns the recorded score for name.
func (s *Scoring) Score(name string) (int, bool) {
	score, ok := s.scores[name]
	return score, ok
}

// Cursor returns the index of the next player to score.
func (s *Scoring) Cursor() int {
	return s.cursor
}

func (s *Scoring) reset() {
	s.cursor = 0
	s.scores = make(map[string]int)
}
