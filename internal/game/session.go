package game

// Player pairs a name with its recorded score.
type Player struct {
	Name  string
	Score int
}

// Session is the state of one in-progress game entry for a single chat. The
// roster is loaded fresh when the session is created and never changes
// afterwards.
type Session struct {
	roster    []string
	Selection *Selection
	Scoring   *Scoring

	WinnerColor string
	Location    string
}

// NewSession creates a session over the given roster.
func NewSession(roster []string) *Session {
	names := make([]string, len(roster))
	copy(names, roster)

	selection := &Selection{}
	return &Session{
		roster:    names,
		Selection: selection,
		Scoring:   newScoring(selection),
	}
}

// Roster returns the full player roster for this session.
func (s *Session) Roster() []string {
	out := make([]string, len(s.roster))
	copy(out, s.roster)
	return out
}

// Players returns the selected players with their scores, in selection order.
// A missing score defaults to zero.
func (s *Session) Players() []Player {
	names := s.Selection.Names()
	players := make([]Player, 0, len(names))
	for _, name := range names {
		score, _ := s.Scoring.Score(name)
		players = append(players, Player{Name: name, Score: score})
	}
	return players
}

// Reset clears everything collected so far: selection, scores, cursor,
// expected count, winner color, and location. The roster is kept.
func (s *Session) Reset() {
	s.Selection.reset()
	s.Scoring.reset()
	s.WinnerColor = ""
	s.Location = ""
}
