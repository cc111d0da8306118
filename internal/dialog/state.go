package dialog

// State is the dialogue position of one chat.
type State int

const (
	StateIdle State = iota
	StateAwaitingCount
	StateAwaitingSelection
	StateAwaitingScore
	StateAwaitingWinnerColor
	StateAwaitingLocation
	StateAwaitingNewPlayers
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingCount:
		return "awaiting_count"
	case StateAwaitingSelection:
		return "awaiting_selection"
	case StateAwaitingScore:
		return "awaiting_score"
	case StateAwaitingWinnerColor:
		return "awaiting_winner_color"
	case StateAwaitingLocation:
		return "awaiting_location"
	case StateAwaitingNewPlayers:
		return "awaiting_new_players"
	default:
		return "unknown"
	}
}

// chatState is the controller's per-chat bookkeeping: the armed step plus the
// keyboard message being re-rendered during selection.
type chatState struct {
	step       State
	keyboardID int64
}
