// Package dialog drives the per-chat score-entry conversation: it owns the
// step state machine, validates replies, and mutates the chat's game session.
package dialog

// Event is an inbound chat event, already decoupled from the transport's
// native update shapes.
type Event interface {
	chat() int64
}

// Command is a slash command sent by a user.
type Command struct {
	ChatID int64
	UserID int64
	Name   string
}

// Text is a plain message reply.
type Text struct {
	ChatID int64
	UserID int64
	Body   string
}

// Toggle is a tap on one of the roster keyboard buttons.
type Toggle struct {
	ChatID     int64
	UserID     int64
	CallbackID string
	Player     string
}

func (c Command) chat() int64 { return c.ChatID }
func (t Text) chat() int64    { return t.ChatID }
func (t Toggle) chat() int64  { return t.ChatID }

// Command names understood by the controller.
const (
	CmdStart  = "start"
	CmdHelp   = "help"
	CmdNew    = "new"
	CmdPlayer = "player"
	CmdCancel = "cancel"
)
