package dialog

import "context"

// KeyboardRow is one selectable row of the roster keyboard. Key travels as
// callback data and comes back inside Toggle events.
type KeyboardRow struct {
	Label string
	Key   string
}

// Channel is the outbound side of the chat transport.
type Channel interface {
	// SendText delivers a plain message.
	SendText(ctx context.Context, chatID int64, text string) error
	// SendCode delivers a message formatted as inline code, used to hand
	// users their own ID for allow-listing.
	SendCode(ctx context.Context, chatID int64, text string) error
	// SendKeyboard delivers a message with a selectable keyboard and returns
	// the message ID for later updates.
	SendKeyboard(ctx context.Context, chatID int64, text string, rows []KeyboardRow) (int64, error)
	// UpdateKeyboard re-renders a previously sent keyboard. Implementations
	// treat an unchanged keyboard as a no-op, not an error.
	UpdateKeyboard(ctx context.Context, chatID, messageID int64, rows []KeyboardRow) error
	// AnswerToggle acknowledges a keyboard tap with a short notice.
	AnswerToggle(ctx context.Context, callbackID, text string) error
}
