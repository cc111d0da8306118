package telegram

import (
	"context"

	"catan-results-bot/internal/dialog"
)

// Channel adapts the Bot API client to the dialogue controller's outbound
// interface.
type Channel struct {
	client *Client
}

// NewChannel wraps client as a dialog.Channel.
func NewChannel(client *Client) *Channel {
	return &Channel{client: client}
}

func (ch *Channel) SendText(ctx context.Context, chatID int64, text string) error {
	_, err := ch.client.SendMessage(ctx, chatID, text)
	return err
}

func (ch *Channel) SendCode(ctx context.Context, chatID int64, text string) error {
	_, err := ch.client.SendCode(ctx, chatID, text)
	return err
}

func (ch *Channel) SendKeyboard(ctx context.Context, chatID int64, text string, rows []dialog.KeyboardRow) (int64, error) {
	msg, err := ch.client.SendKeyboard(ctx, chatID, text, markupFromRows(rows))
	if err != nil {
		return 0, err
	}
	return msg.MessageID, nil
}

func (ch *Channel) UpdateKeyboard(ctx context.Context, chatID, messageID int64, rows []dialog.KeyboardRow) error {
	return ch.client.EditReplyMarkup(ctx, chatID, messageID, markupFromRows(rows))
}

func (ch *Channel) AnswerToggle(ctx context.Context, callbackID, text string) error {
	return ch.client.AnswerCallback(ctx, callbackID, text)
}

// markupFromRows lays out one button per row so long names stay readable.
func markupFromRows(rows []dialog.KeyboardRow) *InlineKeyboardMarkup {
	keyboard := make([][]InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		keyboard = append(keyboard, []InlineKeyboardButton{{
			Text:         row.Label,
			CallbackData: row.Key,
		}})
	}
	return &InlineKeyboardMarkup{InlineKeyboard: keyboard}
}
