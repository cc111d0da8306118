package telegram

import (
	"strings"

	"catan-results-bot/internal/dialog"
)

// EventFromUpdate maps a Bot API update onto a dialogue event. Updates the
// dialogue has no use for (edits, joins, unrelated callbacks) report ok=false.
func EventFromUpdate(u Update) (dialog.Event, bool) {
	switch {
	case u.CallbackQuery != nil:
		return toggleFromCallback(u.CallbackQuery)
	case u.Message != nil:
		return eventFromMessage(u.Message)
	default:
		return nil, false
	}
}

func eventFromMessage(msg *Message) (dialog.Event, bool) {
	if msg.Text == "" {
		return nil, false
	}

	userID := int64(0)
	if msg.From != nil {
		userID = msg.From.ID
	}

	if name, ok := commandName(msg.Text); ok {
		return dialog.Command{ChatID: msg.Chat.ID, UserID: userID, Name: name}, true
	}
	return dialog.Text{ChatID: msg.Chat.ID, UserID: userID, Body: msg.Text}, true
}

func toggleFromCallback(cb *CallbackQuery) (dialog.Event, bool) {
	// Without the originating message there is no chat to route to.
	if cb.Message == nil {
		return nil, false
	}
	player, ok := dialog.PlayerFromKey(cb.Data)
	if !ok {
		return nil, false
	}

	userID := int64(0)
	if cb.From != nil {
		userID = cb.From.ID
	}
	return dialog.Toggle{
		ChatID:     cb.Message.Chat.ID,
		UserID:     userID,
		CallbackID: cb.ID,
		Player:     player,
	}, true
}

// commandName extracts "new" from "/new" or "/new@SomeBot". Arguments after
// the command are discarded; the dialogue collects its inputs step by step.
func commandName(text string) (string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	name := strings.TrimPrefix(text, "/")
	if i := strings.IndexByte(name, ' '); i >= 0 {
		name = name[:i]
	}
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return "", false
	}
	return name, true
}

// MenuCommands is the command menu registered with Telegram at startup.
func MenuCommands() []BotCommand {
	return []BotCommand{
		{Command: dialog.CmdNew, Description: "Registrar una nueva partida"},
		{Command: dialog.CmdPlayer, Description: "Agregar jugadores"},
		{Command: dialog.CmdCancel, Description: "Cancelar la partida en curso"},
		{Command: dialog.CmdHelp, Description: "Mostrar ayuda"},
	}
}
