package dialog

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"catan-results-bot/internal/game"
	"catan-results-bot/internal/logging"
	"catan-results-bot/internal/metrics"
	"catan-results-bot/internal/store"
)

// countPattern accepts only bare non-negative integers.
var countPattern = regexp.MustCompile(`^\d+$`)

// Toggles arriving for chats that are not selecting are held for the next
// armed selection rather than dropped. The cap bounds a chat that never arms.
const maxPendingToggles = 32

// Journal optionally archives finalized games after persistence succeeds.
type Journal interface {
	Record(ctx context.Context, res store.Result) error
}

// Config wires a Controller.
type Config struct {
	Channel             Channel
	Store               store.Store
	Registry            *game.Registry
	AuthorizedUsers     []int64
	RejectActiveSession bool
	Journal             Journal
	Logger              *slog.Logger
	Metrics             *metrics.Recorder
}

// Controller is the dialogue state machine. Dispatch serializes event
// handling, which also guarantees per-chat ordering.
type Controller struct {
	mu       sync.Mutex
	channel  Channel
	store    store.Store
	registry *game.Registry
	allowed  map[int64]bool
	reject   bool
	journal  Journal
	logger   *slog.Logger
	metrics  *metrics.Recorder

	states  map[int64]*chatState
	pending map[int64][]Toggle
}

// New constructs a Controller.
func New(cfg Config) *Controller {
	allowed := make(map[int64]bool, len(cfg.AuthorizedUsers))
	for _, id := range cfg.AuthorizedUsers {
		allowed[id] = true
	}
	registry := cfg.Registry
	if registry == nil {
		registry = game.NewRegistry()
	}
	return &Controller{
		channel:  cfg.Channel,
		store:    cfg.Store,
		registry: registry,
		allowed:  allowed,
		reject:   cfg.RejectActiveSession,
		journal:  cfg.Journal,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
		states:   make(map[int64]*chatState),
		pending:  make(map[int64][]Toggle),
	}
}

// Dispatch routes one inbound event through the state machine.
func (c *Controller) Dispatch(ctx context.Context, ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch ev := ev.(type) {
	case Command:
		c.handleCommand(ctx, ev)
	case Text:
		c.handleText(ctx, ev)
	case Toggle:
		c.handleToggle(ctx, ev)
	}
}

// State returns the current dialogue step for a chat.
func (c *Controller) State(chatID int64) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state(chatID).step
}

func (c *Controller) state(chatID int64) *chatState {
	st, ok := c.states[chatID]
	if !ok {
		st = &chatState{step: StateIdle}
		c.states[chatID] = st
	}
	return st
}

func (c *Controller) handleCommand(ctx context.Context, cmd Command) {
	if !c.allowed[cmd.UserID] {
		c.sendText(ctx, cmd.ChatID, msgUnauthorized)
		c.sendCode(ctx, cmd.ChatID, strconv.FormatInt(cmd.UserID, 10))
		logging.Warn(c.logger, "unauthorized command",
			slog.Int64(logging.FieldChatID, cmd.ChatID),
			slog.Int64(logging.FieldUserID, cmd.UserID),
			slog.String(logging.FieldCommand, cmd.Name),
		)
		return
	}

	switch cmd.Name {
	case CmdStart, CmdHelp:
		c.sendText(ctx, cmd.ChatID, msgHelp)
	case CmdPlayer:
		c.sendText(ctx, cmd.ChatID, msgAskNewPlayers)
		c.state(cmd.ChatID).step = StateAwaitingNewPlayers
	case CmdCancel:
		c.cancel(ctx, cmd.ChatID)
	case CmdNew:
		c.startGame(ctx, cmd.ChatID)
	default:
		logging.Info(c.logger, "ignoring unknown command",
			slog.Int64(logging.FieldChatID, cmd.ChatID),
			slog.String(logging.FieldCommand, cmd.Name),
		)
	}
}

func (c *Controller) startGame(ctx context.Context, chatID int64) {
	if c.reject {
		if _, active := c.registry.Get(chatID); active {
			c.sendText(ctx, chatID, msgSessionActive)
			c.metrics.RecordSession(metrics.SessionRejected)
			return
		}
	}

	roster, err := c.store.LoadRoster(ctx)
	if err != nil || len(roster) == 0 {
		logging.Error(c.logger, "roster load failed", err,
			slog.Int64(logging.FieldChatID, chatID),
			slog.Int(logging.FieldCount, len(roster)),
		)
		c.sendText(ctx, chatID, msgRosterFailure)
		return
	}

	session := game.NewSession(roster)
	if replaced := c.registry.Put(chatID, session); replaced {
		logging.Warn(c.logger, "active session replaced", slog.Int64(logging.FieldChatID, chatID))
		c.metrics.RecordSession(metrics.SessionReplaced)
		delete(c.pending, chatID)
	}
	c.metrics.RecordSession(metrics.SessionStarted)

	c.sendText(ctx, chatID, msgAskCount)
	c.state(chatID).step = StateAwaitingCount
}

func (c *Controller) cancel(ctx context.Context, chatID int64) {
	session, ok := c.registry.Get(chatID)
	if !ok {
		c.sendText(ctx, chatID, msgNothingToCancel)
		return
	}

	session.Reset()
	c.registry.Delete(chatID)
	delete(c.pending, chatID)
	c.state(chatID).step = StateIdle
	c.metrics.RecordSession(metrics.SessionCancelled)
	c.sendText(ctx, chatID, msgCancelled)
}

func (c *Controller) handleText(ctx context.Context, ev Text) {
	st := c.state(ev.ChatID)

	switch st.step {
	case StateAwaitingNewPlayers:
		c.appendPlayers(ctx, ev)
	case StateAwaitingCount:
		c.setPlayerCount(ctx, ev)
	case StateAwaitingScore:
		c.recordScore(ctx, ev)
	case StateAwaitingWinnerColor:
		c.withSession(ev.ChatID, func(s *game.Session) {
			s.WinnerColor = ev.Body
			c.sendText(ctx, ev.ChatID, msgAskLocation)
			st.step = StateAwaitingLocation
		})
	case StateAwaitingLocation:
		c.finalize(ctx, ev)
	default:
		// Free text outside an armed step is ignored, same as having no
		// listener registered.
	}
}

func (c *Controller) appendPlayers(ctx context.Context, ev Text) {
	c.state(ev.ChatID).step = StateIdle

	added, err := c.store.AppendPlayers(ctx, ev.Body)
	if err != nil {
		logging.Error(c.logger, "player append failed", err, slog.Int64(logging.FieldChatID, ev.ChatID))
		c.sendText(ctx, ev.ChatID, msgPlayersError)
		return
	}
	c.sendText(ctx, ev.ChatID, fmt.Sprintf(msgPlayersAdded, strings.Join(added, ", ")))
}

func (c *Controller) setPlayerCount(ctx context.Context, ev Text) {
	if !countPattern.MatchString(ev.Body) {
		c.sendText(ctx, ev.ChatID, msgInvalidCount)
		c.sendText(ctx, ev.ChatID, msgAskCount)
		return
	}

	c.withSession(ev.ChatID, func(s *game.Session) {
		count, _ := strconv.Atoi(ev.Body)
		s.Selection.SetExpected(count)

		keyboardID, err := c.channel.SendKeyboard(ctx, ev.ChatID,
			fmt.Sprintf(msgSelectPlayers, count), keyboardRows(s))
		if err != nil {
			logging.Error(c.logger, "keyboard send failed", err, slog.Int64(logging.FieldChatID, ev.ChatID))
			return
		}

		st := c.state(ev.ChatID)
		st.keyboardID = keyboardID
		st.step = StateAwaitingSelection
		c.replayPendingToggles(ctx, ev.ChatID)
	})
}

func (c *Controller) handleToggle(ctx context.Context, ev Toggle) {
	st := c.state(ev.ChatID)
	if st.step != StateAwaitingSelection {
		// Not armed for this chat: hold the event for the next selection
		// instead of dropping it.
		if len(c.pending[ev.ChatID]) < maxPendingToggles {
			c.pending[ev.ChatID] = append(c.pending[ev.ChatID], ev)
		}
		return
	}

	session, ok := c.registry.Get(ev.ChatID)
	if !ok {
		return
	}

	result := session.Selection.Toggle(ev.Player)
	if ev.CallbackID != "" {
		if err := c.channel.AnswerToggle(ctx, ev.CallbackID, result.Message); err != nil {
			logging.Warn(c.logger, "toggle ack failed", "error", err, slog.Int64(logging.FieldChatID, ev.ChatID))
		}
	}

	if err := c.channel.UpdateKeyboard(ctx, ev.ChatID, st.keyboardID, keyboardRows(session)); err != nil {
		logging.Warn(c.logger, "keyboard update failed", "error", err, slog.Int64(logging.FieldChatID, ev.ChatID))
	}

	if result.Complete {
		c.sendText(ctx, ev.ChatID, msgSelectionDone)
		c.askNextScore(ctx, ev.ChatID, session)
	}
}

func (c *Controller) replayPendingToggles(ctx context.Context, chatID int64) {
	queued := c.pending[chatID]
	delete(c.pending, chatID)
	for _, toggle := range queued {
		if c.state(chatID).step != StateAwaitingSelection {
			break
		}
		c.handleToggle(ctx, toggle)
	}
}

func (c *Controller) recordScore(ctx context.Context, ev Text) {
	c.withSession(ev.ChatID, func(s *game.Session) {
		current, ok := s.Scoring.Current()
		if !ok {
			return
		}

		if err := s.Scoring.Record(ev.Body); err != nil {
			c.sendText(ctx, ev.ChatID, msgInvalidScore)
			c.sendText(ctx, ev.ChatID, fmt.Sprintf(msgAskScore, current))
			return
		}
		c.askNextScore(ctx, ev.ChatID, s)
	})
}

func (c *Controller) askNextScore(ctx context.Context, chatID int64, s *game.Session) {
	if current, ok := s.Scoring.Current(); ok {
		c.sendText(ctx, chatID, fmt.Sprintf(msgAskScore, current))
		c.state(chatID).step = StateAwaitingScore
		return
	}

	c.sendText(ctx, chatID, msgAskWinnerColor)
	c.state(chatID).step = StateAwaitingWinnerColor
}

func (c *Controller) finalize(ctx context.Context, ev Text) {
	c.withSession(ev.ChatID, func(s *game.Session) {
		s.Location = ev.Body

		res := store.Result{
			Players:     s.Players(),
			WinnerColor: s.WinnerColor,
			Location:    s.Location,
		}
		if err := c.store.AppendResult(ctx, res); err != nil {
			// The session stays in the registry so the user can retry by
			// answering the location prompt again.
			logging.Error(c.logger, "result append failed", err, slog.Int64(logging.FieldChatID, ev.ChatID))
			c.sendText(ctx, ev.ChatID, msgSaveError)
			c.sendText(ctx, ev.ChatID, msgAskLocation)
			return
		}

		if c.journal != nil {
			if err := c.journal.Record(ctx, res); err != nil {
				logging.Warn(c.logger, "journal write failed", "error", err, slog.Int64(logging.FieldChatID, ev.ChatID))
			}
		}

		c.registry.Delete(ev.ChatID)
		delete(c.pending, ev.ChatID)
		c.state(ev.ChatID).step = StateIdle
		c.metrics.RecordSession(metrics.SessionFinalized)
		c.sendText(ctx, ev.ChatID, msgSuccess)
	})
}

// withSession runs fn against the chat's active session, silently ignoring
// events for chats without one (e.g. replies after a cancel).
func (c *Controller) withSession(chatID int64, fn func(*game.Session)) {
	session, ok := c.registry.Get(chatID)
	if !ok {
		return
	}
	fn(session)
}

func (c *Controller) sendText(ctx context.Context, chatID int64, text string) {
	if err := c.channel.SendText(ctx, chatID, text); err != nil {
		logging.Warn(c.logger, "message send failed", "error", err, slog.Int64(logging.FieldChatID, chatID))
	}
}

func (c *Controller) sendCode(ctx context.Context, chatID int64, text string) {
	if err := c.channel.SendCode(ctx, chatID, text); err != nil {
		logging.Warn(c.logger, "message send failed", "error", err, slog.Int64(logging.FieldChatID, chatID))
	}
}

// keyboardRows renders one selectable row per roster player, marking current
// selections.
func keyboardRows(s *game.Session) []KeyboardRow {
	roster := s.Roster()
	rows := make([]KeyboardRow, 0, len(roster))
	for _, name := range roster {
		label := name
		if s.Selection.Selected(name) {
			label = "✅ " + name
		}
		rows = append(rows, KeyboardRow{Label: label, Key: ToggleKey(name)})
	}
	return rows
}

// ToggleKey builds the callback key for a roster player.
func ToggleKey(name string) string {
	return "select:" + name
}

// PlayerFromKey extracts the player from a toggle callback key.
func PlayerFromKey(key string) (string, bool) {
	return strings.CutPrefix(key, "select:")
}
