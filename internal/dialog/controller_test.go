package dialog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"catan-results-bot/internal/game"
	"catan-results-bot/internal/metrics"
	"catan-results-bot/internal/store"
)

type sentMessage struct {
	chatID int64
	text   string
}

type sentKeyboard struct {
	chatID    int64
	messageID int64
	rows      []KeyboardRow
}

type fakeChannel struct {
	texts     []sentMessage
	codes     []sentMessage
	keyboards []sentKeyboard
	updates   []sentKeyboard
	answers   []string
	nextID    int64
}

func (f *fakeChannel) SendText(ctx context.Context, chatID int64, text string) error {
	f.texts = append(f.texts, sentMessage{chatID, text})
	return nil
}

func (f *fakeChannel) SendCode(ctx context.Context, chatID int64, text string) error {
	f.codes = append(f.codes, sentMessage{chatID, text})
	return nil
}

func (f *fakeChannel) SendKeyboard(ctx context.Context, chatID int64, text string, rows []KeyboardRow) (int64, error) {
	f.nextID++
	f.keyboards = append(f.keyboards, sentKeyboard{chatID, f.nextID, rows})
	f.texts = append(f.texts, sentMessage{chatID, text})
	return f.nextID, nil
}

func (f *fakeChannel) UpdateKeyboard(ctx context.Context, chatID, messageID int64, rows []KeyboardRow) error {
	f.updates = append(f.updates, sentKeyboard{chatID, messageID, rows})
	return nil
}

func (f *fakeChannel) AnswerToggle(ctx context.Context, callbackID, text string) error {
	f.answers = append(f.answers, text)
	return nil
}

func (f *fakeChannel) lastText(chatID int64) string {
	for i := len(f.texts) - 1; i >= 0; i-- {
		if f.texts[i].chatID == chatID {
			return f.texts[i].text
		}
	}
	return ""
}

// failingStore fails AppendResult a configurable number of times.
type failingStore struct {
	*store.MemoryStore
	failures int
	attempts int
}

func (f *failingStore) AppendResult(ctx context.Context, res store.Result) error {
	f.attempts++
	if f.attempts <= f.failures {
		return errors.New("quota exceeded")
	}
	return f.MemoryStore.AppendResult(ctx, res)
}

const authorizedUser int64 = 42

func newTestController(t *testing.T, st store.Store) (*Controller, *fakeChannel, *game.Registry) {
	t.Helper()
	channel := &fakeChannel{}
	registry := game.NewRegistry()
	ctrl := New(Config{
		Channel:         channel,
		Store:           st,
		Registry:        registry,
		AuthorizedUsers: []int64{authorizedUser},
		Metrics:         metrics.NewRecorder(),
	})
	return ctrl, channel, registry
}

func dispatchCommand(ctrl *Controller, chatID int64, name string) {
	ctrl.Dispatch(context.Background(), Command{ChatID: chatID, UserID: authorizedUser, Name: name})
}

func dispatchText(ctrl *Controller, chatID int64, body string) {
	ctrl.Dispatch(context.Background(), Text{ChatID: chatID, UserID: authorizedUser, Body: body})
}

func dispatchToggle(ctrl *Controller, chatID int64, player string) {
	ctrl.Dispatch(context.Background(), Toggle{ChatID: chatID, UserID: authorizedUser, CallbackID: "cb", Player: player})
}

func TestFullGameFlow(t *testing.T) {
	mem := store.NewMemoryStore("Ana", "Bob", "Carlos")
	ctrl, channel, registry := newTestController(t, mem)
	const chat int64 = 1

	dispatchCommand(ctrl, chat, CmdNew)
	if got := channel.lastText(chat); got != msgAskCount {
		t.Fatalf("expected count prompt, got %q", got)
	}
	if ctrl.State(chat) != StateAwaitingCount {
		t.Fatalf("expected awaiting count, got %v", ctrl.State(chat))
	}

	dispatchText(ctrl, chat, "2")
	if ctrl.State(chat) != StateAwaitingSelection {
		t.Fatalf("expected awaiting selection, got %v", ctrl.State(chat))
	}
	if len(channel.keyboards) != 1 || len(channel.keyboards[0].rows) != 3 {
		t.Fatalf("expected a 3-row keyboard, got %+v", channel.keyboards)
	}

	dispatchToggle(ctrl, chat, "Bob")
	if ctrl.State(chat) != StateAwaitingSelection {
		t.Fatalf("selection should not complete after one of two")
	}
	if len(channel.updates) != 1 {
		t.Fatalf("keyboard should be re-rendered per toggle")
	}
	if !strings.HasPrefix(channel.updates[0].rows[1].Label, "✅ ") {
		t.Fatalf("selected player not marked: %+v", channel.updates[0].rows)
	}

	dispatchToggle(ctrl, chat, "Ana")
	if ctrl.State(chat) != StateAwaitingScore {
		t.Fatalf("expected awaiting score, got %v", ctrl.State(chat))
	}
	if got := channel.lastText(chat); got != fmt.Sprintf(msgAskScore, "Bob") {
		t.Fatalf("expected score prompt for Bob first, got %q", got)
	}

	dispatchText(ctrl, chat, "10")
	if got := channel.lastText(chat); got != fmt.Sprintf(msgAskScore, "Ana") {
		t.Fatalf("expected score prompt for Ana, got %q", got)
	}

	dispatchText(ctrl, chat, "7")
	if ctrl.State(chat) != StateAwaitingWinnerColor {
		t.Fatalf("expected awaiting winner color, got %v", ctrl.State(chat))
	}

	dispatchText(ctrl, chat, "rojo")
	if ctrl.State(chat) != StateAwaitingLocation {
		t.Fatalf("expected awaiting location, got %v", ctrl.State(chat))
	}

	dispatchText(ctrl, chat, "club")
	if got := channel.lastText(chat); got != msgSuccess {
		t.Fatalf("expected success message, got %q", got)
	}
	if ctrl.State(chat) != StateIdle {
		t.Fatalf("expected idle after finalize, got %v", ctrl.State(chat))
	}
	if registry.Len() != 0 {
		t.Fatalf("session must be removed after finalize")
	}

	rows := mem.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 persisted rows, got %d", len(rows))
	}
	if rows[0].Player != "Bob" || rows[0].Score != 10 || !rows[0].Highest || rows[0].WinnerColor != "rojo" {
		t.Fatalf("unexpected winner row: %+v", rows[0])
	}
	if rows[1].Player != "Ana" || rows[1].Score != 7 || rows[1].Highest || !rows[1].Lowest {
		t.Fatalf("unexpected second row: %+v", rows[1])
	}
}

func TestInvalidCountReprompts(t *testing.T) {
	ctrl, channel, _ := newTestController(t, store.NewMemoryStore("Ana"))
	const chat int64 = 1

	dispatchCommand(ctrl, chat, CmdNew)
	for _, bad := range []string{"dos", "-1", "2.5", ""} {
		dispatchText(ctrl, chat, bad)
		if ctrl.State(chat) != StateAwaitingCount {
			t.Fatalf("state moved on invalid count %q", bad)
		}
		if got := channel.lastText(chat); got != msgAskCount {
			t.Fatalf("expected re-prompt after %q, got %q", bad, got)
		}
	}
}

func TestInvalidScoreKeepsCursor(t *testing.T) {
	ctrl, channel, registry := newTestController(t, store.NewMemoryStore("Ana"))
	const chat int64 = 1

	dispatchCommand(ctrl, chat, CmdNew)
	dispatchText(ctrl, chat, "1")
	dispatchToggle(ctrl, chat, "Ana")

	dispatchText(ctrl, chat, "11")
	if ctrl.State(chat) != StateAwaitingScore {
		t.Fatalf("state moved on invalid score")
	}
	if got := channel.lastText(chat); got != fmt.Sprintf(msgAskScore, "Ana") {
		t.Fatalf("expected same-player re-prompt, got %q", got)
	}

	session, _ := registry.Get(chat)
	if session.Scoring.Cursor() != 0 {
		t.Fatalf("cursor advanced on invalid score")
	}
}

func TestUnauthorizedCommandIsNoop(t *testing.T) {
	ctrl, channel, registry := newTestController(t, store.NewMemoryStore("Ana"))

	ctrl.Dispatch(context.Background(), Command{ChatID: 1, UserID: 999, Name: CmdNew})

	if registry.Len() != 0 {
		t.Fatalf("unauthorized user must not create a session")
	}
	if got := channel.lastText(1); got != msgUnauthorized {
		t.Fatalf("expected rejection, got %q", got)
	}
	if len(channel.codes) != 1 || channel.codes[0].text != "999" {
		t.Fatalf("expected sender ID echoed back, got %+v", channel.codes)
	}
}

func TestEmptyRosterAbortsStart(t *testing.T) {
	ctrl, channel, registry := newTestController(t, store.NewMemoryStore())
	dispatchCommand(ctrl, 1, CmdNew)

	if registry.Len() != 0 {
		t.Fatalf("no session should exist after roster failure")
	}
	if got := channel.lastText(1); got != msgRosterFailure {
		t.Fatalf("expected roster failure message, got %q", got)
	}
	if ctrl.State(1) != StateIdle {
		t.Fatalf("expected idle state, got %v", ctrl.State(1))
	}
}

func TestCancel(t *testing.T) {
	ctrl, channel, registry := newTestController(t, store.NewMemoryStore("Ana"))
	const chat int64 = 1

	dispatchCommand(ctrl, chat, CmdCancel)
	if got := channel.lastText(chat); got != msgNothingToCancel {
		t.Fatalf("expected nothing-to-cancel, got %q", got)
	}

	dispatchCommand(ctrl, chat, CmdNew)
	dispatchText(ctrl, chat, "1")
	dispatchCommand(ctrl, chat, CmdCancel)

	if registry.Len() != 0 {
		t.Fatalf("cancel must remove the session")
	}
	if ctrl.State(chat) != StateIdle {
		t.Fatalf("expected idle after cancel, got %v", ctrl.State(chat))
	}
	if got := channel.lastText(chat); got != msgCancelled {
		t.Fatalf("expected cancel confirmation, got %q", got)
	}
}

func TestToggleBeforeSelectionIsReplayed(t *testing.T) {
	ctrl, _, registry := newTestController(t, store.NewMemoryStore("Ana", "Bob"))
	const chat int64 = 1

	// A stray toggle arrives while the chat is idle; it must not be dropped.
	dispatchToggle(ctrl, chat, "Ana")

	dispatchCommand(ctrl, chat, CmdNew)
	dispatchText(ctrl, chat, "2")

	session, _ := registry.Get(chat)
	if session.Selection.Size() != 1 || !session.Selection.Selected("Ana") {
		t.Fatalf("held toggle not replayed: %v", session.Selection.Names())
	}
}

func TestFinalizeFailurePreservesSession(t *testing.T) {
	failing := &failingStore{MemoryStore: store.NewMemoryStore("Ana"), failures: 1}
	ctrl, channel, registry := newTestController(t, failing)
	const chat int64 = 1

	dispatchCommand(ctrl, chat, CmdNew)
	dispatchText(ctrl, chat, "1")
	dispatchToggle(ctrl, chat, "Ana")
	dispatchText(ctrl, chat, "5")
	dispatchText(ctrl, chat, "rojo")
	dispatchText(ctrl, chat, "club")

	if registry.Len() != 1 {
		t.Fatalf("session must survive a failed finalize")
	}
	if ctrl.State(chat) != StateAwaitingLocation {
		t.Fatalf("expected to stay on location step, got %v", ctrl.State(chat))
	}
	if got := channel.lastText(chat); got != msgAskLocation {
		t.Fatalf("expected location re-prompt, got %q", got)
	}

	// Retrying the location answer finalizes.
	dispatchText(ctrl, chat, "club")
	if registry.Len() != 0 {
		t.Fatalf("session must be removed after successful retry")
	}
	if got := channel.lastText(chat); got != msgSuccess {
		t.Fatalf("expected success, got %q", got)
	}
	if len(failing.Rows()) != 1 {
		t.Fatalf("expected one persisted row, got %d", len(failing.Rows()))
	}
}

func TestSessionIsolationAcrossChats(t *testing.T) {
	ctrl, _, registry := newTestController(t, store.NewMemoryStore("Ana", "Bob"))

	dispatchCommand(ctrl, 1, CmdNew)
	dispatchCommand(ctrl, 2, CmdNew)

	// Interleave the two dialogues.
	dispatchText(ctrl, 1, "1")
	dispatchText(ctrl, 2, "2")
	dispatchToggle(ctrl, 1, "Ana")
	dispatchToggle(ctrl, 2, "Bob")

	s1, _ := registry.Get(1)
	s2, _ := registry.Get(2)
	if s1.Selection.Size() != 1 || !s1.Selection.Selected("Ana") {
		t.Fatalf("chat 1 selection corrupted: %v", s1.Selection.Names())
	}
	if s2.Selection.Size() != 1 || !s2.Selection.Selected("Bob") {
		t.Fatalf("chat 2 selection corrupted: %v", s2.Selection.Names())
	}
	if ctrl.State(1) != StateAwaitingScore {
		t.Fatalf("chat 1 should be scoring, got %v", ctrl.State(1))
	}
	if ctrl.State(2) != StateAwaitingSelection {
		t.Fatalf("chat 2 should still be selecting, got %v", ctrl.State(2))
	}
}

func TestDoubleNewReplacesByDefault(t *testing.T) {
	ctrl, _, registry := newTestController(t, store.NewMemoryStore("Ana"))
	const chat int64 = 1

	dispatchCommand(ctrl, chat, CmdNew)
	dispatchText(ctrl, chat, "1")
	first, _ := registry.Get(chat)

	dispatchCommand(ctrl, chat, CmdNew)
	second, _ := registry.Get(chat)
	if first == second {
		t.Fatalf("expected a fresh session after second /new")
	}
	if ctrl.State(chat) != StateAwaitingCount {
		t.Fatalf("expected restart at count step, got %v", ctrl.State(chat))
	}
}

func TestDoubleNewRejectedWithPolicy(t *testing.T) {
	channel := &fakeChannel{}
	registry := game.NewRegistry()
	ctrl := New(Config{
		Channel:             channel,
		Store:               store.NewMemoryStore("Ana"),
		Registry:            registry,
		AuthorizedUsers:     []int64{authorizedUser},
		RejectActiveSession: true,
		Metrics:             metrics.NewRecorder(),
	})
	const chat int64 = 1

	dispatchCommand(ctrl, chat, CmdNew)
	dispatchText(ctrl, chat, "1")
	first, _ := registry.Get(chat)

	dispatchCommand(ctrl, chat, CmdNew)
	second, _ := registry.Get(chat)
	if first != second {
		t.Fatalf("reject policy must keep the active session")
	}
	if got := channel.lastText(chat); got != msgSessionActive {
		t.Fatalf("expected active-session message, got %q", got)
	}
	if ctrl.State(chat) != StateAwaitingSelection {
		t.Fatalf("dialogue position must be unchanged, got %v", ctrl.State(chat))
	}
}

func TestPlayerCommandAppendsRoster(t *testing.T) {
	mem := store.NewMemoryStore()
	ctrl, channel, _ := newTestController(t, mem)
	const chat int64 = 1

	dispatchCommand(ctrl, chat, CmdPlayer)
	if ctrl.State(chat) != StateAwaitingNewPlayers {
		t.Fatalf("expected awaiting new players, got %v", ctrl.State(chat))
	}

	dispatchText(ctrl, chat, " ana, BOB")
	if got := channel.lastText(chat); got != fmt.Sprintf(msgPlayersAdded, "Ana, Bob") {
		t.Fatalf("unexpected confirmation: %q", got)
	}
	if ctrl.State(chat) != StateIdle {
		t.Fatalf("expected idle after append, got %v", ctrl.State(chat))
	}

	roster, _ := mem.LoadRoster(context.Background())
	if len(roster) != 2 {
		t.Fatalf("roster not extended: %v", roster)
	}
}

func TestPlayerCommandReportsErrors(t *testing.T) {
	ctrl, channel, _ := newTestController(t, store.NewMemoryStore())
	const chat int64 = 1

	dispatchCommand(ctrl, chat, CmdPlayer)
	dispatchText(ctrl, chat, " , ")
	if got := channel.lastText(chat); got != msgPlayersError {
		t.Fatalf("expected player error message, got %q", got)
	}
}

func TestMaxSelectionToggleRejected(t *testing.T) {
	ctrl, channel, registry := newTestController(t, store.NewMemoryStore("Ana", "Bob", "Carlos"))
	const chat int64 = 1

	dispatchCommand(ctrl, chat, CmdNew)
	dispatchText(ctrl, chat, "1")
	dispatchToggle(ctrl, chat, "Ana")

	// Selection completed; further toggles are held, not applied.
	dispatchToggle(ctrl, chat, "Bob")
	session, _ := registry.Get(chat)
	if session.Selection.Size() != 1 {
		t.Fatalf("selection mutated after completion: %v", session.Selection.Names())
	}

	if len(channel.answers) != 1 || channel.answers[0] != "Ana seleccionado" {
		t.Fatalf("unexpected toggle answers: %v", channel.answers)
	}
}
