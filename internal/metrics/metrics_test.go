package metrics

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRecorderStoreCalls(t *testing.T) {
	rec := NewRecorder()

	rec.RecordStoreCall("memory", "load_roster", 5*time.Millisecond, nil)
	rec.RecordStoreCall("memory", "append_result", 7*time.Millisecond, errors.New("boom"))
	rec.RecordStoreCall("sheets", "load_roster", time.Millisecond, nil)

	if got := rec.StoreCalls("memory"); got != 2 {
		t.Fatalf("expected 2 memory calls, got %d", got)
	}
	if got := rec.StoreErrors("memory"); got != 1 {
		t.Fatalf("expected 1 memory error, got %d", got)
	}
	if got := rec.StoreCalls("sheets"); got != 1 {
		t.Fatalf("expected 1 sheets call, got %d", got)
	}
	if got := rec.StoreCalls("sqlite"); got != 0 {
		t.Fatalf("expected 0 sqlite calls, got %d", got)
	}
}

func TestRecorderTelegramAndSessions(t *testing.T) {
	rec := NewRecorder()

	rec.RecordTelegramCall("sendMessage", time.Millisecond, nil)
	rec.RecordTelegramCall("sendMessage", time.Millisecond, errors.New("boom"))
	rec.RecordSession(SessionStarted)
	rec.RecordSession(SessionStarted)
	rec.RecordSession(SessionFinalized)

	if got := rec.TelegramCalls("sendMessage"); got != 2 {
		t.Fatalf("expected 2 sendMessage calls, got %d", got)
	}
	if got := rec.SessionEvents(SessionStarted); got != 2 {
		t.Fatalf("expected 2 started events, got %d", got)
	}
	if got := rec.SessionEvents(SessionCancelled); got != 0 {
		t.Fatalf("expected 0 cancelled events, got %d", got)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *Recorder

	rec.RecordStoreCall("memory", "load_roster", time.Millisecond, nil)
	rec.RecordTelegramCall("sendMessage", time.Millisecond, nil)
	rec.RecordSession(SessionStarted)
	rec.RecordHTTPRequest("POST", "/healthz", 200, time.Millisecond)
	rec.RecordPollerCycle(time.Millisecond, nil)

	if rec.StoreCalls("memory") != 0 || rec.SessionEvents(SessionStarted) != 0 {
		t.Fatalf("nil recorder should report zeros")
	}
}

func TestSetupDisabled(t *testing.T) {
	rec, handler, shutdown, err := Setup(context.Background(), TelemetryConfig{Enabled: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec == nil {
		t.Fatalf("expected recorder even when disabled")
	}
	if handler != nil {
		t.Fatalf("expected no handler when disabled")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown should be a no-op: %v", err)
	}
}
