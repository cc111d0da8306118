package game

import (
	"reflect"
	"testing"
)

func TestResetClearsEverything(t *testing.T) {
	s := NewSession([]string{"Ana", "Bob"})
	s.Selection.SetExpected(2)
	s.Selection.Toggle("Ana")
	s.Selection.Toggle("Bob")
	if err := s.Scoring.Record("8"); err != nil {
		t.Fatalf("record: %v", err)
	}
	s.WinnerColor = "rojo"
	s.Location = "casa de Ana"

	s.Reset()

	if len(s.Players()) != 0 {
		t.Fatalf("expected no players after reset, got %v", s.Players())
	}
	if s.Selection.Expected() != 0 {
		t.Fatalf("expected count not cleared: %d", s.Selection.Expected())
	}
	if s.Scoring.Cursor() != 0 {
		t.Fatalf("cursor not cleared: %d", s.Scoring.Cursor())
	}
	if s.WinnerColor != "" || s.Location != "" {
		t.Fatalf("free-text fields not cleared: %q %q", s.WinnerColor, s.Location)
	}
	if !reflect.DeepEqual(s.Roster(), []string{"Ana", "Bob"}) {
		t.Fatalf("roster must survive reset, got %v", s.Roster())
	}
}

func TestPlayersDefaultsMissingScoreToZero(t *testing.T) {
	s := NewSession([]string{"Ana"})
	s.Selection.SetExpected(1)
	s.Selection.Toggle("Ana")

	players := s.Players()
	if len(players) != 1 || players[0].Score != 0 {
		t.Fatalf("unexpected players: %v", players)
	}
}

func TestRosterIsCopied(t *testing.T) {
	roster := []string{"Ana", "Bob"}
	s := NewSession(roster)
	roster[0] = "mutated"

	if s.Roster()[0] != "Ana" {
		t.Fatalf("session roster must not alias the input slice")
	}
}

func TestRegistryIsolation(t *testing.T) {
	reg := NewRegistry()
	a := NewSession([]string{"Ana"})
	b := NewSession([]string{"Bob"})

	reg.Put(1, a)
	reg.Put(2, b)

	gotA, ok := reg.Get(1)
	if !ok || gotA != a {
		t.Fatalf("chat 1 lookup failed")
	}
	gotA.Selection.SetExpected(1)
	gotA.Selection.Toggle("Ana")

	gotB, _ := reg.Get(2)
	if gotB.Selection.Size() != 0 {
		t.Fatalf("chat 2 session mutated by chat 1 activity")
	}
}

func TestRegistryReplaceAndDelete(t *testing.T) {
	reg := NewRegistry()
	if replaced := reg.Put(7, NewSession(nil)); replaced {
		t.Fatalf("first Put should not report replacement")
	}
	if replaced := reg.Put(7, NewSession(nil)); !replaced {
		t.Fatalf("second Put should report replacement")
	}
	if reg.Len() != 1 {
		t.Fatalf("expected a single entry, got %d", reg.Len())
	}

	reg.Delete(7)
	if _, ok := reg.Get(7); ok {
		t.Fatalf("expected session removed")
	}
	if reg.Len() != 0 {
		t.Fatalf("expected empty registry")
	}
}
