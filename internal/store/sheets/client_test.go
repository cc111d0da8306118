package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"testing"
	"time"

	"catan-results-bot/internal/game"
	"catan-results-bot/internal/store"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(context.Background(), Config{
		SpreadsheetID: "sheet-1",
		BaseURL:       srv.URL,
		HTTPClient:    srv.Client(),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client, srv
}

func TestLoadRosterSortsNames(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wantPath := "/spreadsheets/sheet-1/values/" + url.PathEscape("jugadores!A:A")
		if r.URL.EscapedPath() != wantPath {
			t.Fatalf("unexpected path %s, want %s", r.URL.EscapedPath(), wantPath)
		}
		json.NewEncoder(w).Encode(valueRange{Values: [][]any{{"Carlos"}, {"Ana"}, {" "}, {"Bob"}}})
	}))

	roster, err := client.LoadRoster(context.Background())
	if err != nil {
		t.Fatalf("LoadRoster: %v", err)
	}
	if !reflect.DeepEqual(roster, []string{"Ana", "Bob", "Carlos"}) {
		t.Fatalf("unexpected roster: %v", roster)
	}
}

func TestAppendPlayersNormalizesAndAppends(t *testing.T) {
	var got valueRange
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		if q := r.URL.Query().Get("valueInputOption"); q != "USER_ENTERED" {
			t.Fatalf("missing valueInputOption, got %q", q)
		}
		if q := r.URL.Query().Get("insertDataOption"); q != "INSERT_ROWS" {
			t.Fatalf("missing insertDataOption, got %q", q)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		json.NewEncoder(w).Encode(appendResponse{SpreadsheetID: "sheet-1"})
	}))

	names, err := client.AppendPlayers(context.Background(), " ana, BOB ,,carlos")
	if err != nil {
		t.Fatalf("AppendPlayers: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"Ana", "Bob", "Carlos"}) {
		t.Fatalf("unexpected names: %v", names)
	}
	if len(got.Values) != 3 || got.Values[0][0] != "Ana" || got.Values[0][1] != "false" {
		t.Fatalf("unexpected appended rows: %v", got.Values)
	}
}

func TestAppendPlayersRejectsEmptyInput(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("no request expected for empty input")
	}))

	if _, err := client.AppendPlayers(context.Background(), " , "); err != store.ErrNoPlayers {
		t.Fatalf("expected ErrNoPlayers, got %v", err)
	}
}

func TestAppendResultNumbersAndFlags(t *testing.T) {
	var appended valueRange
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			json.NewEncoder(w).Encode(valueRange{Values: [][]any{{"1"}, {"2"}, {"2"}, {"4"}}})
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&appended); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		json.NewEncoder(w).Encode(appendResponse{SpreadsheetID: "sheet-1"})
	}))

	client.now = func() time.Time { return time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC) }

	res := store.Result{
		Players:     []game.Player{{Name: "Ana", Score: 9}, {Name: "Bob", Score: 3}},
		WinnerColor: "rojo",
		Location:    "club",
	}
	if err := client.AppendResult(context.Background(), res); err != nil {
		t.Fatalf("AppendResult: %v", err)
	}

	if len(appended.Values) != 2 {
		t.Fatalf("expected 2 rows, got %v", appended.Values)
	}

	first := appended.Values[0]
	if first[0] != float64(5) {
		t.Fatalf("expected game number 5, got %v", first[0])
	}
	if first[1] != "2024-05-01T20:00:00Z" {
		t.Fatalf("unexpected timestamp: %v", first[1])
	}
	if first[2] != "Ana" || first[4] != "Si" || first[5] != "No" || first[6] != "rojo" || first[7] != "club" {
		t.Fatalf("unexpected winner row: %v", first)
	}

	second := appended.Values[1]
	if second[2] != "Bob" || second[4] != "No" || second[5] != "Si" || second[6] != "" || second[7] != "" {
		t.Fatalf("unexpected loser row: %v", second)
	}
}

func TestAppendResultPropagatesAppendFailure(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			json.NewEncoder(w).Encode(valueRange{})
			return
		}
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))

	err := client.AppendResult(context.Background(), store.Result{
		Players: []game.Player{{Name: "Ana", Score: 5}},
	})
	if err == nil {
		t.Fatalf("expected append failure to propagate")
	}
}
