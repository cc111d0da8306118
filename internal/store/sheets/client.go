// Package sheets persists rosters and results in a Google spreadsheet via the
// values API, authenticated with a service-account key.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"catan-results-bot/internal/store"
	"catan-results-bot/internal/timeutil"
)

const (
	rosterRange     = "jugadores!A:A"
	resultsRange    = "resultados!A:H"
	gameNumberRange = "resultados!A:A"

	yes = "Si"
	no  = "No"
)

// Config controls how the client reaches the Sheets values API.
type Config struct {
	SpreadsheetID   string
	CredentialsFile string
	BaseURL         string
	// HTTPClient overrides the authenticated client; used by tests.
	HTTPClient *http.Client
}

// Client implements store.Store on top of a single spreadsheet.
type Client struct {
	baseURL       string
	spreadsheetID string
	httpClient    httpDoer
	now           func() time.Time
}

// NewClient constructs a Sheets client. Unless an HTTP client is injected, the
// service-account key file is loaded and used for authentication.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("sheets: spreadsheet id is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		var err error
		httpClient, err = credentialsClient(ctx, cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("sheets: loading credentials: %w", err)
		}
	}

	return &Client{
		baseURL:       normalizeBaseURL(cfg.BaseURL),
		spreadsheetID: cfg.SpreadsheetID,
		httpClient:    httpClient,
		now:           time.Now,
	}, nil
}

// LoadRoster reads the roster column and returns the names alphabetically
// sorted.
func (c *Client) LoadRoster(ctx context.Context) ([]string, error) {
	values, err := c.getValues(ctx, rosterRange)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(values.Values))
	for _, row := range values.Values {
		for _, cell := range row {
			name := strings.TrimSpace(fmt.Sprint(cell))
			if name != "" {
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names, nil
}

// AppendPlayers normalizes raw and appends one roster row per name.
func (c *Client) AppendPlayers(ctx context.Context, raw string) ([]string, error) {
	names := store.NormalizeNames(raw)
	if len(names) == 0 {
		return nil, store.ErrNoPlayers
	}

	rows := make([][]any, 0, len(names))
	for _, name := range names {
		rows = append(rows, []any{name, "false"})
	}
	if err := c.appendValues(ctx, rosterRange, rows); err != nil {
		return nil, err
	}
	return names, nil
}

// AppendResult reads the game-number column, assigns the next number, and
// appends one result row per player.
func (c *Client) AppendResult(ctx context.Context, res store.Result) error {
	values, err := c.getValues(ctx, gameNumberRange)
	if err != nil {
		return fmt.Errorf("sheets: reading game numbers: %w", err)
	}

	existing := make([]string, 0, len(values.Values))
	for _, row := range values.Values {
		if len(row) > 0 {
			existing = append(existing, fmt.Sprint(row[0]))
		}
	}

	number := store.NextGameNumber(existing)
	rows := make([][]any, 0, len(res.Players))
	for _, line := range store.BuildRows(res, number, c.now()) {
		rows = append(rows, []any{
			line.GameNumber,
			timeutil.FormatTimestamp(line.Timestamp),
			line.Player,
			line.Score,
			boolCell(line.Highest),
			boolCell(line.Lowest),
			line.WinnerColor,
			line.Location,
		})
	}

	if err := c.appendValues(ctx, resultsRange, rows); err != nil {
		return fmt.Errorf("sheets: appending results: %w", err)
	}
	return nil
}

func (c *Client) getValues(ctx context.Context, rng string) (valueRange, error) {
	endpoint := fmt.Sprintf("%s/spreadsheets/%s/values/%s", c.baseURL, c.spreadsheetID, url.PathEscape(rng))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return valueRange{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return valueRange{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return valueRange{}, apiError(resp)
	}

	var payload valueRange
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return valueRange{}, err
	}
	return payload, nil
}

func (c *Client) appendValues(ctx context.Context, rng string, rows [][]any) error {
	endpoint := fmt.Sprintf("%s/spreadsheets/%s/values/%s:append", c.baseURL, c.spreadsheetID, url.PathEscape(rng))

	body, err := json.Marshal(valueRange{Values: rows})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	q := req.URL.Query()
	q.Set("valueInputOption", "USER_ENTERED")
	q.Set("insertDataOption", "INSERT_ROWS")
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}

	var payload appendResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return err
	}
	return nil
}

func apiError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("sheets: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}

func boolCell(v bool) string {
	if v {
		return yes
	}
	return no
}
