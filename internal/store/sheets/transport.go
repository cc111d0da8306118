package sheets

import (
	"context"
	"net/http"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
)

const (
	defaultBaseURL     = "https://sheets.googleapis.com/v4"
	defaultHTTPTimeout = 0 // the oauth2 transport manages its own timeouts
	spreadsheetsScope  = "https://www.googleapis.com/auth/spreadsheets"
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

func normalizeBaseURL(raw string) string {
	if raw == "" {
		raw = defaultBaseURL
	}
	return strings.TrimSuffix(raw, "/")
}

// credentialsClient builds an authenticated HTTP client from a service
// account key file.
func credentialsClient(ctx context.Context, credentialsFile string) (*http.Client, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, err
	}
	jwtCfg, err := google.JWTConfigFromJSON(data, spreadsheetsScope)
	if err != nil {
		return nil, err
	}
	return jwtCfg.Client(ctx), nil
}
