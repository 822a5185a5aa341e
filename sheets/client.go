// Package sheets reads a public Google spreadsheet through the values API
// and reshapes it into records keyed by the header row.
package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the Google Sheets API endpoint.
const DefaultBaseURL = "https://sheets.googleapis.com"

// Config holds spreadsheet access configuration.
type Config struct {
	SpreadsheetID string
	APIKey        string
	BaseURL       string       // Default: DefaultBaseURL
	HTTPClient    *http.Client // Default: client with a 10s timeout
}

// Client reads sheets of one spreadsheet.
type Client struct {
	http          *http.Client
	baseURL       string
	spreadsheetID string
	apiKey        string
}

// Record is one data row keyed by column header.
type Record map[string]string

// valuesResponse is the body of a values.get call.
type valuesResponse struct {
	Values [][]string `json:"values"`
}

// New creates a new spreadsheet client.
func New(cfg Config) (*Client, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("sheets API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}

	return &Client{
		http:          cfg.HTTPClient,
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		spreadsheetID: cfg.SpreadsheetID,
		apiKey:        cfg.APIKey,
	}, nil
}

// Values returns the rows of sheet after the header row. Missing trailing
// cells are empty strings. A sheet with no data rows yields an empty slice.
func (c *Client) Values(ctx context.Context, sheet string) ([]Record, error) {
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s?key=%s",
		c.baseURL,
		url.PathEscape(c.spreadsheetID),
		url.PathEscape(sheet),
		url.QueryEscape(c.apiKey),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for sheet %q: %w", sheet, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching sheet %q: %w", sheet, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching sheet %q: unexpected status %d", sheet, resp.StatusCode)
	}

	var body valuesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding sheet %q: %w", sheet, err)
	}

	return toRecords(body.Values), nil
}

func toRecords(values [][]string) []Record {
	if len(values) < 2 {
		return []Record{}
	}

	headers := values[0]
	records := make([]Record, 0, len(values)-1)
	for _, row := range values[1:] {
		rec := make(Record, len(headers))
		for i, h := range headers {
			if i < len(row) {
				rec[h] = row[i]
			} else {
				rec[h] = ""
			}
		}
		records = append(records, rec)
	}
	return records
}
