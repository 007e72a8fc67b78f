package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ShinaSIT/Helix-Telebot/internal/config"
	"github.com/ShinaSIT/Helix-Telebot/internal/domain"
	"github.com/valyala/fasthttp"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const baseURL = "https://sheets.googleapis.com/v4/spreadsheets"

const spreadsheetScope = "https://www.googleapis.com/auth/spreadsheets"

// Client talks to the Google Sheets API for one spreadsheet. It is the only
// component that performs remote I/O; everything above it works on cached
// snapshots.
type Client struct {
	spreadsheetID string
	tokens        oauth2.TokenSource
	client        *fasthttp.Client

	usageMu sync.RWMutex
	usage   UsageInfo
}

// UsageInfo tracks request volume against the API quota, for the cache
// stats view.
type UsageInfo struct {
	Reads         int64     `json:"reads"`
	Writes        int64     `json:"writes"`
	LastRequestAt time.Time `json:"last_request_at"`
}

func NewClient(cfg *config.Config) (*Client, error) {
	if cfg.ServiceAccountJSON == "" {
		return nil, fmt.Errorf("GOOGLE_SERVICE_ACCOUNT_JSON is required")
	}

	jwtCfg, err := google.JWTConfigFromJSON([]byte(cfg.ServiceAccountJSON), spreadsheetScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}

	return &Client{
		spreadsheetID: cfg.SpreadsheetID,
		tokens:        jwtCfg.TokenSource(context.Background()),
		client: &fasthttp.Client{
			MaxConnsPerHost:     10,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}, nil
}

// Usage returns a point-in-time copy of the request counters.
func (c *Client) Usage() UsageInfo {
	c.usageMu.RLock()
	defer c.usageMu.RUnlock()
	return c.usage
}

func (c *Client) recordRequest(write bool) {
	c.usageMu.Lock()
	defer c.usageMu.Unlock()
	if write {
		c.usage.Writes++
	} else {
		c.usage.Reads++
	}
	c.usage.LastRequestAt = time.Now()
}

// ReadTable fetches a full worksheet. The first row becomes the header set;
// short data rows are padded so every Row carries every header.
func (c *Client) ReadTable(ctx context.Context, name string) (domain.Table, error) {
	u := fmt.Sprintf("%s/%s/values/%s", baseURL, c.spreadsheetID, url.PathEscape(quoteSheet(name)))

	var resp valueRange
	if err := c.doJSON(ctx, fasthttp.MethodGet, u, nil, &resp); err != nil {
		return domain.Table{}, fmt.Errorf("read %q: %w", name, err)
	}

	return tableFromValues(name, resp.Values), nil
}

// WriteCell sets a single cell, addressed by 1-based sheet row and column.
func (c *Client) WriteCell(ctx context.Context, table string, rowIndex, colIndex int, value string) error {
	cell := fmt.Sprintf("%s!%s%d", quoteSheet(table), columnLetter(colIndex), rowIndex)
	u := fmt.Sprintf("%s/%s/values/%s?valueInputOption=RAW", baseURL, c.spreadsheetID, url.PathEscape(cell))

	body, err := json.Marshal(valueRange{Values: [][]string{{value}}})
	if err != nil {
		return err
	}

	if err := c.doJSON(ctx, fasthttp.MethodPut, u, body, nil); err != nil {
		return fmt.Errorf("write %s: %w", cell, err)
	}
	return nil
}

// Worksheets lists the spreadsheet's worksheet titles, for connection tests.
func (c *Client) Worksheets(ctx context.Context) ([]string, error) {
	u := fmt.Sprintf("%s/%s?fields=sheets.properties.title", baseURL, c.spreadsheetID)

	var resp struct {
		Sheets []struct {
			Properties struct {
				Title string `json:"title"`
			} `json:"properties"`
		} `json:"sheets"`
	}
	if err := c.doJSON(ctx, fasthttp.MethodGet, u, nil, &resp); err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(resp.Sheets))
	for _, s := range resp.Sheets {
		titles = append(titles, s.Properties.Title)
	}
	return titles, nil
}

type valueRange struct {
	Range  string     `json:"range,omitempty"`
	Values [][]string `json:"values"`
}

func (c *Client) doJSON(ctx context.Context, method, u string, body []byte, out any) error {
	token, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("failed to obtain access token: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(u)
	req.Header.SetMethod(method)
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	if body != nil {
		req.Header.SetContentType("application/json")
		req.SetBody(body)
	}

	deadline, ok := ctx.Deadline()
	if ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.Do(req, resp)
	}
	if err != nil {
		return err
	}

	c.recordRequest(method != fasthttp.MethodGet)

	if resp.StatusCode() != fasthttp.StatusOK {
		return fmt.Errorf("sheets API error: %d", resp.StatusCode())
	}

	if out != nil {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return err
		}
	}
	return nil
}

// tableFromValues shapes a raw value grid into a Table. Cell text is trimmed
// here so the engine never sees stray whitespace.
func tableFromValues(name string, values [][]string) domain.Table {
	t := domain.Table{Name: name}
	if len(values) == 0 {
		return t
	}

	t.Headers = make([]string, len(values[0]))
	for i, h := range values[0] {
		t.Headers[i] = strings.TrimSpace(h)
	}

	t.Rows = make([]domain.Row, 0, len(values)-1)
	for _, line := range values[1:] {
		row := make(domain.Row, len(t.Headers))
		for i, h := range t.Headers {
			if i < len(line) {
				row[h] = strings.TrimSpace(line[i])
			} else {
				row[h] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// quoteSheet wraps a worksheet title for use in an A1 range. Titles with
// spaces or punctuation need single quotes, embedded quotes are doubled.
func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// columnLetter converts a 1-based column index to A1 letters.
func columnLetter(col int) string {
	var s string
	for col > 0 {
		col--
		s = string(rune('A'+col%26)) + s
		col /= 26
	}
	return s
}
