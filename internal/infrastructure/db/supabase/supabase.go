// Package supabase implements the credential store against the hosted
// Supabase PostgREST endpoint. Only the two query shapes the auth flows use
// are implemented: single-row equality lookup and single-row insert.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kafebilyar/api/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

// Config captures the settings required to reach the hosted project.
type Config struct {
	URL        string
	APIKey     string
	ServiceKey string // optional; used for data access when set (bypasses RLS)
	Timeout    time.Duration
}

// Client is a thin PostgREST client satisfying ports.CredentialStore.
type Client struct {
	baseURL string
	apiKey  string
	authKey string
	timeout time.Duration
	hc      *http.Client
}

// New validates the configuration and builds a client. No network call is
// made; use Ping to verify connectivity.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("supabase: URL is empty")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("supabase: API key is empty")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	authKey := cfg.ServiceKey
	if authKey == "" {
		authKey = cfg.APIKey
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		apiKey:  cfg.APIKey,
		authKey: authKey,
		timeout: timeout,
		hc:      &http.Client{Timeout: timeout},
	}, nil
}

// FindOne fetches the first row of table matching the equality filter and
// decodes it into dest. Returns ports.ErrNoRows when nothing matches.
func (c *Client) FindOne(ctx context.Context, table string, filter ports.Filter, dest any) error {
	q := url.Values{}
	q.Set(filter.Column, "eq."+filter.Value)
	q.Set("limit", "1")

	body, err := c.do(ctx, http.MethodGet, table, q, nil, nil)
	if err != nil {
		return err
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return fmt.Errorf("supabase: decode %s rows: %w", table, err)
	}
	if len(rows) == 0 {
		return ports.ErrNoRows
	}
	if err := json.Unmarshal(rows[0], dest); err != nil {
		return fmt.Errorf("supabase: decode %s row: %w", table, err)
	}
	return nil
}

// Insert creates a single row and decodes the stored representation
// (including server-generated columns) into dest.
func (c *Client) Insert(ctx context.Context, table string, row any, dest any) error {
	payload, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("supabase: encode %s row: %w", table, err)
	}

	headers := map[string]string{
		"Content-Type": "application/json",
		"Prefer":       "return=representation",
	}
	body, err := c.do(ctx, http.MethodPost, table, nil, bytes.NewReader(payload), headers)
	if err != nil {
		return err
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return fmt.Errorf("supabase: decode %s insert response: %w", table, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("supabase: insert into %s returned no representation", table)
	}
	if err := json.Unmarshal(rows[0], dest); err != nil {
		return fmt.Errorf("supabase: decode created %s row: %w", table, err)
	}
	return nil
}

// Ping verifies the REST endpoint answers with the configured keys.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/rest/v1/", nil)
	if err != nil {
		return fmt.Errorf("supabase ping: %w", err)
	}
	c.setAuth(req)

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("supabase ping: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("supabase ping: status %d", resp.StatusCode)
	}
	return nil
}

// do issues a request against /rest/v1/{table} with a request-scoped timeout
// and returns the response body. Non-2xx responses surface the body text.
func (c *Client) do(ctx context.Context, method, table string, query url.Values, body io.Reader, headers map[string]string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.baseURL + "/rest/v1/" + url.PathEscape(table)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("supabase: build request: %w", err)
	}
	c.setAuth(req)
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("supabase: %s %s: %w", method, table, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("supabase: read %s response: %w", table, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("supabase: %s %s: status %d: %s", method, table, resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return data, nil
}

func (c *Client) setAuth(req *http.Request) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.authKey)
}
