package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"doctree/internal/doctype"
)

// Client talks to the Frappe style resource API that serves doctype
// metadata. It only reads: doctype listings and per-doctype field
// listings.
type Client struct {
	baseURL *url.URL
	token   string
	http    *http.Client
	limiter *rate.Limiter
	workers int
}

type Option func(*Client)

// WithHTTPClient replaces the default 30 second timeout client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithWorkers caps how many field listings are fetched concurrently.
func WithWorkers(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithRateLimit applies a global requests-per-second limit across all
// calls, zero disables it.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// NewClient constructs a client for the resource API root, for example
// "https://host/api/resource". A bare hostname gets https.
func NewClient(baseURL, token string, opts ...Option) (*Client, error) {
	raw := strings.TrimSpace(baseURL)
	if raw == "" {
		return nil, fmt.Errorf("metadata base URL is required")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse metadata base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("metadata base URL must include a host (got %q)", baseURL)
	}
	u.Path = strings.TrimRight(u.Path, "/")

	c := &Client{
		baseURL: u,
		token:   strings.TrimSpace(token),
		http:    &http.Client{Timeout: 30 * time.Second},
		workers: 4,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type doctypeRow struct {
	Name string `json:"name"`
}

// ListDoctypes returns the names of the module's doctypes in the
// order the API lists them. child selects the table doctypes instead
// of the top level ones.
func (c *Client) ListDoctypes(ctx context.Context, module string, child bool) ([]string, error) {
	istable := "!="
	if child {
		istable = "="
	}
	filters, err := json.Marshal([][]string{
		{"module", "=", module},
		{"istable", istable, "1"},
	})
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("filters", string(filters))

	var out struct {
		Data []doctypeRow `json:"data"`
	}
	if err := c.get(ctx, "listDoctypes", "DocType", q, &out); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(out.Data))
	for _, row := range out.Data {
		if row.Name != "" {
			names = append(names, row.Name)
		}
	}
	return names, nil
}

type fieldRow struct {
	Fieldname string `json:"fieldname"`
	Label     string `json:"label"`
	Fieldtype string `json:"fieldtype"`
	Options   string `json:"options"`
	Hidden    int    `json:"hidden"`
}

// FetchFields returns the visible fields of one doctype in declaration
// order. Layout-only rows (section, column and tab breaks) are
// filtered server side, hidden fields are dropped here.
func (c *Client) FetchFields(ctx context.Context, doctypeName string) ([]doctype.Field, error) {
	fields, err := json.Marshal([]string{"fieldname", "label", "fieldtype", "options", "hidden"})
	if err != nil {
		return nil, err
	}
	filters, err := json.Marshal([][]string{
		{"parent", "=", doctypeName},
		{"fieldtype", "!=", "Section Break"},
		{"fieldtype", "!=", "Column Break"},
		{"fieldtype", "!=", "Tab Break"},
	})
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("fields", string(fields))
	q.Set("filters", string(filters))
	// The DocField listing refuses requests without a parent doctype
	// even though the filters already pin one.
	q.Set("parent", "DocType")

	var out struct {
		Data []fieldRow `json:"data"`
	}
	if err := c.get(ctx, "fetchFields", "DocField", q, &out); err != nil {
		return nil, err
	}
	fs := make([]doctype.Field, 0, len(out.Data))
	for _, row := range out.Data {
		if row.Hidden != 0 {
			continue
		}
		fs = append(fs, doctype.Field{
			Fieldname: row.Fieldname,
			Label:     row.Label,
			Fieldtype: row.Fieldtype,
			Options:   row.Options,
		})
	}
	return fs, nil
}

// get runs one rate-limited GET against a resource and decodes the
// JSON body into out.
func (c *Client) get(ctx context.Context, op, resource string, query url.Values, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	u := c.baseURL.JoinPath(resource)
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	if c.token != "" {
		// The upstream expects the token verbatim, "token key:secret",
		// not a Bearer scheme.
		req.Header.Set("Authorization", c.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", op, err)
	}
	if resp.StatusCode/100 != 2 {
		return newHTTPError(op, u.String(), resp, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: parse response: %w", op, err)
	}
	return nil
}
