package dataset

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// remoteEntry is the wire shape of one GitHub contents API listing entry.
// It only lives for the duration of a single listing call.
type remoteEntry struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Size        int64  `json:"size"`
	Type        string `json:"type"`
	DownloadURL string `json:"download_url"`
}

// contentResponse is the wire shape of a single-file contents response.
type contentResponse struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// Client reads listings and file contents from the upstream contents API.
// Every environmental failure (network, status, shape, decoding) degrades to
// the built-in sample data; the only error a Client ever returns is an
// unknown category.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	now        func() time.Time
}

var _ Store = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithClock overrides the clock used for synthesized timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a dataset client. The token may be empty; it only raises the
// upstream anonymous rate limit when present.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:      strings.TrimSpace(token),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "BiasLens/1.0")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return c.httpClient.Do(req)
}

// ListCategory fetches the file listing for one category. It never returns an
// empty listing for a known category: a single attempt is made against the
// remote API, and any failure yields the category's fallback list tagged
// SourceFallback. Listing calls for different categories are independent and
// safe to issue concurrently.
func (c *Client) ListCategory(ctx context.Context, cat Category) (Listing, error) {
	sub, ok := cat.remotePath()
	if !ok {
		return Listing{}, fmt.Errorf("unknown category %q", cat)
	}

	resp, err := c.get(ctx, c.baseURL+"/"+sub)
	if err != nil {
		return fallbackListing(cat, fmt.Sprintf("request failed: %v", err)), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fallbackListing(cat, fmt.Sprintf("upstream returned %d", resp.StatusCode)), nil
	}

	var entries []remoteEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return fallbackListing(cat, "unexpected response shape"), nil
	}
	if len(entries) == 0 {
		return fallbackListing(cat, "empty listing"), nil
	}

	// The contents API reports no modification times, so live entries carry
	// the fetch time instead.
	modified := c.now().UTC().Format(time.RFC3339)

	var files []File
	for _, e := range entries {
		if e.Type != "file" || e.Name == "" || e.Path == "" {
			continue
		}
		if !cat.accepts(e.Name) {
			continue
		}
		files = append(files, File{
			Name:         e.Name,
			Path:         e.Path,
			Size:         e.Size,
			LastModified: modified,
		})
	}
	if len(files) == 0 {
		return fallbackListing(cat, "no usable files in listing"), nil
	}

	return Listing{Category: cat, Label: cat.Label(), Files: files, Source: SourceLive}, nil
}

// FetchContent retrieves and decodes the file at path. It always returns a
// document with non-empty text: when the remote call fails, or the response
// carries no decodable body, the text is synthesized from the path-keyed
// sample rules instead.
func (c *Client) FetchContent(ctx context.Context, filePath string) Document {
	resp, err := c.get(ctx, c.baseURL+"/"+strings.TrimLeft(filePath, "/"))
	if err != nil {
		return fallbackDocument(filePath, fmt.Sprintf("request failed: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fallbackDocument(filePath, fmt.Sprintf("upstream returned %d", resp.StatusCode))
	}

	var payload contentResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fallbackDocument(filePath, "unexpected response shape")
	}
	if payload.Content == "" {
		return fallbackDocument(filePath, "response carried no content")
	}

	// The contents API wraps base64 bodies at 60 columns; strip the embedded
	// whitespace before decoding.
	encoded := strings.Map(dropSpace, payload.Content)
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return fallbackDocument(filePath, "content is not valid base64")
	}
	if len(raw) == 0 {
		return fallbackDocument(filePath, "decoded content is empty")
	}

	return Document{Path: filePath, Text: string(raw), Source: SourceLive}
}

func dropSpace(r rune) rune {
	switch r {
	case ' ', '\t', '\n', '\r':
		return -1
	}
	return r
}
