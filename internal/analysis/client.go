// Package analysis proxies text to the external bias analyzer. The analyzer
// is an opaque collaborator: this client wraps the submitted text in a fixed
// prompt, forwards it to an OpenAI-style chat endpoint, and returns the reply
// untouched.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 60 * time.Second

const analyzePrompt = `You are a film-studies assistant analyzing Bollywood material
for gender representation. For the text below, report per character: name,
inferred gender, whether they are introduced by profession or by relation,
appearance-focused description counts, and agency indicators (decisions made,
actions initiated). Answer as a JSON object with a "characters" array and an
"overall" summary.`

const rewritePrompt = `You are a script doctor. Rewrite the text below to remove
gender-stereotyped framing while preserving plot, tone, and character names.
Introduce characters by what they do rather than whom they belong to. Answer
as a JSON object with a "rewritten" field and a "changes" array describing
each edit.`

// Client talks to the analyzer endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New constructs an analyzer client. baseURL must be the full chat-completions
// endpoint URL.
func New(baseURL, apiKey, model string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("analyzer url required")
	}
	c := &Client{
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(apiKey),
		model:      strings.TrimSpace(model),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model,omitempty"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format,omitempty"`
}

// Analyze submits text for a bias report and returns the analyzer's reply
// verbatim.
func (c *Client) Analyze(ctx context.Context, text string) (json.RawMessage, error) {
	return c.complete(ctx, analyzePrompt, text)
}

// Rewrite submits text for a bias-neutral rewrite and returns the analyzer's
// reply verbatim.
func (c *Client) Rewrite(ctx context.Context, text string) (json.RawMessage, error) {
	return c.complete(ctx, rewritePrompt, text)
}

func (c *Client) complete(ctx context.Context, system, text string) (json.RawMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("text must not be empty")
	}

	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: text},
		},
		ResponseFormat: &struct {
			Type string `json:"type"`
		}{Type: "json_object"},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("analyzer returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	// Unwrap the first choice when the endpoint speaks the chat-completions
	// shape; otherwise forward the body as-is.
	var chat struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &chat); err == nil && len(chat.Choices) > 0 {
		return json.RawMessage(chat.Choices[0].Message.Content), nil
	}
	return json.RawMessage(raw), nil
}
