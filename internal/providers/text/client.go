// Package text wraps the chat-completion endpoint behind the uniform
// stage.Result contract. The adapter never panics or returns a bare error
// across its boundary; every outcome is classified.
package text

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"postforge/internal/stage"
)

const (
	defaultTimeout = 30 * time.Second
	defaultModel   = "gpt-4o-mini"
	defaultBaseURL = "https://api.openai.com/v1"
)

// Request is one chat-style completion call.
type Request struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
	// WantJSON asks the provider for machine-parseable structured output.
	// A response that is not valid JSON is classified PARSE_ERROR and is
	// never retried.
	WantJSON bool
}

type Options struct {
	APIKey     string
	Model      string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client is a stateless adapter over an OpenAI-compatible chat endpoint.
// Safe for concurrent use.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	timeout time.Duration
	client  *http.Client
}

func NewClient(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	return &Client{
		apiKey:  strings.TrimSpace(opts.APIKey),
		model:   model,
		baseURL: base,
		timeout: timeout,
		client:  client,
	}
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature,omitempty"`
	MaxTokens      int           `json:"max_tokens,omitempty"`
	ResponseFormat *chatFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete performs one completion call with a bounded timeout and a single
// retry on transient failures. The payload is the raw completion text; when
// WantJSON is set it is the extracted JSON fragment.
func (c *Client) Complete(ctx context.Context, req Request) stage.Result[string] {
	started := time.Now()
	if c.apiKey == "" {
		return stage.Failf[string](stage.ClassNoCredential, "text provider: no API key configured", time.Since(started))
	}

	payload := chatRequest{
		Model:       c.model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
	}
	if req.WantJSON {
		payload.ResponseFormat = &chatFormat{Type: "json_object"}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return stage.Fail[string](stage.ClassParseError, err, time.Since(started))
	}

	raw, class, err := c.doWithRetry(ctx, body)
	if err != nil {
		return stage.Fail[string](class, err, time.Since(started))
	}

	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return stage.Fail[string](stage.ClassParseError, err, time.Since(started))
	}
	if len(out.Choices) == 0 {
		return stage.Failf[string](stage.ClassNoContent, "text provider: empty choices", time.Since(started))
	}
	content := strings.TrimSpace(out.Choices[0].Message.Content)
	if content == "" {
		return stage.Failf[string](stage.ClassNoContent, "text provider: empty completion", time.Since(started))
	}
	if req.WantJSON {
		fragment := ExtractJSONFragment(content)
		if fragment == "" || !json.Valid([]byte(fragment)) {
			return stage.Failf[string](stage.ClassParseError, "text provider: response is not valid JSON", time.Since(started))
		}
		content = fragment
	}
	return stage.Succeed(content, time.Since(started))
}

// doWithRetry issues the request, retrying exactly once for network-level
// failures and for 429/5xx responses. Other 4xx are returned as-is.
func (c *Client) doWithRetry(ctx context.Context, body []byte) ([]byte, stage.Class, error) {
	endpoint := c.baseURL + "/chat/completions"
	var lastClass stage.Class
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		httpReq, err := http.NewRequestWithContext(callCtx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			cancel()
			return nil, stage.ClassNetworkError, err
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.client.Do(httpReq)
		if err != nil {
			cancel()
			lastClass = stage.ClassifyTransport(err)
			lastErr = err
			if lastClass == stage.ClassTimeout {
				return nil, lastClass, err
			}
			continue
		}
		raw, readErr := readBody(resp)
		cancel()
		if readErr != nil {
			lastClass = stage.ClassNetworkError
			lastErr = readErr
			continue
		}
		if resp.StatusCode >= 300 {
			lastClass = stage.ClassifyStatus(resp.StatusCode)
			lastErr = fmt.Errorf("text provider: http %d", resp.StatusCode)
			if !stage.RetryableStatus(resp.StatusCode) {
				return nil, lastClass, lastErr
			}
			continue
		}
		return raw, stage.ClassNone, nil
	}
	return nil, lastClass, lastErr
}

func readBody(resp *http.Response) ([]byte, error) {
	defer func() {
		_ = resp.Body.Close()
	}()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExtractJSONFragment trims code fences and surrounding prose so that a
// chatty model response can still be decoded.
func ExtractJSONFragment(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	text = trimCodeFence(text)
	start := strings.IndexAny(text, "{[")
	end := strings.LastIndexAny(text, "]}")
	if start >= 0 && end >= start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
