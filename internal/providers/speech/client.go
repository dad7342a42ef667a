// Package speech wraps the text-to-speech endpoint behind the uniform
// stage.Result contract.
package speech

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
	defaultTimeout = 45 * time.Second
	defaultModel   = "tts-1"
	defaultBaseURL = "https://api.openai.com/v1"

	// DefaultVoice is used whenever a request leaves the voice unset.
	DefaultVoice = "alloy"
)

// Asset is one synthesized narration track.
type Asset struct {
	Data  []byte `json:"-"`
	MIME  string `json:"mime,omitempty"`
	Voice string `json:"voice,omitempty"`
}

type Options struct {
	APIKey  string
	Model   string
	BaseURL string
	// Voice is the configured default voice, used when a request leaves the
	// voice unset. Empty falls back to DefaultVoice.
	Voice      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client is a stateless adapter over an OpenAI-compatible speech endpoint.
// Safe for concurrent use.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	voice   string
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
	voice := strings.TrimSpace(opts.Voice)
	if voice == "" {
		voice = DefaultVoice
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
		voice:   voice,
		timeout: timeout,
		client:  client,
	}
}

type speechRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
	Voice string `json:"voice"`
}

// Synthesize turns text into an audio track. The response body is the raw
// encoded audio. One internal retry on transient failures.
func (c *Client) Synthesize(ctx context.Context, input, voiceID string) stage.Result[Asset] {
	started := time.Now()
	if c.apiKey == "" {
		return stage.Failf[Asset](stage.ClassNoCredential, "speech provider: no API key configured", time.Since(started))
	}
	voice := strings.TrimSpace(voiceID)
	if voice == "" {
		voice = c.voice
	}

	body, err := json.Marshal(speechRequest{Model: c.model, Input: input, Voice: voice})
	if err != nil {
		return stage.Fail[Asset](stage.ClassParseError, err, time.Since(started))
	}

	data, class, err := c.doWithRetry(ctx, body)
	if err != nil {
		return stage.Fail[Asset](class, err, time.Since(started))
	}
	if len(data) == 0 {
		return stage.Failf[Asset](stage.ClassNoContent, "speech provider: empty audio payload", time.Since(started))
	}
	return stage.Succeed(Asset{Data: data, MIME: "audio/mpeg", Voice: voice}, time.Since(started))
}

func (c *Client) doWithRetry(ctx context.Context, body []byte) ([]byte, stage.Class, error) {
	endpoint := c.baseURL + "/audio/speech"
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
		var buf bytes.Buffer
		_, readErr := buf.ReadFrom(resp.Body)
		_ = resp.Body.Close()
		cancel()
		if readErr != nil {
			lastClass = stage.ClassNetworkError
			lastErr = readErr
			continue
		}
		if resp.StatusCode >= 300 {
			lastClass = stage.ClassifyStatus(resp.StatusCode)
			lastErr = fmt.Errorf("speech provider: http %d", resp.StatusCode)
			if !stage.RetryableStatus(resp.StatusCode) {
				return nil, lastClass, lastErr
			}
			continue
		}
		return buf.Bytes(), stage.ClassNone, nil
	}
	return nil, lastClass, lastErr
}
