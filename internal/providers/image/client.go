// Package image wraps the image-synthesis endpoint behind the uniform
// stage.Result contract.
package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"postforge/internal/stage"
)

const (
	defaultTimeout = 45 * time.Second
	defaultModel   = "dall-e-3"
	defaultBaseURL = "https://api.openai.com/v1"
)

// Asset is one synthesized image, as a remote URL, inline bytes, or both.
type Asset struct {
	URL    string `json:"url,omitempty"`
	Data   []byte `json:"-"`
	MIME   string `json:"mime,omitempty"`
	Prompt string `json:"prompt,omitempty"`
}

type Options struct {
	APIKey     string
	Model      string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client is a stateless adapter over an OpenAI-compatible image endpoint.
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

type imageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	ResponseFormat string `json:"response_format"`
}

type imageResponse struct {
	Data []struct {
		URL     string `json:"url"`
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

// Generate synthesizes one image for the prompt at the given aspect
// ("9:16" or "16:9"). One internal retry on transient failures.
func (c *Client) Generate(ctx context.Context, prompt, aspect string) stage.Result[Asset] {
	started := time.Now()
	if c.apiKey == "" {
		return stage.Failf[Asset](stage.ClassNoCredential, "image provider: no API key configured", time.Since(started))
	}

	payload := imageRequest{
		Model:          c.model,
		Prompt:         prompt,
		N:              1,
		Size:           sizeForAspect(aspect),
		ResponseFormat: "b64_json",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return stage.Fail[Asset](stage.ClassParseError, err, time.Since(started))
	}

	raw, class, err := c.doWithRetry(ctx, body)
	if err != nil {
		return stage.Fail[Asset](class, err, time.Since(started))
	}

	var out imageResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return stage.Fail[Asset](stage.ClassParseError, err, time.Since(started))
	}
	if len(out.Data) == 0 {
		return stage.Failf[Asset](stage.ClassNoImageData, "image provider: response carried no image", time.Since(started))
	}
	asset := Asset{URL: out.Data[0].URL, MIME: "image/png", Prompt: prompt}
	if b64 := strings.TrimSpace(out.Data[0].B64JSON); b64 != "" {
		data, err := base64.StdEncoding.DecodeString(b64)
		if err != nil {
			return stage.Fail[Asset](stage.ClassNoImageData, fmt.Errorf("image provider: decode b64 payload: %w", err), time.Since(started))
		}
		asset.Data = data
	}
	if asset.URL == "" && len(asset.Data) == 0 {
		return stage.Failf[Asset](stage.ClassNoImageData, "image provider: response carried no image", time.Since(started))
	}
	return stage.Succeed(asset, time.Since(started))
}

func (c *Client) doWithRetry(ctx context.Context, body []byte) ([]byte, stage.Class, error) {
	endpoint := c.baseURL + "/images/generations"
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
			lastErr = fmt.Errorf("image provider: http %d", resp.StatusCode)
			if !stage.RetryableStatus(resp.StatusCode) {
				return nil, lastClass, lastErr
			}
			continue
		}
		return buf.Bytes(), stage.ClassNone, nil
	}
	return nil, lastClass, lastErr
}

func sizeForAspect(aspect string) string {
	if aspect == "16:9" {
		return "1792x1024"
	}
	return "1024x1792"
}
