package image

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"postforge/internal/stage"
)

func TestGenerateNoCredential(t *testing.T) {
	c := NewClient(Options{})
	res := c.Generate(context.Background(), "a calm lake", "9:16")
	if res.OK || res.Class != stage.ClassNoCredential {
		t.Fatalf("expected NO_CREDENTIAL, got %+v", res)
	}
}

func TestGenerateDecodesInlineImage(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G'}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload imageRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if payload.Size != "1024x1792" {
			t.Fatalf("9:16 must request portrait, got %s", payload.Size)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]string{{"b64_json": base64.StdEncoding.EncodeToString(png)}},
		})
	}))
	defer ts.Close()

	c := NewClient(Options{APIKey: "k", BaseURL: ts.URL})
	res := c.Generate(context.Background(), "a calm lake", "9:16")
	if !res.OK {
		t.Fatalf("Generate failed: %s %s", res.Class, res.Err)
	}
	if string(res.Payload.Data) != string(png) {
		t.Fatal("inline bytes not decoded")
	}
	if res.Payload.Prompt != "a calm lake" {
		t.Fatalf("prompt not carried: %q", res.Payload.Prompt)
	}
}

func TestGenerateLandscapeSize(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload imageRequest
		_ = json.NewDecoder(r.Body).Decode(&payload)
		if payload.Size != "1792x1024" {
			t.Fatalf("16:9 must request landscape, got %s", payload.Size)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]string{{"url": "https://cdn.example.com/x.png"}},
		})
	}))
	defer ts.Close()

	c := NewClient(Options{APIKey: "k", BaseURL: ts.URL})
	res := c.Generate(context.Background(), "p", "16:9")
	if !res.OK || res.Payload.URL == "" {
		t.Fatalf("expected url payload, got %+v", res)
	}
}

func TestGenerateEmptyDataIsNoImageData(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	}))
	defer ts.Close()

	c := NewClient(Options{APIKey: "k", BaseURL: ts.URL})
	res := c.Generate(context.Background(), "p", "9:16")
	if res.OK || res.Class != stage.ClassNoImageData {
		t.Fatalf("expected NO_IMAGE_DATA, got %+v", res)
	}
}

func TestGenerateRetriesOn429(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]string{{"url": "https://cdn.example.com/x.png"}},
		})
	}))
	defer ts.Close()

	c := NewClient(Options{APIKey: "k", BaseURL: ts.URL})
	res := c.Generate(context.Background(), "p", "9:16")
	if !res.OK {
		t.Fatalf("expected success after 429 retry, got %+v", res)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}
