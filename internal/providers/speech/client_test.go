package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"postforge/internal/stage"
)

func TestSynthesizeNoCredential(t *testing.T) {
	c := NewClient(Options{})
	res := c.Synthesize(context.Background(), "hello", "")
	if res.OK || res.Class != stage.ClassNoCredential {
		t.Fatalf("expected NO_CREDENTIAL, got %+v", res)
	}
}

func TestSynthesizeDefaultVoice(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload speechRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if payload.Voice != DefaultVoice {
			t.Fatalf("unset voice must default, got %q", payload.Voice)
		}
		_, _ = w.Write([]byte("mp3-bytes"))
	}))
	defer ts.Close()

	c := NewClient(Options{APIKey: "k", BaseURL: ts.URL})
	res := c.Synthesize(context.Background(), "hello world", "")
	if !res.OK {
		t.Fatalf("Synthesize failed: %s %s", res.Class, res.Err)
	}
	if string(res.Payload.Data) != "mp3-bytes" {
		t.Fatal("audio bytes not carried through")
	}
	if res.Payload.Voice != DefaultVoice {
		t.Fatalf("voice = %q", res.Payload.Voice)
	}
}

func TestSynthesizeConfiguredVoice(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload speechRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if payload.Voice != "nova" {
			t.Fatalf("configured voice must apply when the request leaves it unset, got %q", payload.Voice)
		}
		_, _ = w.Write([]byte("mp3-bytes"))
	}))
	defer ts.Close()

	c := NewClient(Options{APIKey: "k", BaseURL: ts.URL, Voice: "nova"})
	res := c.Synthesize(context.Background(), "hello", "")
	if !res.OK {
		t.Fatalf("Synthesize failed: %s %s", res.Class, res.Err)
	}
	if res.Payload.Voice != "nova" {
		t.Fatalf("voice = %q", res.Payload.Voice)
	}
}

func TestSynthesizeRequestVoiceWinsOverConfigured(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload speechRequest
		_ = json.NewDecoder(r.Body).Decode(&payload)
		if payload.Voice != "echo" {
			t.Fatalf("per-request voice must win, got %q", payload.Voice)
		}
		_, _ = w.Write([]byte("mp3-bytes"))
	}))
	defer ts.Close()

	c := NewClient(Options{APIKey: "k", BaseURL: ts.URL, Voice: "nova"})
	res := c.Synthesize(context.Background(), "hello", "echo")
	if !res.OK {
		t.Fatalf("Synthesize failed: %s %s", res.Class, res.Err)
	}
}

func TestSynthesizeEmptyBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	defer ts.Close()

	c := NewClient(Options{APIKey: "k", BaseURL: ts.URL})
	res := c.Synthesize(context.Background(), "hello", "nova")
	if res.OK || res.Class != stage.ClassNoContent {
		t.Fatalf("expected NO_CONTENT, got %+v", res)
	}
}

func TestMockAssetIsValidWAV(t *testing.T) {
	a := MockAsset(2.5)
	if !bytes.HasPrefix(a.Data, []byte("RIFF")) || !bytes.Equal(a.Data[8:12], []byte("WAVE")) {
		t.Fatal("mock track must be a WAV container")
	}
	// 2.5s at 8kHz mono 16-bit plus the 44-byte header.
	if len(a.Data) != 44+2*int(2.5*8000) {
		t.Fatalf("unexpected length %d", len(a.Data))
	}
	if a.MIME != "audio/wav" {
		t.Fatalf("mime = %q", a.MIME)
	}
}
