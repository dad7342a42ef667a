package text

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"postforge/internal/stage"
)

func chatReply(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()
	resp := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		t.Fatalf("encode reply: %v", err)
	}
}

func TestCompleteNoCredential(t *testing.T) {
	c := NewClient(Options{})
	res := c.Complete(context.Background(), Request{System: "s", User: "u"})
	if res.OK {
		t.Fatal("expected failure")
	}
	if res.Class != stage.ClassNoCredential {
		t.Fatalf("class = %s, want NO_CREDENTIAL", res.Class)
	}
}

func TestCompleteSuccess(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Fatalf("unexpected auth header: %s", got)
		}
		var payload chatRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(payload.Messages) != 2 || payload.Messages[0].Role != "system" {
			t.Fatalf("unexpected messages: %+v", payload.Messages)
		}
		chatReply(t, w, "a fine answer")
	}))
	defer ts.Close()

	c := NewClient(Options{APIKey: "test-key", BaseURL: ts.URL})
	res := c.Complete(context.Background(), Request{System: "sys", User: "usr"})
	if !res.OK {
		t.Fatalf("Complete failed: %s %s", res.Class, res.Err)
	}
	if res.Payload != "a fine answer" {
		t.Fatalf("payload = %q", res.Payload)
	}
}

func TestCompleteRetriesOn500(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		chatReply(t, w, "recovered")
	}))
	defer ts.Close()

	c := NewClient(Options{APIKey: "k", BaseURL: ts.URL})
	res := c.Complete(context.Background(), Request{System: "s", User: "u"})
	if !res.OK || res.Payload != "recovered" {
		t.Fatalf("expected success after one retry, got %+v", res)
	}
	if calls != 2 {
		t.Fatalf("expected exactly 2 calls, got %d", calls)
	}
}

func TestCompleteNoRetryOn400(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer ts.Close()

	c := NewClient(Options{APIKey: "k", BaseURL: ts.URL})
	res := c.Complete(context.Background(), Request{System: "s", User: "u"})
	if res.OK || res.Class != stage.ClassHTTP4XX {
		t.Fatalf("expected HTTP_4XX, got %+v", res)
	}
	if calls != 1 {
		t.Fatalf("4xx must not be retried, got %d calls", calls)
	}
}

func TestCompleteTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server notices the client disconnect and
		// cancels the request context; otherwise this handler never
		// returns and Close deadlocks.
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer ts.Close()

	c := NewClient(Options{APIKey: "k", BaseURL: ts.URL, Timeout: 50 * time.Millisecond})
	res := c.Complete(context.Background(), Request{System: "s", User: "u"})
	if res.OK || res.Class != stage.ClassTimeout {
		t.Fatalf("expected TIMEOUT, got %+v", res)
	}
}

func TestCompleteWantJSONParseError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		chatReply(t, w, "this is prose, not json")
	}))
	defer ts.Close()

	c := NewClient(Options{APIKey: "k", BaseURL: ts.URL})
	res := c.Complete(context.Background(), Request{System: "s", User: "u", WantJSON: true})
	if res.OK || res.Class != stage.ClassParseError {
		t.Fatalf("expected PARSE_ERROR, got %+v", res)
	}
}

func TestCompleteWantJSONStripsFence(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		chatReply(t, w, "```json\n{\"hook\":\"h\"}\n```")
	}))
	defer ts.Close()

	c := NewClient(Options{APIKey: "k", BaseURL: ts.URL})
	res := c.Complete(context.Background(), Request{System: "s", User: "u", WantJSON: true})
	if !res.OK {
		t.Fatalf("fenced JSON must decode: %+v", res)
	}
	if res.Payload != `{"hook":"h"}` {
		t.Fatalf("payload = %q", res.Payload)
	}
}

func TestMockContentDeterministic(t *testing.T) {
	a := MockContent("diabetes awareness", "friendly")
	b := MockContent("diabetes awareness", "friendly")
	if a.Hook != b.Hook || a.Body != b.Body {
		t.Fatal("mock content must be deterministic")
	}
	if a.Hook == "" || len(a.Bullets) != 3 || len(a.Narration) == 0 {
		t.Fatalf("mock content incomplete: %+v", a)
	}
}
