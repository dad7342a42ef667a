package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLocaleDetection(t *testing.T) {
	tests := []struct {
		name   string
		header map[string]string
		want   string
	}{
		{"x-locale wins", map[string]string{"X-Locale": "id-ID", "Accept-Language": "en-US"}, "id"},
		{"accept-language fallback", map[string]string{"Accept-Language": "id,en;q=0.8"}, "id"},
		{"unknown maps to en", map[string]string{"X-Locale": "fr"}, "en"},
		{"no headers use default", nil, "en"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got string
			handler := Locale("en")(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				got = LocaleFromContext(r.Context())
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tc.header {
				req.Header.Set(k, v)
			}
			handler.ServeHTTP(httptest.NewRecorder(), req)
			if got != tc.want {
				t.Fatalf("locale = %q, want %q", got, tc.want)
			}
		})
	}
}
