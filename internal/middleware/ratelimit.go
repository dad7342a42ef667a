package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"postforge/internal/admission"
	"postforge/internal/stage"
)

// RateLimit gates requests per client IP through the admission controller.
// Rejected requests get a 429 with the time the window frees up.
func RateLimit(ctrl admission.Controller) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := ctrl.Allow(clientIPForRateLimit(r))
			if !decision.Allowed {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"error":    string(stage.ClassRateLimited),
					"message":  "rate limit exceeded",
					"reset_at": decision.ResetAt.Format(time.RFC3339),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIPForRateLimit(r *http.Request) string {
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		for _, part := range strings.Split(xf, ",") {
			ip := strings.TrimSpace(part)
			if ip == "" {
				continue
			}
			if net.ParseIP(ip) != nil {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		if net.ParseIP(host) != nil {
			return host
		}
	} else if net.ParseIP(r.RemoteAddr) != nil {
		return r.RemoteAddr
	}

	return r.RemoteAddr
}
