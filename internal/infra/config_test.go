package infra

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("RENDER_MODE", "")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.RenderEnabled() {
		t.Fatal("rendering must default to off")
	}
	if cfg.RateLimitPerMin != 10 {
		t.Fatalf("RateLimitPerMin = %d, want 10", cfg.RateLimitPerMin)
	}
	if cfg.ProviderTimeout != 45*time.Second {
		t.Fatalf("ProviderTimeout = %s", cfg.ProviderTimeout)
	}
}

func TestLoadConfigRenderMode(t *testing.T) {
	t.Setenv("RENDER_MODE", "ffmpeg")
	t.Setenv("FFMPEG_PATH", "/usr/local/bin/ffmpeg")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if !cfg.RenderEnabled() {
		t.Fatal("RENDER_MODE=ffmpeg must enable rendering")
	}
	if cfg.FFmpegPath != "/usr/local/bin/ffmpeg" {
		t.Fatalf("FFmpegPath = %q", cfg.FFmpegPath)
	}
}

func TestLoadConfigAllowedOrigins(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", " https://studio.example.com ,https://admin.example.com,")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	want := []string{"https://studio.example.com", "https://admin.example.com"}
	if len(cfg.AllowedOrigins) != len(want) {
		t.Fatalf("AllowedOrigins = %#v", cfg.AllowedOrigins)
	}
	for i := range want {
		if cfg.AllowedOrigins[i] != want[i] {
			t.Fatalf("AllowedOrigins[%d] = %q, want %q", i, cfg.AllowedOrigins[i], want[i])
		}
	}
}

func TestLoadConfigBadIntFallsBack(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_MINUTE", "not-a-number")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.RateLimitPerMin != 10 {
		t.Fatalf("RateLimitPerMin = %d, want fallback 10", cfg.RateLimitPerMin)
	}
}
