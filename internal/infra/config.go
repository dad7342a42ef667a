package infra

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	PolicyFile  string

	TextAPIKey  string
	TextModel   string
	TextBaseURL string

	ImageAPIKey  string
	ImageModel   string
	ImageBaseURL string

	SpeechAPIKey  string
	SpeechModel   string
	SpeechBaseURL string
	SpeechVoice   string

	ProviderTimeout time.Duration

	RenderMode    string
	FFmpegPath    string
	RenderTimeout time.Duration
	WorkDir       string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
	AllowedOrigins   []string
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed. No variable is strictly required: with no provider
// keys set the service still runs end to end on the deterministic fallbacks,
// and with no DATABASE_URL or POLICY_FILE the built-in starter policies are
// served.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		PolicyFile:  os.Getenv("POLICY_FILE"),

		TextAPIKey:  os.Getenv("TEXT_API_KEY"),
		TextModel:   getEnv("TEXT_MODEL", "gpt-4o-mini"),
		TextBaseURL: getEnv("TEXT_BASE_URL", "https://api.openai.com/v1"),

		ImageAPIKey:  os.Getenv("IMAGE_API_KEY"),
		ImageModel:   getEnv("IMAGE_MODEL", "dall-e-3"),
		ImageBaseURL: getEnv("IMAGE_BASE_URL", "https://api.openai.com/v1"),

		SpeechAPIKey:  os.Getenv("SPEECH_API_KEY"),
		SpeechModel:   getEnv("SPEECH_MODEL", "tts-1"),
		SpeechBaseURL: getEnv("SPEECH_BASE_URL", "https://api.openai.com/v1"),
		SpeechVoice:   getEnv("SPEECH_VOICE", "alloy"),

		ProviderTimeout: time.Second * time.Duration(getEnvInt("PROVIDER_TIMEOUT_SECONDS", 45)),

		RenderMode:    getEnv("RENDER_MODE", "off"),
		FFmpegPath:    getEnv("FFMPEG_PATH", "ffmpeg"),
		RenderTimeout: time.Second * time.Duration(getEnvInt("RENDER_TIMEOUT_SECONDS", 600)),
		WorkDir:       getEnv("WORK_DIR", os.TempDir()),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 120)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 10),
		AllowedOrigins:   splitCSV(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
	}

	return cfg, nil
}

// RenderEnabled reports whether the compositor should be invoked at the end
// of the video pipeline.
func (c *Config) RenderEnabled() bool {
	return c.RenderMode == "ffmpeg"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
