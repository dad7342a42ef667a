package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"postforge/internal/admission"
	"postforge/internal/compositor"
	"postforge/internal/domain"
	"postforge/internal/http/handlers"
	httpapi "postforge/internal/http/httpapi"
	"postforge/internal/infra"
	"postforge/internal/pipeline"
	"postforge/internal/policygate"
	"postforge/internal/policystore"
	"postforge/internal/providers/image"
	"postforge/internal/providers/speech"
	"postforge/internal/providers/text"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()

	app := &handlers.App{
		RenderEnabled: cfg.RenderEnabled(),
		Logger:        logger,
	}

	// Policy source: Postgres when configured, then a YAML file, then the
	// built-in starter set.
	switch {
	case cfg.DatabaseURL != "":
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer pool.Close()
		app.Pool = pool
		app.Policies = policystore.NewPostgres(pool)
		logger.Info().Msg("policies served from postgres")
	case cfg.PolicyFile != "":
		store, err := policystore.LoadFile(cfg.PolicyFile)
		if err != nil {
			logger.Fatal().Err(err).Str("path", cfg.PolicyFile).Msg("failed to load policy file")
		}
		app.Policies = store
		logger.Info().Str("path", cfg.PolicyFile).Msg("policies served from file")
	default:
		app.Policies = policystore.NewStatic(starterPolicies()...)
		logger.Warn().Msg("no DATABASE_URL or POLICY_FILE set, serving built-in starter policies")
	}

	textProvider := text.NewClient(text.Options{
		APIKey:  cfg.TextAPIKey,
		Model:   cfg.TextModel,
		BaseURL: cfg.TextBaseURL,
		Timeout: cfg.ProviderTimeout,
	})
	imageProvider := image.NewClient(image.Options{
		APIKey:  cfg.ImageAPIKey,
		Model:   cfg.ImageModel,
		BaseURL: cfg.ImageBaseURL,
		Timeout: cfg.ProviderTimeout,
	})
	speechProvider := speech.NewClient(speech.Options{
		APIKey:  cfg.SpeechAPIKey,
		Model:   cfg.SpeechModel,
		BaseURL: cfg.SpeechBaseURL,
		Voice:   cfg.SpeechVoice,
		Timeout: cfg.ProviderTimeout,
	})

	gate := policygate.New(policygate.NewTextChecker(textProvider), logger)

	var renderer pipeline.Renderer
	renderEnabled := cfg.RenderEnabled()
	if renderEnabled {
		comp := compositor.New(compositor.Options{
			BinaryPath:    cfg.FFmpegPath,
			RenderTimeout: cfg.RenderTimeout,
			Logger:        logger,
		})
		if err := comp.Probe(ctx); err != nil {
			logger.Warn().Err(err).Msg("encoder probe failed, falling back to parts-only video runs")
			renderEnabled = false
		}
		renderer = comp
	}

	orch := pipeline.New(pipeline.Options{
		Policies:      app.Policies,
		Text:          textProvider,
		Image:         imageProvider,
		Speech:        speechProvider,
		Gate:          gate,
		Renderer:      renderer,
		RenderEnabled: renderEnabled,
		WorkRoot:      cfg.WorkDir,
		Logger:        logger,
	})
	app.Pipeline = orch

	limiter := admission.NewSlidingWindow(cfg.RateLimitPerMin, time.Minute)
	router := httpapi.NewRouter(app, cfg, limiter)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

// starterPolicies is the zero-configuration policy set. It lets a fresh
// checkout produce content end to end before any onboarding exists.
func starterPolicies() []domain.StylePolicy {
	return []domain.StylePolicy{
		{
			OwnerID: "demo",
			Tone:    "friendly",
			StyleGuide: domain.StyleGuide{
				WritingStyle:     "short sentences, plain language",
				Do:               []string{"cite everyday examples", "end with one actionable tip"},
				Dont:             []string{"promise outcomes", "use medical jargon"},
				CallToAction:     "Save this for later.",
				DisclaimerPolicy: domain.DisclaimerAlways,
				VisualStyle:      "soft natural light, warm tones",
			},
			Guardrails: domain.Guardrails{
				ForbiddenPhrases: []string{"cure", "guaranteed"},
				LanguageLevel:    "general audience",
			},
			Topics: []string{"sleep", "hydration", "movement", "nutrition"},
		},
	}
}
