// Package pipeline sequences the provider adapters, policy gate, scene
// planner and compositor into the two content pipelines ("image post" and
// "video post"). The orchestrator never raises past its own boundary: every
// run returns a Result, fatal or not.
package pipeline

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"postforge/internal/compositor"
	"postforge/internal/domain"
	"postforge/internal/policygate"
	"postforge/internal/policystore"
	"postforge/internal/providers/image"
	"postforge/internal/providers/speech"
	"postforge/internal/providers/text"
	"postforge/internal/stage"
)

// Step names surfaced in per-stage error entries.
const (
	StepPolicy   = "Policy fetch"
	StepText     = "Text generation"
	StepScreen   = "Safety screen"
	StepImage    = "Image generation"
	StepScenes   = "Scene planning"
	StepAudio    = "Audio generation"
	StepTimeline = "Timeline"
	StepRender   = "Render"
)

// TextProvider, ImageProvider and SpeechProvider are the adapter contracts
// the orchestrator consumes. All are stateless and safe to call
// concurrently.
type TextProvider interface {
	Complete(ctx context.Context, req text.Request) stage.Result[string]
}

type ImageProvider interface {
	Generate(ctx context.Context, prompt, aspect string) stage.Result[image.Asset]
}

type SpeechProvider interface {
	Synthesize(ctx context.Context, input, voiceID string) stage.Result[speech.Asset]
}

// Renderer is the compositor contract.
type Renderer interface {
	Compose(ctx context.Context, job compositor.RenderJob) stage.Result[compositor.VideoAsset]
}

// Request is what the caller supplies for one run. The caller owns all
// persistence of the returned asset.
type Request struct {
	OwnerID        string `json:"owner_id"`
	Topic          string `json:"topic"`
	Notes          string `json:"notes,omitempty"`
	Aspect         string `json:"aspect,omitempty"`
	WantDisclaimer bool   `json:"want_disclaimer,omitempty"`
	VoiceID        string `json:"voice_id,omitempty"`
	EnhancedPrompt string `json:"enhanced_prompt,omitempty"`
	StyleRequest   string `json:"style_request,omitempty"`
}

// StepError is one individually inspectable degradation entry.
type StepError struct {
	Step    string `json:"step"`
	Message string `json:"message"`
}

// ImageArtifact is a generated image as the caller sees it. URL is nil when
// generation failed and the placeholder path was taken.
type ImageArtifact struct {
	URL    *string `json:"url"`
	Prompt string  `json:"prompt,omitempty"`
	MIME   string  `json:"mime,omitempty"`
	Data   []byte  `json:"-"`
}

// AudioArtifact is a synthesized narration track. Data stays in memory for
// the caller to persist.
type AudioArtifact struct {
	MIME  string `json:"mime"`
	Voice string `json:"voice"`
	Bytes int    `json:"bytes"`
	Data  []byte `json:"-"`
}

// Asset is the narrow union of pipeline outputs.
type Asset struct {
	Kind        string                 `json:"kind"` // image_post, video_post or video_parts
	Text        *text.Content          `json:"text,omitempty"`
	Image       *ImageArtifact         `json:"image,omitempty"`
	Scenes      []domain.Scene         `json:"scenes,omitempty"`
	Images      []ImageArtifact        `json:"images,omitempty"`
	Audio       *AudioArtifact         `json:"audio,omitempty"`
	CaptionsSRT string                 `json:"captions_srt,omitempty"`
	Video       *compositor.VideoAsset `json:"video,omitempty"`
}

// Result is the uniform outcome of one run. Success is false only for the
// fatal cases (missing policy, text generation failure); every other
// degradation accumulates into Errors with Success still true.
type Result struct {
	Success      bool        `json:"success"`
	RunID        string      `json:"run_id"`
	UsedFallback bool        `json:"used_fallback"`
	Errors       []StepError `json:"errors"`
	Asset        *Asset      `json:"asset,omitempty"`
}

type Options struct {
	Policies policystore.Store
	Text     TextProvider
	Image    ImageProvider
	Speech   SpeechProvider
	Gate     *policygate.Gate
	Renderer Renderer
	// RenderEnabled gates the final compositor invocation; when false the
	// video pipeline returns a parts-only result. This is the safe default
	// when the encoder binary cannot be verified present.
	RenderEnabled bool
	WorkRoot      string
	RetryBudget   RetryBudget
	Logger        zerolog.Logger
}

type Orchestrator struct {
	policies      policystore.Store
	textProvider  TextProvider
	imageProvider ImageProvider
	speech        SpeechProvider
	gate          *policygate.Gate
	renderer      Renderer
	renderEnabled bool
	workRoot      string
	budget        RetryBudget
	logger        zerolog.Logger
	sleep         func(time.Duration)
	newRunID      func() string
}

func New(opts Options) *Orchestrator {
	workRoot := opts.WorkRoot
	if workRoot == "" {
		workRoot = os.TempDir()
	}
	budget := opts.RetryBudget
	if budget.MaxAttempts <= 0 {
		budget = DefaultRetryBudget
	}
	return &Orchestrator{
		policies:      opts.Policies,
		textProvider:  opts.Text,
		imageProvider: opts.Image,
		speech:        opts.Speech,
		gate:          opts.Gate,
		renderer:      opts.Renderer,
		renderEnabled: opts.RenderEnabled,
		workRoot:      workRoot,
		budget:        budget,
		logger:        opts.Logger,
		sleep:         time.Sleep,
		newRunID:      uuid.NewString,
	}
}

func aspectOrDefault(aspect string) string {
	if aspect == "16:9" {
		return "16:9"
	}
	return "9:16"
}
