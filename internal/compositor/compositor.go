// Package compositor turns materialized still images, an optional audio
// track and caption timing into one video file by driving an external
// ffmpeg-compatible encoder. A render is all-or-nothing: there is no
// partial or resumable state, a failed render is retried wholesale by the
// caller.
package compositor

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"postforge/internal/stage"
)

const (
	defaultBinary        = "ffmpeg"
	defaultRenderTimeout = 10 * time.Minute
	// stderrTailBytes bounds the diagnostics kept from the encoder.
	stderrTailBytes = 4000
)

// Frame is one scene's visual input: inline bytes, a remote URL, or
// neither (the placeholder case), always with a display duration.
type Frame struct {
	ImageURL  string
	ImageData []byte
	Duration  float64
}

// Caption is one subtitle cue in seconds.
type Caption struct {
	Start float64
	End   float64
	Text  string
}

// RenderJob is the compositor's complete input for producing one video.
// WorkDir must be unique per invocation so concurrent renders never collide
// on temp files; the compositor does not promise to delete it.
type RenderJob struct {
	Frames    []Frame
	Audio     []byte
	AudioMIME string
	Captions  []Caption
	Aspect    string // "9:16" or "16:9"
	WorkDir   string
}

// VideoAsset references the produced file.
type VideoAsset struct {
	Path     string  `json:"path"`
	Duration float64 `json:"duration"`
}

type Options struct {
	// BinaryPath overrides the encoder location; empty falls back to a bare
	// "ffmpeg" resolved from PATH.
	BinaryPath    string
	RenderTimeout time.Duration
	HTTPClient    *http.Client
	Logger        zerolog.Logger
}

type Compositor struct {
	binary  string
	timeout time.Duration
	client  *http.Client
	logger  zerolog.Logger
}

func New(opts Options) *Compositor {
	binary := opts.BinaryPath
	if binary == "" {
		binary = defaultBinary
	}
	timeout := opts.RenderTimeout
	if timeout <= 0 {
		timeout = defaultRenderTimeout
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Compositor{binary: binary, timeout: timeout, client: client, logger: opts.Logger}
}

// Probe checks encoder availability with a cheap -version invocation.
func (c *Compositor) Probe(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, c.binary, "-version")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("encoder %q unavailable: %w", c.binary, err)
	}
	return nil
}

// Compose runs the render state machine: probe, materialize, build graph,
// invoke, verify output. Every failure is a typed result, never a panic.
func (c *Compositor) Compose(ctx context.Context, job RenderJob) stage.Result[VideoAsset] {
	started := time.Now()
	if len(job.Frames) == 0 {
		return stage.Failf[VideoAsset](stage.ClassRenderFailed, "render job has no frames", time.Since(started))
	}

	if err := c.Probe(ctx); err != nil {
		return stage.Fail[VideoAsset](stage.ClassEncoderNotFound, err, time.Since(started))
	}

	framePaths, audioPath, captionPath, err := c.materialize(ctx, job)
	if err != nil {
		return stage.Fail[VideoAsset](stage.ClassRenderFailed, err, time.Since(started))
	}

	durations := make([]float64, len(job.Frames))
	var total float64
	for i, f := range job.Frames {
		durations[i] = f.Duration
		total += f.Duration
	}

	graph := BuildFilterGraph(durations, job.Aspect, captionPath)
	outFile := "out.mp4"
	args := BuildArgs(framePaths, durations, audioPath, graph, outFile)

	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	tail := &tailBuffer{max: stderrTailBytes}
	cmd := exec.CommandContext(runCtx, c.binary, args...)
	cmd.Dir = job.WorkDir
	cmd.Stdout = tail
	cmd.Stderr = tail

	c.logger.Debug().Str("binary", c.binary).Int("frames", len(framePaths)).
		Bool("audio", audioPath != "").Bool("captions", captionPath != "").
		Msg("invoking encoder")

	if err := cmd.Run(); err != nil {
		return stage.Fail[VideoAsset](stage.ClassRenderFailed,
			fmt.Errorf("encoder failed: %w: %s", err, tail.String()), time.Since(started))
	}

	outPath := filepath.Join(job.WorkDir, outFile)
	if _, err := os.Stat(outPath); err != nil {
		return stage.Fail[VideoAsset](stage.ClassRenderFailed,
			fmt.Errorf("encoder produced no output: %s", tail.String()), time.Since(started))
	}
	return stage.Succeed(VideoAsset{Path: outPath, Duration: total}, time.Since(started))
}

// tailBuffer keeps only the last max bytes written to it.
type tailBuffer struct {
	max int
	buf []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if len(t.buf) > t.max {
		t.buf = t.buf[len(t.buf)-t.max:]
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	return string(t.buf)
}
