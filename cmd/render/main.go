// Command render drives the compositor from the command line: it reads a
// render job description, resolves local frame and audio files, and writes
// the produced video path as JSON on stdout. Useful for replaying failed
// renders and for tuning filter parameters without a full pipeline run.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"postforge/internal/compositor"
	"postforge/internal/infra"
)

type jobFrame struct {
	// Image is a local file path or an http(s) URL.
	Image    string  `json:"image"`
	Duration float64 `json:"duration"`
}

type jobCaption struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

type jobFile struct {
	Aspect   string       `json:"aspect"`
	WorkDir  string       `json:"work_dir,omitempty"`
	Audio    string       `json:"audio,omitempty"`
	Frames   []jobFrame   `json:"frames"`
	Captions []jobCaption `json:"captions,omitempty"`
}

func main() {
	var (
		jobFlag     string
		ffmpegFlag  string
		timeoutFlag time.Duration
	)
	flag.StringVar(&jobFlag, "job", "", "path to the render job JSON file")
	flag.StringVar(&ffmpegFlag, "ffmpeg", "ffmpeg", "encoder binary to invoke")
	flag.DurationVar(&timeoutFlag, "timeout", 10*time.Minute, "render timeout")
	flag.Parse()

	if strings.TrimSpace(jobFlag) == "" {
		exitWithError(errors.New("-job is required"))
	}

	raw, err := os.ReadFile(jobFlag)
	if err != nil {
		exitWithError(fmt.Errorf("failed to read job file: %w", err))
	}
	var spec jobFile
	if err := json.Unmarshal(raw, &spec); err != nil {
		exitWithError(fmt.Errorf("failed to decode job file: %w", err))
	}
	if len(spec.Frames) == 0 {
		exitWithError(errors.New("job has no frames"))
	}

	job := compositor.RenderJob{Aspect: spec.Aspect, WorkDir: spec.WorkDir}
	if job.WorkDir == "" {
		dir, err := os.MkdirTemp("", "render-*")
		if err != nil {
			exitWithError(fmt.Errorf("failed to create work dir: %w", err))
		}
		job.WorkDir = dir
	}

	base := filepath.Dir(jobFlag)
	for _, f := range spec.Frames {
		frame := compositor.Frame{Duration: f.Duration}
		if strings.HasPrefix(f.Image, "http://") || strings.HasPrefix(f.Image, "https://") {
			frame.ImageURL = f.Image
		} else if f.Image != "" {
			data, err := os.ReadFile(resolvePath(base, f.Image))
			if err != nil {
				exitWithError(fmt.Errorf("failed to read frame image: %w", err))
			}
			frame.ImageData = data
		}
		job.Frames = append(job.Frames, frame)
	}
	if spec.Audio != "" {
		data, err := os.ReadFile(resolvePath(base, spec.Audio))
		if err != nil {
			exitWithError(fmt.Errorf("failed to read audio track: %w", err))
		}
		job.Audio = data
		job.AudioMIME = mimeForAudio(spec.Audio)
	}
	for _, c := range spec.Captions {
		job.Captions = append(job.Captions, compositor.Caption{Start: c.Start, End: c.End, Text: c.Text})
	}

	logger := infra.NewLogger("cli").With().Str("cmd", "render").Logger()
	comp := compositor.New(compositor.Options{
		BinaryPath:    ffmpegFlag,
		RenderTimeout: timeoutFlag,
		Logger:        logger,
	})

	res := comp.Compose(context.Background(), job)
	if !res.OK {
		exitWithError(fmt.Errorf("render failed (%s): %s", res.Class, res.Err))
	}

	out, err := json.MarshalIndent(res.Payload, "", "  ")
	if err != nil {
		exitWithError(err)
	}
	fmt.Println(string(out))
}

func resolvePath(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

func mimeForAudio(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return "audio/wav"
	case ".mp3":
		return "audio/mpeg"
	default:
		return "application/octet-stream"
	}
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
