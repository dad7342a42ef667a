package compositor

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// placeholderPNG is a 1x1 PNG written for scenes whose image generation
// exhausted its retries. A null image never fails the whole run.
const placeholderPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

// materialize writes every render input into the job's work directory and
// returns paths relative to it. A frame whose download fails degrades to
// the placeholder rather than aborting the render.
func (c *Compositor) materialize(ctx context.Context, job RenderJob) (framePaths []string, audioPath, captionPath string, err error) {
	if job.WorkDir == "" {
		return nil, "", "", fmt.Errorf("render job has no work directory")
	}
	if err := os.MkdirAll(job.WorkDir, 0o755); err != nil {
		return nil, "", "", fmt.Errorf("create work dir: %w", err)
	}

	for i, frame := range job.Frames {
		name := fmt.Sprintf("scene_%02d.png", i)
		path := filepath.Join(job.WorkDir, name)
		switch {
		case len(frame.ImageData) > 0:
			if err := os.WriteFile(path, frame.ImageData, 0o644); err != nil {
				return nil, "", "", fmt.Errorf("write frame %d: %w", i, err)
			}
		case frame.ImageURL != "":
			if err := c.download(ctx, frame.ImageURL, path); err != nil {
				c.logger.Warn().Err(err).Int("frame", i).Msg("frame download failed, using placeholder")
				if err := writePlaceholder(path); err != nil {
					return nil, "", "", err
				}
			}
		default:
			if err := writePlaceholder(path); err != nil {
				return nil, "", "", err
			}
		}
		framePaths = append(framePaths, name)
	}

	if len(job.Audio) > 0 {
		name := "audio" + audioExtension(job.AudioMIME)
		if err := os.WriteFile(filepath.Join(job.WorkDir, name), job.Audio, 0o644); err != nil {
			return nil, "", "", fmt.Errorf("write audio: %w", err)
		}
		audioPath = name
	}

	if len(job.Captions) > 0 {
		name := "captions.srt"
		if err := os.WriteFile(filepath.Join(job.WorkDir, name), []byte(FormatSRT(job.Captions)), 0o644); err != nil {
			return nil, "", "", fmt.Errorf("write captions: %w", err)
		}
		captionPath = name
	}
	return framePaths, audioPath, captionPath, nil
}

func (c *Compositor) download(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("download %s: http %d", url, resp.StatusCode)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	if _, err := io.Copy(f, resp.Body); err != nil {
		return err
	}
	return nil
}

func writePlaceholder(path string) error {
	data, err := base64.StdEncoding.DecodeString(placeholderPNG)
	if err != nil {
		return fmt.Errorf("decode placeholder: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write placeholder: %w", err)
	}
	return nil
}

func audioExtension(mime string) string {
	switch {
	case strings.Contains(mime, "wav"):
		return ".wav"
	case strings.Contains(mime, "ogg"):
		return ".ogg"
	default:
		return ".mp3"
	}
}
