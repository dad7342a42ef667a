package pipeline

import (
	"context"
	"fmt"
	"time"
)

// ImagePost runs the image-post pipeline:
// FetchPolicy -> GenerateText -> Screen -> Disclaim -> GenerateImage -> Assemble.
// Only the first two stages can be fatal.
func (o *Orchestrator) ImagePost(ctx context.Context, req Request) Result {
	runID := o.newRunID()
	started := time.Now()
	o.logger.Info().Str("run_id", runID).Str("owner_id", req.OwnerID).Str("topic", req.Topic).Msg("image post run started")

	p := o.prepare(ctx, req, runID, false)
	if p.fatal != nil {
		return *p.fatal
	}

	aspect := aspectOrDefault(req.Aspect)
	prompt := buildImagePrompt(p.policy, p.content, req)

	asset := &Asset{Kind: "image_post", Text: &p.content}
	errs := p.errs
	usedFallback := p.usedFallback

	res := o.imageProvider.Generate(ctx, prompt, aspect)
	if res.OK {
		url := res.Payload.URL
		asset.Image = &ImageArtifact{Prompt: prompt, MIME: res.Payload.MIME, Data: res.Payload.Data}
		if url != "" {
			asset.Image.URL = &url
		}
		usedFallback = usedFallback || res.UsedFallback
	} else {
		// Non-fatal: a null image with a synthetic prompt noting the
		// failure, the run keeps its text.
		errs = append(errs, StepError{Step: StepImage, Message: fmt.Sprintf("%s: %s", res.Class, res.Err)})
		usedFallback = true
		asset.Image = &ImageArtifact{Prompt: fmt.Sprintf("unavailable (%s): %s", res.Class, prompt)}
	}

	o.logger.Info().Str("run_id", runID).Dur("elapsed", time.Since(started)).
		Bool("used_fallback", usedFallback).Int("errors", len(errs)).Msg("image post run finished")
	return Result{
		Success:      true,
		RunID:        runID,
		UsedFallback: usedFallback,
		Errors:       errs,
		Asset:        asset,
	}
}
