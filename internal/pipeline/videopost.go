package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"postforge/internal/compositor"
	"postforge/internal/domain"
	"postforge/internal/providers/image"
	"postforge/internal/providers/speech"
	"postforge/internal/sceneplan"
	"postforge/internal/stage"
)

// VideoPost runs the video-post pipeline: the shared text prefix, then
// PlanScenes -> GenerateImage xN -> GenerateAudio -> ComposeTimeline ->
// optional Render. Each image and the audio track gets its own retry
// budget; exhausting a budget degrades that item, never the run.
func (o *Orchestrator) VideoPost(ctx context.Context, req Request) Result {
	runID := o.newRunID()
	started := time.Now()
	o.logger.Info().Str("run_id", runID).Str("owner_id", req.OwnerID).Str("topic", req.Topic).Msg("video post run started")

	p := o.prepare(ctx, req, runID, true)
	if p.fatal != nil {
		return *p.fatal
	}
	errs := p.errs
	usedFallback := p.usedFallback
	aspect := aspectOrDefault(req.Aspect)

	sentences := p.content.Narration
	if len(sentences) == 0 {
		sentences = sceneplan.SplitSentences(p.content.Body)
	}
	scenes := sceneplan.Plan(sentences)
	if len(scenes) == 0 {
		return Result{
			Success: false,
			RunID:   runID,
			Errors:  append(errs, StepError{Step: StepScenes, Message: "no narratable sentences in generated script"}),
		}
	}

	// One retry budget per requested image, independent per scene: a scene
	// that exhausts its budget renders with a null image reference.
	imageCount := sceneplan.ImageCount(len(sentences))
	images := make([]ImageArtifact, imageCount)
	for i := 0; i < imageCount; i++ {
		prompt := buildScenePrompt(p.policy, p.content, req, i, imageCount)
		res := retryStage(o.budget, o.sleep, func() stage.Result[image.Asset] {
			return o.imageProvider.Generate(ctx, prompt, aspect)
		})
		if res.OK {
			images[i] = ImageArtifact{Prompt: prompt, MIME: res.Payload.MIME, Data: res.Payload.Data}
			if res.Payload.URL != "" {
				url := res.Payload.URL
				images[i].URL = &url
			}
			usedFallback = usedFallback || res.UsedFallback
			continue
		}
		errs = append(errs, StepError{
			Step:    StepImage,
			Message: fmt.Sprintf("image %d/%d: %s: %s", i+1, imageCount, res.Class, res.Err),
		})
		usedFallback = true
		images[i] = ImageArtifact{Prompt: fmt.Sprintf("unavailable (%s): %s", res.Class, prompt)}
	}
	assignSceneImages(scenes, images)

	// One retry budget for the single audio track. A missing credential
	// degrades to a silent deterministic bed; an exhausted budget yields a
	// null track and the composer still produces a silent video.
	narration := strings.Join(sentences, " ")
	var audio *AudioArtifact
	audioRes := retryStage(o.budget, o.sleep, func() stage.Result[speech.Asset] {
		return o.speech.Synthesize(ctx, narration, req.VoiceID)
	})
	switch {
	case audioRes.OK:
		audio = &AudioArtifact{
			MIME:  audioRes.Payload.MIME,
			Voice: audioRes.Payload.Voice,
			Bytes: len(audioRes.Payload.Data),
			Data:  audioRes.Payload.Data,
		}
		usedFallback = usedFallback || audioRes.UsedFallback
	case audioRes.Class == stage.ClassNoCredential:
		mock := speech.MockAsset(domain.TotalDuration(scenes))
		audio = &AudioArtifact{MIME: mock.MIME, Voice: mock.Voice, Bytes: len(mock.Data), Data: mock.Data}
		usedFallback = true
		errs = append(errs, StepError{Step: StepAudio, Message: "no speech credential configured, silent track substituted"})
	default:
		errs = append(errs, StepError{Step: StepAudio, Message: fmt.Sprintf("%s: %s", audioRes.Class, audioRes.Err)})
		usedFallback = true
	}

	job := ComposeTimeline(scenes, images, audio, aspect, filepath.Join(o.workRoot, runID))
	o.logger.Debug().Str("run_id", runID).Str("step", StepTimeline).
		Int("frames", len(job.Frames)).Int("captions", len(job.Captions)).
		Bool("audio", len(job.Audio) > 0).Msg("timeline composed")

	asset := &Asset{
		Kind:        "video_parts",
		Text:        &p.content,
		Scenes:      scenes,
		Images:      images,
		Audio:       audio,
		CaptionsSRT: compositor.FormatSRT(job.Captions),
	}

	if o.renderEnabled && o.renderer != nil {
		renderRes := o.renderer.Compose(ctx, job)
		if renderRes.OK {
			asset.Kind = "video_post"
			video := renderRes.Payload
			asset.Video = &video
		} else {
			// Fatal for the render call only: the parts result survives.
			errs = append(errs, StepError{Step: StepRender, Message: fmt.Sprintf("%s: %s", renderRes.Class, renderRes.Err)})
		}
	}

	o.logger.Info().Str("run_id", runID).Dur("elapsed", time.Since(started)).Str("kind", asset.Kind).
		Bool("used_fallback", usedFallback).Int("errors", len(errs)).Msg("video post run finished")
	return Result{
		Success:      true,
		RunID:        runID,
		UsedFallback: usedFallback,
		Errors:       errs,
		Asset:        asset,
	}
}
