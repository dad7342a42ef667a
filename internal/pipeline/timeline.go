package pipeline

import (
	"postforge/internal/compositor"
	"postforge/internal/domain"
)

// ComposeTimeline converts accepted scenes plus the optional audio track
// into the compositor's RenderJob. Pure: it never calls a provider, so a
// caller can inspect or persist the timeline without rendering.
func ComposeTimeline(scenes []domain.Scene, images []ImageArtifact, audio *AudioArtifact, aspect, workDir string) compositor.RenderJob {
	job := compositor.RenderJob{Aspect: aspect, WorkDir: workDir}
	for _, scene := range scenes {
		frame := compositor.Frame{Duration: scene.Duration}
		if img := imageForScene(scene, images, len(scenes)); img != nil {
			if img.URL != nil {
				frame.ImageURL = *img.URL
			}
			frame.ImageData = img.Data
		}
		job.Frames = append(job.Frames, frame)
		job.Captions = append(job.Captions, compositor.Caption{
			Start: scene.Start,
			End:   scene.Start + scene.Duration,
			Text:  scene.Caption,
		})
	}
	if audio != nil {
		job.Audio = audio.Data
		job.AudioMIME = audio.MIME
	}
	return job
}

// assignSceneImages spreads the requested images across the (usually more
// numerous) scenes in order, writing each scene's image reference.
func assignSceneImages(scenes []domain.Scene, images []ImageArtifact) {
	for i := range scenes {
		img := imageForScene(scenes[i], images, len(scenes))
		if img != nil && img.URL != nil {
			scenes[i].ImageRef = *img.URL
		}
	}
}

// imageForScene maps a scene onto its proportional image slot. Returns nil
// when that slot's generation failed outright.
func imageForScene(scene domain.Scene, images []ImageArtifact, sceneCount int) *ImageArtifact {
	if len(images) == 0 || sceneCount == 0 {
		return nil
	}
	idx := (scene.Index - 1) * len(images) / sceneCount
	if idx >= len(images) {
		idx = len(images) - 1
	}
	img := images[idx]
	if img.URL == nil && len(img.Data) == 0 {
		return nil
	}
	return &img
}
