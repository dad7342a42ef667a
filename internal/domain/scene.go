package domain

// Scene is one timed unit of a video: a caption shown for a duration,
// optionally backed by a generated image. Indexes are 1-based and
// contiguous; Start offsets are derived strictly from the durations of the
// preceding scenes.
type Scene struct {
	Index    int     `json:"index"`
	Caption  string  `json:"caption"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	// ImageRef is a URL or storage reference. Empty means image generation
	// exhausted its retries; the compositor substitutes a placeholder.
	ImageRef string `json:"image_ref,omitempty"`
}

// TotalDuration sums the scene durations in seconds.
func TotalDuration(scenes []Scene) float64 {
	var total float64
	for _, s := range scenes {
		total += s.Duration
	}
	return total
}
