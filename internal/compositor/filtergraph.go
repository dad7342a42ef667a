package compositor

import (
	"fmt"
	"strings"
)

const (
	fps          = 30
	fadeSeconds  = 0.6
	zoomPerFrame = 0.001
	zoomCap      = 1.08
)

// BuildFilterGraph constructs the complete -filter_complex string: one
// cover-fit scale/crop plus Ken Burns zoom chain per scene, pairwise
// crossfades between consecutive scenes, and an optional subtitle burn-in.
// Pure so the generated graph is unit-testable without spawning a process.
func BuildFilterGraph(durations []float64, aspect, captionFile string) string {
	width, height := resolutionForAspect(aspect)
	var parts []string

	for i, d := range durations {
		frames := int(d * fps)
		if frames < 1 {
			frames = 1
		}
		parts = append(parts, fmt.Sprintf(
			"[%d:v]scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d,"+
				"zoompan=z='min(zoom+%g,%g)':d=%d:s=%dx%d:fps=%d,setsar=1,format=yuv420p[v%d]",
			i, width, height, width, height,
			zoomPerFrame, zoomCap, frames, width, height, fps, i,
		))
	}

	last := "v0"
	if len(durations) > 1 {
		// Each transition's offset is the cumulative duration so far minus
		// the fade length, so consecutive scenes overlap instead of
		// inserting dead time.
		var offset float64
		for i := 1; i < len(durations); i++ {
			offset += durations[i-1] - fadeSeconds
			out := fmt.Sprintf("x%d", i)
			parts = append(parts, fmt.Sprintf(
				"[%s][v%d]xfade=transition=fade:duration=%g:offset=%.3f[%s]",
				last, i, fadeSeconds, offset, out,
			))
			last = out
		}
	}

	if captionFile != "" {
		parts = append(parts, fmt.Sprintf("[%s]subtitles=%s[vout]", last, captionFile))
	} else {
		parts = append(parts, fmt.Sprintf("[%s]null[vout]", last))
	}
	return strings.Join(parts, ";")
}

// BuildArgs assembles the encoder argument list: one looped image input per
// scene, the optional audio input, the filter graph and the output
// settings. Paths are relative to the render work directory.
func BuildArgs(framePaths []string, durations []float64, audioPath, filterGraph, outFile string) []string {
	args := []string{"-y"}
	for i, path := range framePaths {
		args = append(args, "-loop", "1", "-t", fmt.Sprintf("%.3f", durations[i]), "-i", path)
	}
	if audioPath != "" {
		args = append(args, "-i", audioPath)
	}
	args = append(args, "-filter_complex", filterGraph, "-map", "[vout]")
	if audioPath != "" {
		args = append(args,
			"-map", fmt.Sprintf("%d:a", len(framePaths)),
			"-c:a", "aac", "-b:a", "192k", "-shortest",
		)
	}
	args = append(args,
		"-c:v", "libx264", "-preset", "medium",
		"-r", fmt.Sprintf("%d", fps),
		"-pix_fmt", "yuv420p",
		"-movflags", "+faststart",
		outFile,
	)
	return args
}

func resolutionForAspect(aspect string) (int, int) {
	if aspect == "16:9" {
		return 1920, 1080
	}
	return 1080, 1920
}
