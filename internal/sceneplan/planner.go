// Package sceneplan turns narrated sentences into a timed scene list and
// decides how many distinct images a video is worth.
package sceneplan

import (
	"math"
	"strings"

	"postforge/internal/domain"
)

const (
	// Spoken-rate assumption of roughly three words per second.
	wordsPerSecond = 3
	// No caption is shown for less than three seconds.
	minSceneSeconds = 3
)

// Plan assigns each sentence a duration from its word count and a start
// offset accumulated from the preceding scenes. The first scene always
// starts at zero.
func Plan(sentences []string) []domain.Scene {
	scenes := make([]domain.Scene, 0, len(sentences))
	var start float64
	for i, sentence := range sentences {
		duration := sentenceDuration(sentence)
		scenes = append(scenes, domain.Scene{
			Index:    i + 1,
			Caption:  strings.TrimSpace(sentence),
			Start:    start,
			Duration: duration,
		})
		start += duration
	}
	return scenes
}

func sentenceDuration(sentence string) float64 {
	words := len(strings.Fields(sentence))
	seconds := math.Ceil(float64(words) / wordsPerSecond)
	if seconds < minSceneSeconds {
		return minSceneSeconds
	}
	return seconds
}

// ImageCount decouples how many scenes are narrated from how many distinct
// images are requested, since images are far more expensive than captions.
func ImageCount(sentenceCount int) int {
	switch {
	case sentenceCount <= 3:
		return 3
	case sentenceCount <= 6:
		if sentenceCount < 5 {
			return sentenceCount
		}
		return 5
	default:
		return 6
	}
}

// SplitSentences breaks a script into sentences on terminal punctuation.
// Used when the text provider did not return an explicit narration list.
func SplitSentences(text string) []string {
	var sentences []string
	var b strings.Builder
	for _, r := range text {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(b.String()); s != "" && len(strings.Fields(s)) > 0 {
				sentences = append(sentences, s)
			}
			b.Reset()
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
