package sceneplan

import (
	"strings"
	"testing"
)

func TestPlanOffsetsAreCumulative(t *testing.T) {
	sentences := []string{
		"Small daily habits protect your heart more than occasional big efforts.",
		"Walk.",
		"A brisk thirty minute walk five days a week lowers blood pressure and improves mood for most adults.",
	}
	scenes := Plan(sentences)
	if len(scenes) != 3 {
		t.Fatalf("expected 3 scenes, got %d", len(scenes))
	}
	if scenes[0].Start != 0 {
		t.Fatalf("first scene must start at 0, got %f", scenes[0].Start)
	}
	for i := 1; i < len(scenes); i++ {
		want := scenes[i-1].Start + scenes[i-1].Duration
		if scenes[i].Start != want {
			t.Fatalf("scene %d start %f, want %f", i, scenes[i].Start, want)
		}
	}
	for i, s := range scenes {
		if s.Index != i+1 {
			t.Fatalf("scene %d has index %d", i, s.Index)
		}
		if s.Duration < 3 {
			t.Fatalf("scene %d duration %f below floor", i, s.Duration)
		}
	}
}

func TestPlanDurationHeuristic(t *testing.T) {
	// 11 words at 3 words/sec rounds up to 4 seconds.
	long := strings.Repeat("word ", 11)
	scenes := Plan([]string{long})
	if scenes[0].Duration != 4 {
		t.Fatalf("11 words should yield 4s, got %f", scenes[0].Duration)
	}
	// One word still gets the 3 second floor.
	scenes = Plan([]string{"Hi."})
	if scenes[0].Duration != 3 {
		t.Fatalf("short sentence should hit 3s floor, got %f", scenes[0].Duration)
	}
}

func TestImageCount(t *testing.T) {
	cases := map[int]int{1: 3, 3: 3, 4: 4, 6: 5, 7: 6, 10: 6}
	for sentences, want := range cases {
		if got := ImageCount(sentences); got != want {
			t.Fatalf("ImageCount(%d) = %d, want %d", sentences, got, want)
		}
	}
}

func TestSplitSentences(t *testing.T) {
	got := SplitSentences("First point. Second point! Third point? trailing words")
	if len(got) != 4 {
		t.Fatalf("expected 4 sentences, got %d: %v", len(got), got)
	}
	if got[0] != "First point." || got[3] != "trailing words" {
		t.Fatalf("unexpected split: %v", got)
	}
}
