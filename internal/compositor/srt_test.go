package compositor

import (
	"math"
	"strings"
	"testing"
)

func TestSRTRoundTrip(t *testing.T) {
	in := []Caption{
		{Start: 0, End: 4, Text: "Let's talk about sleep."},
		{Start: 4, End: 9.5, Text: "Seven to nine hours is the target for most adults."},
		{Start: 9.5, End: 13.25, Text: "Consistency beats duration."},
	}
	doc := FormatSRT(in)
	out, err := ParseSRT(doc)
	if err != nil {
		t.Fatalf("ParseSRT: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("round trip lost captions: %d != %d", len(out), len(in))
	}
	for i := range in {
		if math.Abs(out[i].Start-in[i].Start) > 0.001 || math.Abs(out[i].End-in[i].End) > 0.001 {
			t.Fatalf("caption %d timing drifted: got (%f,%f) want (%f,%f)",
				i, out[i].Start, out[i].End, in[i].Start, in[i].End)
		}
		if out[i].Text != in[i].Text {
			t.Fatalf("caption %d text changed: %q != %q", i, out[i].Text, in[i].Text)
		}
	}
}

func TestFormatSRTTimestamps(t *testing.T) {
	doc := FormatSRT([]Caption{{Start: 3661.5, End: 3662, Text: "x"}})
	if !strings.Contains(doc, "01:01:01,500 --> 01:01:02,000") {
		t.Fatalf("unexpected timestamp format: %s", doc)
	}
	if !strings.HasPrefix(doc, "1\n") {
		t.Fatalf("index must be sequential from 1: %s", doc)
	}
}

func TestParseSRTMalformed(t *testing.T) {
	if _, err := ParseSRT("1\nnot a timing line\ntext\n\n"); err == nil {
		t.Fatal("malformed timing must be rejected")
	}
}
