package compositor

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatSRT renders captions as a standard SubRip document: sequential
// index, "start --> end" in HH:MM:SS,mmm, then the text.
func FormatSRT(captions []Caption) string {
	sb := &strings.Builder{}
	for i, c := range captions {
		fmt.Fprintf(sb, "%d\n%s --> %s\n%s\n\n", i+1, srtTimestamp(c.Start), srtTimestamp(c.End), c.Text)
	}
	return sb.String()
}

// ParseSRT decodes a SubRip document back into captions. Tolerates blank
// trailing blocks and multi-line cue text.
func ParseSRT(doc string) ([]Caption, error) {
	var captions []Caption
	blocks := strings.Split(strings.ReplaceAll(doc, "\r\n", "\n"), "\n\n")
	for _, block := range blocks {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) < 2 {
			continue
		}
		// lines[0] is the index; timing is on the next line.
		timing := strings.Split(lines[1], " --> ")
		if len(timing) != 2 {
			return nil, fmt.Errorf("srt: malformed timing line %q", lines[1])
		}
		start, err := parseSRTTimestamp(timing[0])
		if err != nil {
			return nil, err
		}
		end, err := parseSRTTimestamp(timing[1])
		if err != nil {
			return nil, err
		}
		captions = append(captions, Caption{
			Start: start,
			End:   end,
			Text:  strings.Join(lines[2:], "\n"),
		})
	}
	return captions, nil
}

func srtTimestamp(seconds float64) string {
	ms := int(math.Round(seconds * 1000))
	h := ms / 3600000
	ms -= h * 3600000
	m := ms / 60000
	ms -= m * 60000
	s := ms / 1000
	ms -= s * 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

func parseSRTTimestamp(ts string) (float64, error) {
	ts = strings.TrimSpace(ts)
	var h, m, s, ms int
	parts := strings.Split(ts, ",")
	if len(parts) != 2 {
		return 0, fmt.Errorf("srt: malformed timestamp %q", ts)
	}
	var err error
	if ms, err = strconv.Atoi(parts[1]); err != nil {
		return 0, fmt.Errorf("srt: malformed timestamp %q", ts)
	}
	clock := strings.Split(parts[0], ":")
	if len(clock) != 3 {
		return 0, fmt.Errorf("srt: malformed timestamp %q", ts)
	}
	if h, err = strconv.Atoi(clock[0]); err != nil {
		return 0, fmt.Errorf("srt: malformed timestamp %q", ts)
	}
	if m, err = strconv.Atoi(clock[1]); err != nil {
		return 0, fmt.Errorf("srt: malformed timestamp %q", ts)
	}
	if s, err = strconv.Atoi(clock[2]); err != nil {
		return 0, fmt.Errorf("srt: malformed timestamp %q", ts)
	}
	return float64(h*3600+m*60+s) + float64(ms)/1000, nil
}
