package text

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Content is the structured payload the pipeline asks the text provider
// for: a short hook, three supporting bullets, the post body, and for video
// posts a narration sentence list plus an image prompt seed.
type Content struct {
	Hook         string   `json:"hook"`
	Bullets      []string `json:"bullets"`
	Body         string   `json:"body"`
	CallToAction string   `json:"call_to_action,omitempty"`
	Narration    []string `json:"narration,omitempty"`
	ImagePrompt  string   `json:"image_prompt,omitempty"`
}

// MockContent builds the deterministic substitute used when the text
// provider has no credential configured. Same topic in, same content out.
func MockContent(topic, tone string) Content {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = "your wellbeing"
	}
	title := cases.Title(language.Und).String(topic)
	bullets := []string{
		fmt.Sprintf("Understand the basics of %s before making changes.", strings.ToLower(topic)),
		"Small, consistent habits beat drastic short-lived efforts.",
		"Talk to a qualified professional about what fits your situation.",
	}
	body := fmt.Sprintf(
		"%s matters more than most people think. Start with one small step today, build on it tomorrow, and review your progress each week. Staying %s and consistent is what makes the difference.",
		title, tone,
	)
	return Content{
		Hook:         fmt.Sprintf("%s: what actually helps", title),
		Bullets:      bullets,
		Body:         body,
		CallToAction: "Save this post and share it with someone who needs it.",
		Narration: []string{
			fmt.Sprintf("Let's talk about %s.", strings.ToLower(topic)),
			bullets[0],
			bullets[1],
			bullets[2],
			"Start today, one small step at a time.",
		},
		ImagePrompt: fmt.Sprintf("calm, modern illustration about %s, soft colors, no text", strings.ToLower(topic)),
	}
}
