package pipeline

import (
	"fmt"
	"strings"

	"postforge/internal/domain"
	"postforge/internal/providers/text"
)

const contentSchema = `{"hook":string,"bullets":[string,string,string],"body":string,"call_to_action":string,"image_prompt":string}`

const videoContentSchema = `{"hook":string,"bullets":[string,string,string],"body":string,"call_to_action":string,"narration":string[],"image_prompt":string}`

// buildTextRequest translates the owner's style policy plus the caller's
// topic into one structured completion call.
func buildTextRequest(policy domain.StylePolicy, req Request, wantNarration bool) text.Request {
	schema := contentSchema
	extra := ""
	if wantNarration {
		schema = videoContentSchema
		extra = " Include a narration array of 5-8 short spoken sentences covering the same points."
	}

	system := &strings.Builder{}
	fmt.Fprintf(system, "You write social media content for a health and wellness creator. Tone: %s.", policy.NormalizedTone())
	if policy.StyleGuide.WritingStyle != "" {
		fmt.Fprintf(system, " Writing style: %s.", policy.StyleGuide.WritingStyle)
	}
	if len(policy.StyleGuide.Do) > 0 {
		fmt.Fprintf(system, " Always: %s.", strings.Join(policy.StyleGuide.Do, "; "))
	}
	if len(policy.StyleGuide.Dont) > 0 {
		fmt.Fprintf(system, " Never: %s.", strings.Join(policy.StyleGuide.Dont, "; "))
	}
	if len(policy.Guardrails.ForbiddenPhrases) > 0 {
		fmt.Fprintf(system, " Forbidden claims: %s.", strings.Join(policy.Guardrails.ForbiddenPhrases, "; "))
	}
	if policy.Guardrails.LanguageLevel != "" {
		fmt.Fprintf(system, " Language level: %s.", policy.Guardrails.LanguageLevel)
	}
	fmt.Fprintf(system, " Respond strictly with JSON matching %s.%s", schema, extra)

	user := &strings.Builder{}
	fmt.Fprintf(user, "Topic: %s.", req.Topic)
	if req.Notes != "" {
		fmt.Fprintf(user, " Notes: %s.", req.Notes)
	}
	if req.StyleRequest != "" {
		fmt.Fprintf(user, " Style request: %s.", req.StyleRequest)
	}
	if req.EnhancedPrompt != "" {
		fmt.Fprintf(user, " Additional direction: %s.", req.EnhancedPrompt)
	}
	if cta := policy.StyleGuide.CallToAction; cta != "" {
		fmt.Fprintf(user, " Close with a call to action in this style: %s.", cta)
	}

	return text.Request{
		System:      system.String(),
		User:        user.String(),
		Temperature: 0.7,
		MaxTokens:   900,
		WantJSON:    true,
	}
}

// buildImagePrompt derives the still-image prompt from the generated
// content and the policy's visual preferences.
func buildImagePrompt(policy domain.StylePolicy, content text.Content, req Request) string {
	base := strings.TrimSpace(content.ImagePrompt)
	if base == "" {
		base = fmt.Sprintf("illustration about %s", strings.ToLower(strings.TrimSpace(req.Topic)))
	}
	var tags []string
	if policy.StyleGuide.VisualStyle != "" {
		tags = append(tags, policy.StyleGuide.VisualStyle)
	}
	tags = append(tags, policy.StyleGuide.VisualTags...)
	if len(tags) == 0 {
		return base
	}
	return base + ", " + strings.Join(tags, ", ")
}

// buildScenePrompt varies the base image prompt per requested image so a
// video does not repeat one visual six times.
func buildScenePrompt(policy domain.StylePolicy, content text.Content, req Request, index, total int) string {
	return fmt.Sprintf("%s, scene %d of %d", buildImagePrompt(policy, content, req), index+1, total)
}
