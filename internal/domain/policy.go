package domain

import "strings"

// DisclaimerPolicy controls when a disclaimer sentence is attached to
// generated copy.
type DisclaimerPolicy string

const (
	DisclaimerAlways      DisclaimerPolicy = "always"
	DisclaimerConditional DisclaimerPolicy = "conditional"
)

// StyleGuide captures the writing style an owner configured during
// onboarding.
type StyleGuide struct {
	WritingStyle     string           `json:"writing_style" yaml:"writing_style"`
	Do               []string         `json:"do" yaml:"do"`
	Dont             []string         `json:"dont" yaml:"dont"`
	CallToAction     string           `json:"call_to_action" yaml:"call_to_action"`
	DisclaimerPolicy DisclaimerPolicy `json:"disclaimer_policy" yaml:"disclaimer_policy"`
	VisualStyle      string           `json:"visual_style" yaml:"visual_style"`
	VisualTags       []string         `json:"visual_tags" yaml:"visual_tags"`
}

// Guardrails lists what generated content must never contain.
type Guardrails struct {
	ForbiddenPhrases []string `json:"forbidden_phrases" yaml:"forbidden_phrases"`
	SensitiveAreas   []string `json:"sensitive_areas" yaml:"sensitive_areas"`
	LanguageLevel    string   `json:"language_level" yaml:"language_level"`
}

// StylePolicy is the tone/guardrail/topic document governing one owner's
// generated content. It is fetched once per pipeline run and never mutated
// by the pipeline.
type StylePolicy struct {
	OwnerID    string     `json:"owner_id" yaml:"owner_id"`
	Tone       string     `json:"tone" yaml:"tone"`
	StyleGuide StyleGuide `json:"style_guide" yaml:"style_guide"`
	Guardrails Guardrails `json:"guardrails" yaml:"guardrails"`
	Topics     []string   `json:"topics" yaml:"topics"`
}

// NormalizedTone returns the tone lowered and trimmed, defaulting to
// "friendly" when unset.
func (p StylePolicy) NormalizedTone() string {
	tone := strings.ToLower(strings.TrimSpace(p.Tone))
	if tone == "" {
		return "friendly"
	}
	return tone
}
