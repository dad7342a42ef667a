// Package policygate screens generated text against an owner's guardrails
// before it is published. A cheap lexical pass always runs; a semantic
// provider re-check is escalated to only when the lexical pass flags
// something, and its failure never blocks content production.
package policygate

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"postforge/internal/domain"
)

// Verdict is the gate's judgement on a piece of text.
type Verdict string

const (
	VerdictPass Verdict = "pass"
	VerdictWarn Verdict = "warn"
)

// ScreenResult is what a screen run produces.
type ScreenResult struct {
	Verdict        Verdict  `json:"verdict"`
	Reasons        []string `json:"reasons,omitempty"`
	SuggestedFixes []string `json:"suggested_fixes,omitempty"`
}

// overreachPhrases is the fixed lexical blocklist of absolute-cure and
// guarantee language. Matching is case-insensitive substring.
var overreachPhrases = []string{
	"cures",
	"cure for",
	"miracle",
	"guaranteed results",
	"guaranteed to work",
	"100% effective",
	"100% safe",
	"never fails",
	"instant results",
	"permanent cure",
	"no side effects",
	"doctors hate",
	"scientifically proven to cure",
}

// SemanticChecker is the escalation contract: given the text and the
// policy's forbidden-claim list, return an independent verdict. Implemented
// by an adapter over the text provider.
type SemanticChecker interface {
	Check(ctx context.Context, text string, forbidden []string) (ScreenResult, error)
}

// Gate runs the two-stage screen. Stateless and safe for concurrent use.
type Gate struct {
	checker SemanticChecker
	logger  zerolog.Logger
}

func New(checker SemanticChecker, logger zerolog.Logger) *Gate {
	return &Gate{checker: checker, logger: logger}
}

// Screen applies the lexical pass and, on a warn, the semantic escalation.
// The semantic result is merged into the lexical one: reasons and fixes are
// concatenated and the semantic verdict wins. A semantic failure leaves the
// lexical verdict standing unchanged.
func (g *Gate) Screen(ctx context.Context, text string, policy domain.StylePolicy) ScreenResult {
	result := Lexical(text)
	if result.Verdict == VerdictPass {
		return result
	}
	if g.checker == nil {
		return result
	}
	semantic, err := g.checker.Check(ctx, text, policy.Guardrails.ForbiddenPhrases)
	if err != nil {
		g.logger.Warn().Err(err).Msg("semantic screen unavailable, lexical verdict stands")
		return result
	}
	result.Verdict = semantic.Verdict
	result.Reasons = append(result.Reasons, semantic.Reasons...)
	result.SuggestedFixes = append(result.SuggestedFixes, semantic.SuggestedFixes...)
	return result
}

// Lexical is the deterministic stage-one scan. Every matched phrase becomes
// a reason.
func Lexical(text string) ScreenResult {
	lowered := strings.ToLower(text)
	result := ScreenResult{Verdict: VerdictPass}
	for _, phrase := range overreachPhrases {
		if strings.Contains(lowered, phrase) {
			result.Verdict = VerdictWarn
			result.Reasons = append(result.Reasons, fmt.Sprintf("overreaching claim: %q", phrase))
		}
	}
	return result
}
