package policygate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"postforge/internal/providers/text"
	"postforge/internal/stage"
)

// Completer is the slice of the text provider the semantic checker needs.
type Completer interface {
	Complete(ctx context.Context, req text.Request) stage.Result[string]
}

// TextChecker escalates a lexical warn to the text provider for a semantic
// re-check against the policy's forbidden-claim list.
type TextChecker struct {
	completer Completer
}

func NewTextChecker(completer Completer) *TextChecker {
	return &TextChecker{completer: completer}
}

type semanticPayload struct {
	Verdict        string   `json:"verdict"`
	Reasons        []string `json:"reasons"`
	SuggestedFixes []string `json:"suggested_fixes"`
}

func (t *TextChecker) Check(ctx context.Context, content string, forbidden []string) (ScreenResult, error) {
	res := t.completer.Complete(ctx, text.Request{
		System:      `You review social media copy for overreaching health claims. Respond strictly with JSON: {"verdict":"pass"|"warn","reasons":string[],"suggested_fixes":string[]}.`,
		User:        buildCheckPrompt(content, forbidden),
		Temperature: 0.1,
		MaxTokens:   400,
		WantJSON:    true,
	})
	if !res.OK {
		return ScreenResult{}, fmt.Errorf("semantic check: %s (%s)", res.Err, res.Class)
	}
	var payload semanticPayload
	if err := json.Unmarshal([]byte(res.Payload), &payload); err != nil {
		return ScreenResult{}, fmt.Errorf("semantic check: decode verdict: %w", err)
	}
	verdict := VerdictWarn
	if strings.EqualFold(strings.TrimSpace(payload.Verdict), string(VerdictPass)) {
		verdict = VerdictPass
	}
	return ScreenResult{
		Verdict:        verdict,
		Reasons:        payload.Reasons,
		SuggestedFixes: payload.SuggestedFixes,
	}, nil
}

func buildCheckPrompt(content string, forbidden []string) string {
	sb := &strings.Builder{}
	sb.WriteString("Check the following text for absolute-cure language, guarantees and miracle claims.")
	if len(forbidden) > 0 {
		fmt.Fprintf(sb, " The owner additionally forbids these claims: %s.", strings.Join(forbidden, "; "))
	}
	sb.WriteString("\n\nText:\n")
	sb.WriteString(content)
	return sb.String()
}

var _ SemanticChecker = (*TextChecker)(nil)
