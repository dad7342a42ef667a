package policygate

import (
	"strings"

	"postforge/internal/domain"
)

// Disclaimer is the fixed sentence appended to published copy. It doubles
// as the idempotency marker: text already carrying it is never touched.
const Disclaimer = "This content is for general information only and is not a substitute for professional medical advice."

// AppendDisclaimer attaches the disclaimer sentence. It is idempotent for
// any input and any policy; "conditional" and "always" both collapse to a
// single append today.
func AppendDisclaimer(text string, policy domain.StylePolicy) string {
	if strings.Contains(text, Disclaimer) {
		return text
	}
	trimmed := strings.TrimRight(text, " \n\t")
	if trimmed == "" {
		return Disclaimer
	}
	return trimmed + "\n\n" + Disclaimer
}
