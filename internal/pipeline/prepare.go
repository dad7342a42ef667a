package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"postforge/internal/domain"
	"postforge/internal/policygate"
	"postforge/internal/providers/text"
	"postforge/internal/stage"
)

// prepared carries everything the shared pipeline prefix (policy fetch,
// text generation, safety screen, disclaimer) produced. When fatal is
// non-nil the run stops and returns it untouched.
type prepared struct {
	policy       domain.StylePolicy
	content      text.Content
	screen       policygate.ScreenResult
	errs         []StepError
	usedFallback bool
	fatal        *Result
}

func (o *Orchestrator) prepare(ctx context.Context, req Request, runID string, wantNarration bool) prepared {
	var p prepared

	// Policy fetch: a missing document is fatal, nothing else may run.
	policy, err := o.policies.GetPolicy(ctx, req.OwnerID)
	if err != nil {
		msg := "failed to load style policy"
		if errors.Is(err, domain.ErrNotFound) {
			msg = "complete onboarding before generating content"
		}
		o.logger.Warn().Err(err).Str("run_id", runID).Str("owner_id", req.OwnerID).Msg("policy fetch failed")
		p.fatal = &Result{
			Success: false,
			RunID:   runID,
			Errors:  []StepError{{Step: StepPolicy, Message: msg}},
		}
		return p
	}
	p.policy = *policy

	// Text generation: a missing credential degrades to deterministic mock
	// content; any other failure is fatal, there is nothing to compose.
	textReq := buildTextRequest(p.policy, req, wantNarration)
	res := o.textProvider.Complete(ctx, textReq)
	switch {
	case !res.OK && res.Class == stage.ClassNoCredential:
		p.content = text.MockContent(req.Topic, p.policy.NormalizedTone())
		p.usedFallback = true
		p.errs = append(p.errs, StepError{Step: StepText, Message: "no text credential configured, deterministic content substituted"})
	case !res.OK:
		o.logger.Error().Str("run_id", runID).Str("class", string(res.Class)).Str("err", res.Err).Msg("text generation failed")
		p.fatal = &Result{
			Success: false,
			RunID:   runID,
			Errors:  append(p.errs, StepError{Step: StepText, Message: fmt.Sprintf("%s: %s", res.Class, res.Err)}),
		}
		return p
	default:
		if err := json.Unmarshal([]byte(res.Payload), &p.content); err != nil {
			p.fatal = &Result{
				Success: false,
				RunID:   runID,
				Errors:  append(p.errs, StepError{Step: StepText, Message: fmt.Sprintf("%s: %v", stage.ClassParseError, err)}),
			}
			return p
		}
		p.usedFallback = p.usedFallback || res.UsedFallback
	}
	if strings.TrimSpace(p.content.Body) == "" {
		p.content.Body = p.content.Hook
	}

	// Safety screen: the gate is never a single point of failure; adapter
	// errors inside Screen already degrade to the lexical verdict.
	p.screen = o.gate.Screen(ctx, p.content.Body, p.policy)
	if p.screen.Verdict == policygate.VerdictWarn {
		p.errs = append(p.errs, StepError{
			Step:    StepScreen,
			Message: "screen verdict warn: " + strings.Join(p.screen.Reasons, "; "),
		})
	}

	// Disclaimer only runs on a pass verdict.
	if p.screen.Verdict == policygate.VerdictPass && wantsDisclaimer(req, p.policy) {
		p.content.Body = policygate.AppendDisclaimer(p.content.Body, p.policy)
	}
	return p
}

func wantsDisclaimer(req Request, policy domain.StylePolicy) bool {
	if req.WantDisclaimer {
		return true
	}
	switch policy.StyleGuide.DisclaimerPolicy {
	case domain.DisclaimerAlways, domain.DisclaimerConditional:
		return true
	}
	return false
}
