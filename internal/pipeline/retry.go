package pipeline

import (
	"time"

	"postforge/internal/stage"
)

// RetryBudget bounds one stage-item invocation: at most MaxAttempts full
// adapter calls with a fixed Delay between attempts. The budget lives only
// for the duration of one stage invocation and is independent of the
// adapter's own internal single retry.
type RetryBudget struct {
	MaxAttempts int
	Delay       time.Duration
}

var DefaultRetryBudget = RetryBudget{MaxAttempts: 3, Delay: 2 * time.Second}

// retryStage drives one budget. Terminal classifications (missing
// credential, parse failures, plain 4xx) stop immediately; everything else
// burns the full budget before the stage degrades.
func retryStage[T any](budget RetryBudget, sleep func(time.Duration), call func() stage.Result[T]) stage.Result[T] {
	var last stage.Result[T]
	for attempt := 1; attempt <= budget.MaxAttempts; attempt++ {
		last = call()
		if last.OK || last.Class.Terminal() {
			return last
		}
		if attempt < budget.MaxAttempts {
			sleep(budget.Delay)
		}
	}
	return last
}
