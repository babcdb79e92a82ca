package generation

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// RetryPolicy bounds the retry loop of RetryingClient.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts including the first one.
	// Zero means unlimited and is only accepted together with a positive
	// Deadline and BaseDelay.
	MaxAttempts int

	// BaseDelay is the wait before the second attempt. Zero disables backoff.
	BaseDelay time.Duration

	// MaxDelay caps a single backoff wait. Zero means no cap.
	MaxDelay time.Duration

	// Multiplier grows the delay between consecutive attempts.
	Multiplier float64

	// Jitter scales each delay by a random factor in [0.5, 1.0).
	Jitter bool

	// Deadline bounds the wall-clock time spent in one Call, across all attempts.
	// Zero means no deadline beyond the caller's context.
	Deadline time.Duration
}

// callDeadline is the wall-clock bound of one Call whose attempts each get
// timeout. It is zero when the policy has no deadline.
func (p RetryPolicy) callDeadline(timeout time.Duration) time.Duration {
	if p.Deadline <= 0 {
		return 0
	}
	return max(p.Deadline, timeout)
}

// DefaultRetryPolicy returns the policy used when nothing is configured.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 5,
		BaseDelay:   2 * time.Second,
		MaxDelay:    30 * time.Second,
		Multiplier:  2,
		Jitter:      true,
		Deadline:    10 * time.Minute,
	}
}

// Validate rejects policies that could block forever or make no attempt.
func (p RetryPolicy) Validate() error {
	if p.MaxAttempts < 0 {
		return fmt.Errorf("%w: max attempts cannot be negative (%d)", ErrInvalidConfig, p.MaxAttempts)
	}
	if p.MaxAttempts == 0 && (p.Deadline <= 0 || p.BaseDelay <= 0) {
		return fmt.Errorf("%w: unlimited attempts require a positive deadline and base delay", ErrInvalidConfig)
	}
	if p.BaseDelay < 0 || p.MaxDelay < 0 || p.Deadline < 0 {
		return fmt.Errorf("%w: durations cannot be negative", ErrInvalidConfig)
	}
	if p.Multiplier < 1 {
		return fmt.Errorf("%w: multiplier must be at least 1 (%g)", ErrInvalidConfig, p.Multiplier)
	}
	return nil
}

// Delay returns the wait after the given zero-based failed attempt.
// delay = base * multiplier^attempt, scaled by (0.5 + rand*0.5) when jitter is on.
func (p RetryPolicy) Delay(attempt int, rng *rand.Rand) time.Duration {
	if p.BaseDelay <= 0 {
		return 0
	}
	backoff := float64(p.BaseDelay) * math.Pow(p.Multiplier, float64(attempt))
	if p.MaxDelay > 0 && backoff > float64(p.MaxDelay) {
		backoff = float64(p.MaxDelay)
	}
	if p.Jitter && rng != nil {
		backoff *= 0.5 + rng.Float64()*0.5
	}
	return time.Duration(backoff)
}

func (p RetryPolicy) exhausted(attempt int) bool {
	return p.MaxAttempts > 0 && attempt >= p.MaxAttempts
}

// TimeoutBudget computes the per-call timeout for a request of count questions.
// Larger batches take longer to generate, so the budget grows linearly.
type TimeoutBudget struct {
	Base    time.Duration
	PerItem time.Duration
}

// DefaultTimeoutBudget is 90 seconds plus 20 seconds per question.
func DefaultTimeoutBudget() TimeoutBudget {
	return TimeoutBudget{Base: 90 * time.Second, PerItem: 20 * time.Second}
}

// For returns Base + PerItem*count.
func (b TimeoutBudget) For(count int) time.Duration {
	return b.Base + time.Duration(count)*b.PerItem
}
