package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"
)

// RetryingClient wraps a flaky generation session with session renewal and a
// bounded retry policy. It is safe for concurrent use; every Call owns its
// own session.
type RetryingClient struct {
	opener SessionOpener
	policy RetryPolicy
	logger *slog.Logger
}

// NewRetryingClient creates a client that opens sessions with opener and
// retries according to policy.
func NewRetryingClient(opener SessionOpener, policy RetryPolicy, logger *slog.Logger) (*RetryingClient, error) {
	if opener == nil {
		return nil, errors.New("session opener cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &RetryingClient{
		opener: opener,
		policy: policy,
		logger: logger.With("component", "retrying_generation_client"),
	}, nil
}

// Call sends prompt until a non-empty reply is obtained.
//
// Each attempt runs under its own timeout. On any failure the session is
// dropped and a fresh one is opened for the next attempt, which reuses the
// same prompt and timeout. Content blocked by safety filters and invalid
// configuration (e.g. a rejected API key) are returned immediately. When the
// attempts or the policy deadline run out, or ctx is cancelled, the returned
// error wraps ErrGenerationUnavailable and the last failure.
//
// The policy deadline never cuts an attempt short: when timeout exceeds it,
// the call is bounded by timeout instead.
func (c *RetryingClient) Call(ctx context.Context, prompt string, timeout time.Duration) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	if deadline := c.policy.callDeadline(timeout); deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, deadline)
		defer cancel()
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	var (
		session Session
		lastErr error
	)

	for attempt := 0; !c.policy.exhausted(attempt); attempt++ {
		attemptNum := attempt + 1

		if session == nil {
			s, err := c.opener.Open(ctx)
			if err != nil {
				lastErr = fmt.Errorf("open session: %w", err)
			} else {
				session = s
			}
		}

		if session != nil {
			c.logger.DebugContext(ctx, "Sending prompt to generation service",
				"attempt", attemptNum,
				"prompt_length", len(prompt),
				"timeout", timeout)

			reply, err := c.send(ctx, session, prompt, timeout)
			if err == nil {
				if attempt > 0 {
					c.logger.InfoContext(ctx, "Generation call succeeded after retry", "attempt", attemptNum)
				}
				return reply, nil
			}
			if isPermanent(err) {
				c.logger.WarnContext(ctx, "Permanent error occurred, not retrying", "error", err)
				return "", err
			}
			lastErr = err
			// Renew the session on the next attempt.
			session = nil
		}

		c.logger.WarnContext(ctx, "Generation attempt failed",
			"attempt", attemptNum,
			"max_attempts", c.policy.MaxAttempts,
			"error", lastErr)

		if ctx.Err() != nil {
			return "", c.unavailable(ctx, attemptNum, lastErr)
		}
		if c.policy.exhausted(attemptNum) {
			break
		}

		delay := c.policy.Delay(attempt, rng)
		if delay <= 0 {
			continue
		}
		c.logger.DebugContext(ctx, "Retrying after delay", "attempt", attemptNum, "delay", delay)

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return "", c.unavailable(ctx, attemptNum, lastErr)
		}
	}

	c.logger.ErrorContext(ctx, "Maximum generation attempts reached",
		"max_attempts", c.policy.MaxAttempts,
		"error", lastErr)
	return "", fmt.Errorf("%w: exceeded maximum attempts (%d): %w",
		ErrGenerationUnavailable, c.policy.MaxAttempts, lastErr)
}

func (c *RetryingClient) send(ctx context.Context, session Session, prompt string, timeout time.Duration) (string, error) {
	attemptCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	reply, err := session.Send(attemptCtx, prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(reply) == "" {
		return "", ErrEmptyReply
	}
	return reply, nil
}

func (c *RetryingClient) unavailable(ctx context.Context, attempts int, lastErr error) error {
	c.logger.WarnContext(ctx, "Generation call cancelled",
		"attempts", attempts,
		"ctx_err", ctx.Err())
	if lastErr == nil {
		return fmt.Errorf("%w: %w", ErrGenerationUnavailable, ctx.Err())
	}
	return fmt.Errorf("%w: %w after %d attempts: %w", ErrGenerationUnavailable, ctx.Err(), attempts, lastErr)
}

func isPermanent(err error) bool {
	return errors.Is(err, ErrContentBlocked) || errors.Is(err, ErrInvalidConfig)
}
