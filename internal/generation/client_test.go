package generation_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/intelliexam/exam-api/internal/domain"
	"github.com/intelliexam/exam-api/internal/generation"
	"github.com/intelliexam/exam-api/internal/mocks"
	"github.com/intelliexam/exam-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy(maxAttempts int) generation.RetryPolicy {
	return generation.RetryPolicy{
		MaxAttempts: maxAttempts,
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
		Multiplier:  2,
		Jitter:      true,
	}
}

func newClient(t *testing.T, opener generation.SessionOpener, policy generation.RetryPolicy) *generation.RetryingClient {
	t.Helper()
	log, _ := logger.GetTestLogger(t)
	client, err := generation.NewRetryingClient(opener, policy, log)
	require.NoError(t, err)
	return client
}

func TestRetryingClient_FirstAttemptSucceeds(t *testing.T) {
	t.Parallel()

	session := &mocks.MockSession{Reply: `{"Output":[]}`}
	opener := &mocks.MockSessionOpener{Session: session}
	client := newClient(t, opener, fastPolicy(3))

	reply, err := client.Call(context.Background(), "prompt", time.Second)

	require.NoError(t, err)
	assert.Equal(t, `{"Output":[]}`, reply)
	assert.Equal(t, 1, opener.OpenCount())
	assert.Equal(t, []string{"prompt"}, session.Prompts())
}

func TestRetryingClient_RenewsSessionAfterFailure(t *testing.T) {
	t.Parallel()

	var opened int32
	var sessions []*mocks.MockSession
	opener := &mocks.MockSessionOpener{
		OpenFn: func(ctx context.Context) (generation.Session, error) {
			n := atomic.AddInt32(&opened, 1)
			s := &mocks.MockSession{Reply: "reply"}
			switch n {
			case 1:
				s = &mocks.MockSession{Err: errors.New("session expired")}
			case 2:
				// Blank replies count as failures.
				s = &mocks.MockSession{Reply: "  \n"}
			}
			sessions = append(sessions, s)
			return s, nil
		},
	}
	client := newClient(t, opener, fastPolicy(5))

	reply, err := client.Call(context.Background(), "same prompt", time.Second)

	require.NoError(t, err)
	assert.Equal(t, "reply", reply)
	assert.Equal(t, 3, opener.OpenCount(), "every failed attempt should open a fresh session")
	require.Len(t, sessions, 3)
	for _, s := range sessions {
		assert.Equal(t, []string{"same prompt"}, s.Prompts(), "each session receives the same prompt once")
	}
}

func TestRetryingClient_OpenFailureIsRetried(t *testing.T) {
	t.Parallel()

	var calls int32
	opener := &mocks.MockSessionOpener{
		OpenFn: func(ctx context.Context) (generation.Session, error) {
			if atomic.AddInt32(&calls, 1) == 1 {
				return nil, errors.New("connection refused")
			}
			return &mocks.MockSession{Reply: "ok"}, nil
		},
	}
	client := newClient(t, opener, fastPolicy(2))

	reply, err := client.Call(context.Background(), "prompt", time.Second)

	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
}

func TestRetryingClient_ExhaustsMaxAttempts(t *testing.T) {
	t.Parallel()

	transportErr := errors.New("transport failure")
	opener := &mocks.MockSessionOpener{
		OpenFn: func(ctx context.Context) (generation.Session, error) {
			return &mocks.MockSession{Err: transportErr}, nil
		},
	}
	client := newClient(t, opener, fastPolicy(3))

	_, err := client.Call(context.Background(), "prompt", time.Second)

	require.Error(t, err)
	assert.ErrorIs(t, err, generation.ErrGenerationUnavailable)
	assert.ErrorIs(t, err, domain.ErrGenerationUnavailable)
	assert.ErrorIs(t, err, transportErr)
	assert.Equal(t, 3, opener.OpenCount())
}

func TestRetryingClient_UnlimitedAttemptsStopAtDeadline(t *testing.T) {
	t.Parallel()

	opener := &mocks.MockSessionOpener{Err: errors.New("service down")}
	policy := fastPolicy(0)
	policy.Deadline = 50 * time.Millisecond
	client := newClient(t, opener, policy)

	start := time.Now()
	_, err := client.Call(context.Background(), "prompt", 10*time.Millisecond)

	require.Error(t, err)
	assert.ErrorIs(t, err, generation.ErrGenerationUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Greater(t, opener.OpenCount(), 1)
}

func TestRetryingClient_AttemptBudgetOutlastsDeadline(t *testing.T) {
	t.Parallel()

	session := &mocks.MockSession{
		SendFn: func(ctx context.Context, prompt string) (string, error) {
			select {
			case <-time.After(150 * time.Millisecond):
				return `{"Output":[]}`, nil
			case <-ctx.Done():
				return "", ctx.Err()
			}
		},
	}
	opener := &mocks.MockSessionOpener{Session: session}
	policy := fastPolicy(3)
	policy.Deadline = 100 * time.Millisecond
	client := newClient(t, opener, policy)

	budget := generation.TimeoutBudget{Base: 90 * time.Millisecond, PerItem: 20 * time.Millisecond}
	reply, err := client.Call(context.Background(), "prompt", budget.For(5))

	require.NoError(t, err, "a reply inside the attempt budget must not be cut off by the policy deadline")
	assert.Equal(t, `{"Output":[]}`, reply)
	assert.Equal(t, 1, opener.OpenCount())
}

func TestRetryingClient_ContentBlockedIsNotRetried(t *testing.T) {
	t.Parallel()

	opener := &mocks.MockSessionOpener{
		Session: &mocks.MockSession{Err: generation.ErrContentBlocked},
	}
	client := newClient(t, opener, fastPolicy(5))

	_, err := client.Call(context.Background(), "prompt", time.Second)

	assert.ErrorIs(t, err, generation.ErrContentBlocked)
	assert.NotErrorIs(t, err, generation.ErrGenerationUnavailable)
	assert.Equal(t, 1, opener.OpenCount())
}

func TestRetryingClient_PerAttemptTimeout(t *testing.T) {
	t.Parallel()

	var attempts int32
	session := &mocks.MockSession{
		SendFn: func(ctx context.Context, prompt string) (string, error) {
			if atomic.AddInt32(&attempts, 1) == 1 {
				<-ctx.Done()
				return "", ctx.Err()
			}
			return "late but fine", nil
		},
	}
	opener := &mocks.MockSessionOpener{Session: session}
	client := newClient(t, opener, fastPolicy(2))

	reply, err := client.Call(context.Background(), "prompt", 20*time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, "late but fine", reply)
	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts))
}

func TestRetryingClient_CallerCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	session := &mocks.MockSession{
		SendFn: func(ctx context.Context, prompt string) (string, error) {
			cancel()
			<-ctx.Done()
			return "", ctx.Err()
		},
	}
	opener := &mocks.MockSessionOpener{Session: session}
	client := newClient(t, opener, fastPolicy(10))

	_, err := client.Call(ctx, "prompt", time.Second)

	assert.ErrorIs(t, err, generation.ErrGenerationUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, opener.OpenCount())
}

func TestRetryingClient_EmptyPrompt(t *testing.T) {
	t.Parallel()

	opener := &mocks.MockSessionOpener{}
	client := newClient(t, opener, fastPolicy(1))

	_, err := client.Call(context.Background(), "   ", time.Second)

	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Zero(t, opener.OpenCount())
}

func TestNewRetryingClient_Validation(t *testing.T) {
	t.Parallel()

	log, _ := logger.GetTestLogger(t)
	opener := &mocks.MockSessionOpener{}

	_, err := generation.NewRetryingClient(nil, fastPolicy(1), log)
	assert.Error(t, err)

	_, err = generation.NewRetryingClient(opener, fastPolicy(1), nil)
	assert.Error(t, err)

	_, err = generation.NewRetryingClient(opener, fastPolicy(0), log)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig, "unlimited attempts without deadline must be rejected")
}
