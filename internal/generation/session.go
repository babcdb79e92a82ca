package generation

import (
	"context"
	"time"
)

// Session is one conversation with the generation service.
// Send may fail at any time with a transport, timeout or expired-session error.
type Session interface {
	Send(ctx context.Context, prompt string) (string, error)
}

// SessionOpener establishes fresh sessions. A session that failed is never
// reused; the client opens a new one for the next attempt.
type SessionOpener interface {
	Open(ctx context.Context) (Session, error)
}

// Client issues one prompt and returns the raw reply text.
// RetryingClient is the production implementation.
type Client interface {
	Call(ctx context.Context, prompt string, timeout time.Duration) (string, error)
}
