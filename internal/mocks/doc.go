// Package mocks provides hand-written test doubles for the generation
// pipeline's boundaries: generation sessions and clients, the reference
// retriever and the question service.
//
// Each mock takes an optional function field that overrides its behaviour
// and otherwise returns the configured default values. Calls are recorded so
// tests can assert on what was sent:
//
//	client := &mocks.MockGenerationClient{
//	    CallFn: func(ctx context.Context, prompt string, timeout time.Duration) (string, error) {
//	        return `{"Output": []}`, nil
//	    },
//	}
//	...
//	assert.Len(t, client.RecordedPrompts(), 3)
//
// Mocks are safe for use from concurrent goroutines.
package mocks
