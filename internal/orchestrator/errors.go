package orchestrator

import "fmt"

// PartialError reports a pass that was interrupted by the caller's context
// after some units had already replied. The replies returned alongside it are
// the completed ones, in unit order.
type PartialError struct {
	Completed int
	Total     int
	Err       error
}

// Error implements the error interface.
func (e *PartialError) Error() string {
	return fmt.Sprintf("generation pass interrupted after %d of %d units: %v", e.Completed, e.Total, e.Err)
}

// Unwrap returns the context error that interrupted the pass.
func (e *PartialError) Unwrap() error {
	return e.Err
}
