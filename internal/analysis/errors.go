package analysis

import "fmt"

// UpstreamError reports a failed call to the model.
type UpstreamError struct {
	Message string
	Cause   error
}

func (e *UpstreamError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("upstream error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("upstream error: %s", e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}
