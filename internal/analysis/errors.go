package analysis

import (
	"fmt"
	"strings"
)

// AnalysisUnavailableError indicates the external analysis service could not
// be reached within the bounded attempt count. The request is preserved so
// the caller can retry it manually; it is never dropped.
type AnalysisUnavailableError struct {
	Kind        string
	ContentHash string
	Payload     string
	Attempts    int
	Cause       error
}

func (e *AnalysisUnavailableError) Error() string {
	return fmt.Sprintf("analysis unavailable for %s after %d attempts: %v",
		e.Kind, e.Attempts, e.Cause)
}

func (e *AnalysisUnavailableError) Unwrap() error {
	return e.Cause
}

// UnknownKindError indicates an invocation kind outside the supported set.
type UnknownKindError struct {
	Kind string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown analysis kind: %q", e.Kind)
}

// InvalidResultError indicates the service responded but the payload failed
// schema validation or decoding. Not retried: the same input would produce
// the same malformed output.
type InvalidResultError struct {
	Kind    string
	Message string
	Cause   error
}

func (e *InvalidResultError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("invalid %s result: %s", e.Kind, e.Message))
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

func (e *InvalidResultError) Unwrap() error {
	return e.Cause
}
