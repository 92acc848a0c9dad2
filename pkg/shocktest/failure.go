package shocktest

import (
	"errors"
	"fmt"
	"runtime"
)

// Failure is the recognized failure signal. Assertion helpers panic with a
// *Failure carrying a description of the violated expectation.
type Failure struct {
	Message string
}

// Error implements the error interface.
func (f *Failure) Error() string {
	return f.Message
}

// Fail aborts the current test case with a recognized failure.
func Fail(message string) {
	panic(&Failure{Message: message})
}

// Failf is Fail with a format string.
func Failf(format string, args ...any) {
	panic(&Failure{Message: fmt.Sprintf(format, args...)})
}

// Outcome classifies how a test body finished.
type Outcome int

const (
	// OutcomeCompleted means the body returned without raising anything.
	OutcomeCompleted Outcome = iota
	// OutcomeFailure means the body raised a recognized failure signal.
	OutcomeFailure
	// OutcomeUnknown means the body raised something that is not a
	// recognized failure (a runtime fault, or a panic with an arbitrary value).
	OutcomeUnknown
)

// unknownErrorMessage is reported for OutcomeUnknown.
const unknownErrorMessage = "unknown error"

// String returns the outcome name used in reports.
func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeFailure:
		return "failure"
	case OutcomeUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// MarshalText encodes the outcome by name.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText decodes an outcome name produced by MarshalText.
func (o *Outcome) UnmarshalText(text []byte) error {
	switch string(text) {
	case "completed":
		*o = OutcomeCompleted
	case "failure":
		*o = OutcomeFailure
	case "unknown":
		*o = OutcomeUnknown
	default:
		return fmt.Errorf("unknown outcome %q", text)
	}
	return nil
}

// invoke runs fn and recovers any panic it raises.
// The message is empty for OutcomeCompleted.
func invoke(fn func()) (outcome Outcome, message string) {
	defer func() {
		if r := recover(); r != nil {
			outcome, message = classify(r)
		}
	}()

	fn()
	return OutcomeCompleted, ""
}

// classify maps a recovered panic value onto the signal taxonomy.
//
// Errors and strings carry a human-readable message and are recognized
// failures. Runtime faults (nil dereference, index out of range, ...) are
// errors too, but they are lower-level faults and are reported as unknown,
// as is any other panic value.
func classify(r any) (Outcome, string) {
	switch v := r.(type) {
	case error:
		return classifyError(v)
	case string:
		return OutcomeFailure, v
	default:
		return OutcomeUnknown, unknownErrorMessage
	}
}

// classifyError runs inside invoke's deferred recover, so a panic raised by
// the error's own methods (a typed nil pointer, a broken Error or Unwrap)
// would escape the case. Such errors are reported as unknown.
func classifyError(err error) (outcome Outcome, message string) {
	defer func() {
		if recover() != nil {
			outcome, message = OutcomeUnknown, unknownErrorMessage
		}
	}()

	var rtErr runtime.Error
	if errors.As(err, &rtErr) {
		return OutcomeUnknown, unknownErrorMessage
	}
	return OutcomeFailure, err.Error()
}
