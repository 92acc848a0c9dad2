package shocktest

import (
	"cmp"
	"fmt"
	"strings"

	gocmp "github.com/google/go-cmp/cmp"
)

// Assertion helpers raise a *Failure when their expectation does not hold.
// Every argument is an ordinary Go value, so each side is evaluated exactly
// once by the caller regardless of the outcome.
//
// The Expect and Assert families behave the same way: both end the current
// case on the first violated expectation.

// describe renders optional message arguments. A leading format string is
// applied to the remaining arguments.
func describe(msgAndArgs []any) string {
	if len(msgAndArgs) == 0 {
		return ""
	}
	if format, ok := msgAndArgs[0].(string); ok {
		return ": " + fmt.Sprintf(format, msgAndArgs[1:]...)
	}
	return ": " + fmt.Sprint(msgAndArgs...)
}

// ExpectTrue fails when cond is false.
func ExpectTrue(cond bool, msgAndArgs ...any) {
	if !cond {
		Fail("ExpectTrue failed" + describe(msgAndArgs))
	}
}

// ExpectFalse fails when cond is true.
func ExpectFalse(cond bool, msgAndArgs ...any) {
	if cond {
		Fail("ExpectFalse failed: evaluated to true" + describe(msgAndArgs))
	}
}

// ExpectEq fails when actual != expected.
func ExpectEq[T comparable](actual, expected T, msgAndArgs ...any) {
	if actual != expected {
		Failf("ExpectEq failed: expected %v, got %v%s", expected, actual, describe(msgAndArgs))
	}
}

// ExpectNe fails when a == b.
func ExpectNe[T comparable](a, b T, msgAndArgs ...any) {
	if a == b {
		Failf("ExpectNe failed: both sides are %v%s", a, describe(msgAndArgs))
	}
}

// ExpectGe fails unless a >= b.
func ExpectGe[T cmp.Ordered](a, b T, msgAndArgs ...any) {
	if !(a >= b) {
		Failf("ExpectGe failed: %v < %v%s", a, b, describe(msgAndArgs))
	}
}

// ExpectGt fails unless a > b.
func ExpectGt[T cmp.Ordered](a, b T, msgAndArgs ...any) {
	if !(a > b) {
		Failf("ExpectGt failed: %v is not greater than %v%s", a, b, describe(msgAndArgs))
	}
}

// ExpectDeepEq compares structured values and reports a diff on mismatch.
func ExpectDeepEq(actual, expected any, opts ...gocmp.Option) {
	if diff := gocmp.Diff(expected, actual, opts...); diff != "" {
		Failf("ExpectDeepEq failed (-expected +actual):\n%s", diff)
	}
}

// ExpectNoPanic fails when fn panics.
func ExpectNoPanic(fn func()) {
	switch outcome, message := invoke(fn); outcome {
	case OutcomeFailure:
		Fail("Unexpected panic: " + message)
	case OutcomeUnknown:
		Fail("Unexpected unknown panic")
	}
}

// ExpectPanic fails unless fn panics.
func ExpectPanic(fn func()) {
	if outcome, _ := invoke(fn); outcome == OutcomeCompleted {
		Fail("Expected panic but none occurred")
	}
}

// ExpectPanicMsg fails unless fn panics with a message containing substr.
// A panic without a readable message counts as a panic but is not matched.
func ExpectPanicMsg(fn func(), substr string) {
	outcome, message := invoke(fn)
	switch outcome {
	case OutcomeCompleted:
		Fail("Expected panic but none occurred")
	case OutcomeFailure:
		if !strings.Contains(message, substr) {
			Failf("Panic message mismatch. Got: %q, expected to contain: %q", message, substr)
		}
	}
}

// AssertTrue ends the case when cond is false.
func AssertTrue(cond bool, msgAndArgs ...any) {
	if !cond {
		Fail("AssertTrue failed" + describe(msgAndArgs))
	}
}

// AssertEq ends the case when actual != expected.
func AssertEq[T comparable](actual, expected T, msgAndArgs ...any) {
	if actual != expected {
		Failf("AssertEq failed: expected %v, got %v%s", expected, actual, describe(msgAndArgs))
	}
}

// AssertGt ends the case unless a > b.
func AssertGt[T cmp.Ordered](a, b T, msgAndArgs ...any) {
	if !(a > b) {
		Failf("AssertGt failed: %v <= %v%s", a, b, describe(msgAndArgs))
	}
}
