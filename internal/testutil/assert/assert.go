// Package assert provides two test helpers for checking yerr diagnostic
// text without brittle exact-string matching, adapted from the
// teacher's testutils/assert package (same shape, trimmed to
// ExpectedError/ExpectedMessages — the teacher's ContainedInAny and
// CheckStringDivergence helpers are not carried over). No test in this
// module imports it; the existing tests check (*yerr.Error).Kind()
// directly.
package assert

import (
	"strings"
	"testing"
)

type expectedError struct {
	substr string
}

// ExpectedError returns a matcher asserting an error occurred and its
// message contains substr.
func ExpectedError(substr string) *expectedError {
	return &expectedError{substr: substr}
}

func (e *expectedError) Matches(t *testing.T, actual error) {
	t.Helper()
	if actual == nil {
		t.Fatalf("expected an error containing %q, got success", e.substr)
		return
	}
	if !strings.Contains(actual.Error(), e.substr) {
		t.Fatalf("error message doesn't contain expected text:\nExp substr: %s\nAct:        %s", e.substr, actual.Error())
	}
}

type expectedMessages struct {
	expected []string
}

// ExpectedMessages returns a matcher over a set of substrings.
func ExpectedMessages(expect ...string) *expectedMessages {
	return &expectedMessages{expected: expect}
}

func (e *expectedMessages) ContainedIn(t *testing.T, actual string) {
	t.Helper()
	if len(actual) == 0 {
		t.Fatalf("no output in which to search for expected message(s)")
		return
	}
	for _, exp := range e.expected {
		if !strings.Contains(actual, exp) {
			t.Fatalf("actual output doesn't contain expected text:\nExp: %s\nAct: %s", exp, actual)
		}
	}
}

func (e *expectedMessages) NotContainedIn(t *testing.T, actual string) {
	t.Helper()
	for _, exp := range e.expected {
		if strings.Contains(actual, exp) {
			t.Fatalf("actual output contains unexpected text:\nNotExp: %s\nAct: %s", exp, actual)
		}
	}
}
