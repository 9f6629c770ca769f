// Package testhelpers provides testing utilities for ksapply, including a
// scene system, Git repository helpers, and custom assertions.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Must is a generic helper function that panics if err is not nil,
// otherwise returns the value. This is useful for test setup code
// where errors are not expected and should halt execution immediately.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// ExpectSorted asserts that the sorted section of series.conf in the scene
// lists exactly the expected patches, in order.
func ExpectSorted(t *testing.T, scene *Scene, expected []string) {
	t.Helper()

	text, err := scene.ReadFile("series.conf")
	require.NoError(t, err, "Failed to read series.conf")

	var actual []string
	inside := false
	for _, line := range strings.Split(text, "\n") {
		field := strings.TrimSpace(line)
		switch {
		case field == "# sorted patches":
			inside = true
		case field == "# Wireless Networking":
			inside = false
		case inside && field != "" && !strings.HasPrefix(field, "#"):
			actual = append(actual, field)
		}
	}

	require.Equal(t, expected, actual, "Sorted patches do not match")
}
