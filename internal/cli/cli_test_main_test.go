package cli_test

import (
	"testing"

	"github.com/benthaman/ksapply/testhelpers"
)

// getKsapplyBinary returns the path to the shared ksapply binary.
func getKsapplyBinary(t *testing.T) string {
	t.Helper()
	return testhelpers.RequireBinary(t)
}
