package main

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	ksaerrors "github.com/benthaman/ksapply/internal/errors"
)

func TestExitCode(t *testing.T) {
	require.Equal(t, 0, exitCode(nil))
	require.Equal(t, 2, exitCode(ksaerrors.ErrNothingToDo))
	require.Equal(t, 2, exitCode(fmt.Errorf("dupcheck: %w", ksaerrors.ErrAlreadyPresent)))
	require.Equal(t, 1, exitCode(ksaerrors.NewMissingProvenanceError("a.patch")))
	require.Equal(t, 1, exitCode(fmt.Errorf("boom")))
}
