package output

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
)

func TestSplog(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	t.Run("results and diagnostics go to separate streams", func(t *testing.T) {
		var out, errOut bytes.Buffer
		s, err := NewSplogWithConfig(&out, &errOut, false, LogFile{})
		require.NoError(t, err)

		s.Info("push %d", 3)
		s.Warn("%d commits removed in remote but not present in local, ignoring", 2)
		s.Error("boom")
		s.Debug("hidden")
		s.Page("\tpatches.suse/a.patch\n")

		require.Equal(t, "push 3\n\tpatches.suse/a.patch\n", out.String())
		require.Equal(t, "Warning: 2 commits removed in remote but not present in local, ignoring\nError: boom\n", errOut.String())
		require.NoError(t, s.Close())
	})

	t.Run("debug mode shows debug messages", func(t *testing.T) {
		var out, errOut bytes.Buffer
		s, err := NewSplogWithConfig(&out, &errOut, true, LogFile{})
		require.NoError(t, err)
		s.Debug("resolved %s", "abc")
		require.Equal(t, "resolved abc\n", out.String())
	})

	t.Run("log file gets everything", func(t *testing.T) {
		var out, errOut bytes.Buffer
		path := filepath.Join(t.TempDir(), "logs", "ksapply.log")
		s, err := NewSplogWithConfig(&out, &errOut, false, LogFile{Path: path, MaxSize: 1})
		require.NoError(t, err)

		s.Info("pop 1")
		s.Debug("quilt top returned nothing")
		require.NoError(t, s.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.Contains(t, string(data), `msg="pop 1"`)
		require.Contains(t, string(data), "level=DEBUG")
		require.Contains(t, string(data), `msg="quilt top returned nothing"`)
		require.Equal(t, "pop 1\n", out.String())
	})
}

func TestStyles(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	require.Equal(t, "patches.suse/a.patch", ColorPatch("patches.suse/a.patch"))
	require.Equal(t, "push 2", ColorMove("push 2"))
	require.Equal(t, "0123456789ab", ShortCommit("0123456789abcdef0123456789abcdef01234567"))
	require.Equal(t, "abc", ShortCommit("abc"))
}
