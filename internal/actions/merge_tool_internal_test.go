package actions

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCopyFileKeepsMode(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "merged")
	require.NoError(t, os.WriteFile(src, []byte("\tpatches.suse/a.patch\n"), 0600))
	require.NoError(t, os.Chmod(src, 0644)) //nolint:gosec // series files are world readable

	dst := src + ".merged1"
	require.NoError(t, copyFile(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "\tpatches.suse/a.patch\n", string(data))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0644), info.Mode().Perm())
}
