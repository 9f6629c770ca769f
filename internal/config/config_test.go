package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/benthaman/ksapply/internal/oracle"
)

// clearEnv hides repository settings of the machine running the tests.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"KSAPPLY_REPO", "GIT_DIR", "LINUX_GIT", "KSAPPLY_SERIES", "KSAPPLY_PATCHES_DIR", "KSAPPLY_INDEX"} {
		t.Setenv(name, "")
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(Options{Dirs: []string{t.TempDir()}})
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, "torvalds/linux", cfg.DefaultHead())
	require.Equal(t, "series.conf", cfg.SeriesPath())
}

func TestLoadFile(t *testing.T) {
	t.Run("yaml found in a search directory", func(t *testing.T) {
		clearEnv(t)
		dir := t.TempDir()
		writeFile(t, dir, ".ksapply.yaml", `
repo: /src/linux
patches_dir: /src/kernel-source
heads:
  - name: torvalds/linux
    ref: linus/master
  - name: davem/net-next
    ref: net-next/master
log:
  file: /tmp/ksapply.log
`)

		cfg, err := Load(Options{Dirs: []string{t.TempDir(), dir}})
		require.NoError(t, err)
		require.Equal(t, "/src/linux", cfg.Repo)
		require.Equal(t, "/src/kernel-source/series.conf", cfg.SeriesPath())
		require.Equal(t, []oracle.HeadRef{
			{Name: "torvalds/linux", Ref: "linus/master"},
			{Name: "davem/net-next", Ref: "net-next/master"},
		}, cfg.HeadRefs())
		require.Equal(t, "/tmp/ksapply.log", cfg.Log.File)
		require.Equal(t, 10, cfg.Log.MaxSize)
		require.Equal(t, Default().SortedMarkers, cfg.Markers().Sorted)
	})

	t.Run("json with comments", func(t *testing.T) {
		clearEnv(t)
		path := writeFile(t, t.TempDir(), "ksapply.jsonc", `{
  // where linux lives
  "repo": "/src/linux",
  "trailing_markers": ["# Wireless Networking", "# Staging"], /* two groups */
}`)

		cfg, err := Load(Options{File: path})
		require.NoError(t, err)
		require.Equal(t, "/src/linux", cfg.Repo)
		require.Equal(t, []string{"# Wireless Networking", "# Staging"}, cfg.TrailingMarkers)
	})

	t.Run("explicit file must exist", func(t *testing.T) {
		clearEnv(t)
		_, err := Load(Options{File: filepath.Join(t.TempDir(), "nope.yaml")})
		require.Error(t, err)
	})

	t.Run("invalid heads are rejected", func(t *testing.T) {
		clearEnv(t)
		path := writeFile(t, t.TempDir(), "bad.yaml", "heads:\n  - name: linux\n")
		_, err := Load(Options{File: path})
		require.ErrorContains(t, err, "needs both a name and a ref")
	})
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".ksapply.yaml", "repo: /from/file\nseries: file.conf\n")

	t.Run("LINUX_GIT is the last resort", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LINUX_GIT", "/from/linux_git")
		cfg, err := Load(Options{})
		require.NoError(t, err)
		require.Equal(t, "/from/linux_git", cfg.Repo)
	})

	t.Run("GIT_DIR wins over LINUX_GIT", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LINUX_GIT", "/from/linux_git")
		t.Setenv("GIT_DIR", "/from/git_dir")
		cfg, err := Load(Options{})
		require.NoError(t, err)
		require.Equal(t, "/from/git_dir", cfg.Repo)
	})

	t.Run("environment wins over the file", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("GIT_DIR", "/from/git_dir")
		t.Setenv("KSAPPLY_SERIES", "env.conf")
		cfg, err := Load(Options{Dirs: []string{dir}})
		require.NoError(t, err)
		require.Equal(t, "/from/git_dir", cfg.Repo)
		require.Equal(t, "env.conf", cfg.Series)
	})

	t.Run("flags win over everything", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("KSAPPLY_REPO", "/from/env")
		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.String("repo", "", "")
		flags.String("series", "", "")
		require.NoError(t, flags.Set("repo", "/from/flag"))

		cfg, err := Load(Options{Dirs: []string{dir}, Flags: flags})
		require.NoError(t, err)
		require.Equal(t, "/from/flag", cfg.Repo)
		require.Equal(t, "file.conf", cfg.Series)
	})
}

func TestYAML(t *testing.T) {
	out, err := Default().YAML()
	require.NoError(t, err)
	require.Contains(t, string(out), "series: series.conf")
	require.Contains(t, string(out), "- name: torvalds/linux")
	require.NotContains(t, string(out), "index:")
}
