package cli_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benthaman/ksapply/internal/cli"
	"github.com/benthaman/ksapply/testhelpers"
	"github.com/benthaman/ksapply/testhelpers/scenario"
)

const (
	header = "patches.kernel.org/patch-4.12.1"
	pa     = "patches.suse/a.patch"
	pb     = "patches.suse/b.patch"
	pc     = "patches.suse/c.patch"
)

func newScenario(t *testing.T) (*scenario.Scenario, []string) {
	t.Helper()
	s := scenario.NewScenario(t, nil)
	commits := s.Commits("one", "two", "three")
	s.WithPatches(
		testhelpers.Patch{Name: header},
		testhelpers.Patch{Name: pa, Commit: commits[0]},
		testhelpers.Patch{Name: pb, Commit: commits[1]},
		testhelpers.Patch{Name: pc, Commit: commits[2]},
	)
	return s.WithBinaryPath(getKsapplyBinary(t)), commits
}

// execute runs the root command in process.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := cli.NewRootCmd("1.2.3", "abc", "today")
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	require.Equal(t, "ksapply 1.2.3 (commit abc, built today)\n", out)
}

func TestConfigCommand(t *testing.T) {
	s := scenario.NewScenario(t, nil)
	t.Setenv("HOME", s.Scene.Dir)
	t.Setenv("KSAPPLY_REPO", "")
	t.Setenv("GIT_DIR", "")
	t.Setenv("LINUX_GIT", s.Scene.Upstream.Dir)
	require.NoError(t, s.Scene.WriteFile(".ksapply.yaml", "series: other.conf\n"))

	out, _, err := execute(t, "", "config", "--patches-dir", "/srv/kernel-source")
	require.NoError(t, err)
	require.Contains(t, out, "repo: "+s.Scene.Upstream.Dir+"\n")
	require.Contains(t, out, "series: other.conf\n")
	require.Contains(t, out, "patches_dir: /srv/kernel-source\n")
}

func TestSortCommand(t *testing.T) {
	s, _ := newScenario(t)
	t.Setenv("HOME", s.Scene.Dir)
	t.Setenv("KSAPPLY_REPO", s.Scene.Upstream.Dir)
	t.Setenv("KSAPPLY_PATCHES_DIR", s.Scene.Dir)
	require.NoError(t, s.Scene.WriteFile(".ksapply.yaml", "heads:\n  - name: linux\n    ref: master\n"))

	out, _, err := execute(t, "\t"+pc+"\n\t"+pa+"\n", "sort")
	require.NoError(t, err)
	require.Equal(t, "\t"+pa+"\n\t"+pc+"\n", out)
}

func TestExitCodes(t *testing.T) {
	t.Run("check passes on a sorted series", func(t *testing.T) {
		s, _ := newScenario(t)
		s.WithSeries([]string{header}, []string{pa, pb, pc})

		stdout, stderr, code := s.RunCli("check")
		require.Equal(t, 0, code, stderr)
		require.Empty(t, stdout)
	})

	t.Run("check fails on an unsorted series", func(t *testing.T) {
		s, _ := newScenario(t)
		s.WithSeries([]string{header}, []string{pb, pa})

		_, stderr, code := s.RunCli("check")
		require.Equal(t, 1, code)
		require.Contains(t, stderr, "Error: ")
	})

	t.Run("dupcheck exits 2 on a duplicate", func(t *testing.T) {
		s, commits := newScenario(t)
		s.WithSeries([]string{header}, []string{pa, pb})

		stdout, _, code := s.RunCli("dupcheck", commits[1])
		require.Equal(t, 2, code)
		require.Contains(t, stdout, `already present in patch "`+pb+`"`)
	})

	t.Run("dupcheck exits 0 on a new commit", func(t *testing.T) {
		s, commits := newScenario(t)
		s.WithSeries([]string{header}, []string{pa})

		_, stderr, code := s.RunCli("dupcheck", commits[2])
		require.Equal(t, 0, code, stderr)
	})

	t.Run("insert prints the anchor and the move", func(t *testing.T) {
		s, commits := newScenario(t)
		s.WithSeries([]string{header}, []string{pa, pc})

		stdout, stderr, code := s.RunCli("insert", commits[1], "--top", pc)
		require.Equal(t, 0, code, stderr)
		require.Equal(t, pa+"\npop 1\n", stdout)
	})

	t.Run("sort rewrites the series in place", func(t *testing.T) {
		s, _ := newScenario(t)
		s.WithSeries([]string{header}, []string{pc, pb, pa})

		_, stderr, code := s.RunCli("sort", "--in-place")
		require.Equal(t, 0, code, stderr)
		testhelpers.ExpectSorted(t, s.Scene, []string{pa, pb, pc})
	})

	t.Run("unknown revision", func(t *testing.T) {
		s, _ := newScenario(t)
		s.WithSeries([]string{header}, []string{pa})

		_, stderr, code := s.RunCli("insert", "no-such-ref", "--top", "")
		require.Equal(t, 1, code)
		require.Contains(t, stderr, "no-such-ref")
	})
}
