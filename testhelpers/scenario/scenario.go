// Package scenario provides a high-level test scenario that combines a Scene
// and a runtime Context to provide a terse API for action and CLI tests.
package scenario

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/benthaman/ksapply/internal/config"
	"github.com/benthaman/ksapply/internal/git"
	"github.com/benthaman/ksapply/internal/output"
	"github.com/benthaman/ksapply/internal/runtime"
	"github.com/benthaman/ksapply/testhelpers"
)

// DefaultHead is the head the scenario indexes: the master branch of the
// upstream repository.
const DefaultHead = "linux"

// FakeStack is an in-memory patch stack that records the moves asked of it.
type FakeStack struct {
	TopPatch string
	Calls    []string
}

// Top implements runtime.PatchStack.
func (f *FakeStack) Top(_ context.Context) (string, error) {
	return f.TopPatch, nil
}

// Push implements runtime.PatchStack.
func (f *FakeStack) Push(_ context.Context, n int) error {
	f.Calls = append(f.Calls, fmt.Sprintf("push %d", n))
	return nil
}

// Pop implements runtime.PatchStack.
func (f *FakeStack) Pop(_ context.Context, n int) error {
	f.Calls = append(f.Calls, fmt.Sprintf("pop %d", n))
	return nil
}

// Scenario represents a high-level test scenario: a kernel-source tree next
// to an upstream repository, and a runtime Context pointing at both.
type Scenario struct {
	T          *testing.T
	Scene      *testhelpers.Scene
	Context    *runtime.Context
	Stack      *FakeStack
	Out        *bytes.Buffer
	Err        *bytes.Buffer
	BinaryPath string
}

// NewScenario creates a new Scenario with an optional setup function.
// NOTE: This function is NOT safe for parallel tests as it changes the
// working directory.
func NewScenario(t *testing.T, setup testhelpers.SceneSetup) *Scenario {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)

	scene := testhelpers.NewScene(t, setup)

	cfg := config.Default()
	cfg.Repo = scene.Upstream.Dir
	cfg.PatchesDir = scene.Dir
	cfg.Heads = []config.Head{{Name: DefaultHead, Ref: "master"}}

	var out, errOut bytes.Buffer
	splog, err := output.NewSplogWithConfig(&out, &errOut, false, output.LogFile{})
	require.NoError(t, err)

	stack := &FakeStack{}
	ctx := runtime.NewContext(context.Background(), cfg, splog)
	ctx.Stack = stack
	ctx.Stdin = strings.NewReader("")

	return &Scenario{
		T:       t,
		Scene:   scene,
		Context: ctx,
		Stack:   stack,
		Out:     &out,
		Err:     &errOut,
	}
}

// Commit creates an upstream commit on the current branch and returns its id.
func (s *Scenario) Commit(message string) string {
	s.T.Helper()
	id, err := s.Scene.Upstream.CreateChangeAndCommit(message, message)
	require.NoError(s.T, err)
	return id
}

// Commits creates one upstream commit per message.
func (s *Scenario) Commits(messages ...string) []string {
	s.T.Helper()
	ids := make([]string, len(messages))
	for i, m := range messages {
		ids[i] = s.Commit(m)
	}
	return ids
}

// WithPatches writes patch files into the tree.
func (s *Scenario) WithPatches(patches ...testhelpers.Patch) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Scene.WritePatches(patches...))
	return s
}

// WithSeries writes series.conf with the given header and sorted entries.
func (s *Scenario) WithSeries(header, sorted []string) *Scenario {
	s.T.Helper()
	return s.WithSeriesText(testhelpers.SeriesFile(header, sorted))
}

// WithSeriesText writes series.conf verbatim.
func (s *Scenario) WithSeriesText(text string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Scene.WriteFile("series.conf", text))
	return s
}

// WithTop sets the topmost applied patch.
func (s *Scenario) WithTop(patch string) *Scenario {
	s.Stack.TopPatch = patch
	return s
}

// WithStdin sets what actions read from standard input.
func (s *Scenario) WithStdin(text string) *Scenario {
	s.Context.Stdin = strings.NewReader(text)
	return s
}

// Series returns the current content of series.conf.
func (s *Scenario) Series() string {
	s.T.Helper()
	text, err := s.Scene.ReadFile("series.conf")
	require.NoError(s.T, err)
	return text
}

// WithBinaryPath sets the path to the ksapply binary for RunCli methods.
func (s *Scenario) WithBinaryPath(path string) *Scenario {
	s.BinaryPath = path
	return s
}

// RunCli executes the ksapply binary in the scene and returns its stdout,
// stderr and exit code. The binary is pointed at the upstream repository
// and indexes its master branch.
func (s *Scenario) RunCli(args ...string) (string, string, int) {
	s.T.Helper()
	if s.BinaryPath == "" {
		s.T.Fatal("BinaryPath not set. Call WithBinaryPath first.")
	}
	require.NoError(s.T, s.Scene.WriteFile(".ksapply.yaml",
		fmt.Sprintf("heads:\n  - name: %s\n    ref: master\n", DefaultHead)))

	cmd := exec.Command(s.BinaryPath, args...)
	cmd.Dir = s.Scene.Dir
	cmd.Env = append(git.Env(),
		"KSAPPLY_REPO="+s.Scene.Upstream.Dir,
		"KSAPPLY_PATCHES_DIR="+s.Scene.Dir,
		"HOME="+s.Scene.Dir,
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	code := 0
	if exitErr, ok := err.(*exec.ExitError); ok {
		code = exitErr.ExitCode()
	} else {
		require.NoError(s.T, err)
	}
	return stdout.String(), stderr.String(), code
}
