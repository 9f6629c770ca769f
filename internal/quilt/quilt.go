// Package quilt drives the quilt patch stack of a kernel-source tree.
package quilt

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strconv"
	"strings"

	ksaerrors "github.com/benthaman/ksapply/internal/errors"
	"github.com/benthaman/ksapply/internal/git"
)

// noPatchesExit is quilt's exit status when no patch is applied.
const noPatchesExit = 2

// Quilt runs quilt commands in a source tree.
type Quilt struct {
	// Binary is the quilt executable, "quilt" when empty.
	Binary string
	// Dir is the tree quilt operates on.
	Dir string
	// PatchesDir is the prefix quilt puts in front of patch names.
	PatchesDir string
}

// New creates a Quilt for the tree at dir.
func New(dir, patchesDir string) *Quilt {
	return &Quilt{Dir: dir, PatchesDir: patchesDir}
}

// Top returns the name of the topmost applied patch, relative to the
// patches directory. It returns "" when no patch is applied.
func (q *Quilt) Top(ctx context.Context) (string, error) {
	out, err := q.run(ctx, "top")
	if err != nil {
		var cmdErr *ksaerrors.CommandError
		if errors.As(err, &cmdErr) && exitCode(cmdErr.Err) == noPatchesExit {
			return "", nil
		}
		return "", err
	}
	return q.trimPrefix(out), nil
}

// Push applies n more patches.
func (q *Quilt) Push(ctx context.Context, n int) error {
	_, err := q.run(ctx, "push", strconv.Itoa(n))
	return err
}

// Pop unapplies n patches.
func (q *Quilt) Pop(ctx context.Context, n int) error {
	_, err := q.run(ctx, "pop", strconv.Itoa(n))
	return err
}

func (q *Quilt) trimPrefix(name string) string {
	if q.PatchesDir == "" {
		return name
	}
	return strings.TrimPrefix(name, strings.TrimSuffix(q.PatchesDir, "/")+"/")
}

func (q *Quilt) run(ctx context.Context, args ...string) (string, error) {
	binary := q.Binary
	if binary == "" {
		binary = "quilt"
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = q.Dir
	cmd.Env = git.Env()
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", ksaerrors.NewCommandError(binary, args, stdout.String(), stderr.String(), err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
