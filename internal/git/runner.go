package git

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	ksaerrors "github.com/benthaman/ksapply/internal/errors"
)

// DefaultCommandTimeout is the default timeout for git commands
const DefaultCommandTimeout = 5 * time.Minute

// repositoryEnv lists variables through which git picks a repository other
// than the one in its working directory.
var repositoryEnv = []string{"GIT_DIR=", "GIT_WORK_TREE=", "GIT_INDEX_FILE="}

// Env returns the process environment without the variables that redirect
// git away from its working directory.
func Env() []string {
	var env []string
	for _, kv := range os.Environ() {
		redirect := false
		for _, prefix := range repositoryEnv {
			if strings.HasPrefix(kv, prefix) {
				redirect = true
				break
			}
		}
		if !redirect {
			env = append(env, kv)
		}
	}
	return env
}

// CommandRunner handles execution of git commands
type CommandRunner struct {
	workingDir string
}

// NewCommandRunner creates a new CommandRunner
func NewCommandRunner(workingDir string) *CommandRunner {
	return &CommandRunner{workingDir: workingDir}
}

// Run executes a git command with the given context and returns the trimmed output
func (r *CommandRunner) Run(ctx context.Context, args ...string) (string, error) {
	return r.runInternal(ctx, args...)
}

// RunLines executes a git command and returns output as lines
func (r *CommandRunner) RunLines(ctx context.Context, args ...string) ([]string, error) {
	output, err := r.Run(ctx, args...)
	if err != nil {
		return nil, err
	}
	if output == "" {
		return []string{}, nil
	}
	return strings.Split(output, "\n"), nil
}

// runInternal runs git in the working directory under the default timeout
func (r *CommandRunner) runInternal(ctx context.Context, args ...string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	// If no timeout/deadline is set in the context, add the default one
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultCommandTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	if r.workingDir != "" {
		cmd.Dir = r.workingDir
	}
	cmd.Env = Env()
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", ksaerrors.NewCommandError("git", args, stdout.String(), stderr.String(), ctx.Err())
		}
		return "", ksaerrors.NewCommandError("git", args, stdout.String(), stderr.String(), err)
	}
	return strings.TrimSpace(stdout.String()), nil
}
