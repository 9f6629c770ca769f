package testhelpers

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/benthaman/ksapply/internal/git"
)

// GitRepo is a throwaway upstream repository driven by the git binary.
type GitRepo struct {
	Dir string
}

// NewGitRepo runs git init in dir with master as the initial branch and a
// local identity, so commits work without any global configuration.
func NewGitRepo(dir string) (*GitRepo, error) {
	repo := &GitRepo{Dir: dir}
	steps := [][]string{
		{"-c", "init.defaultBranch=master", "init", "-b", "master", "."},
		{"config", "user.name", "Test User"},
		{"config", "user.email", "test@example.com"},
		{"config", "core.autocrlf", "false"},
	}
	for _, args := range steps {
		if _, err := repo.git(args...); err != nil {
			return nil, fmt.Errorf("failed to init repo: %w", err)
		}
	}
	return repo, nil
}

// git runs a git command in the repository and returns its trimmed output.
// The developer's global configuration and repository overrides are kept out.
func (r *GitRepo) git(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(git.Env(), "GIT_CONFIG_GLOBAL=/dev/null")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, out)
	}
	return strings.TrimSpace(string(out)), nil
}

// CreateChangeAndCommit writes textValue to <prefix>_test.txt, commits it
// with textValue as the message and returns the new commit id.
func (r *GitRepo) CreateChangeAndCommit(textValue string, prefix string) (string, error) {
	name := prefix + "_test.txt"
	if err := os.WriteFile(filepath.Join(r.Dir, name), []byte(textValue), 0600); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if _, err := r.git("add", name); err != nil {
		return "", err
	}
	if _, err := r.git("commit", "-q", "-m", textValue); err != nil {
		return "", err
	}
	return r.GetRevision("HEAD")
}

// CreateAndCheckoutBranch creates and checks out a new branch.
func (r *GitRepo) CreateAndCheckoutBranch(name string) error {
	_, err := r.git("checkout", "-q", "-b", name)
	return err
}

// CheckoutBranch checks out a branch.
func (r *GitRepo) CheckoutBranch(name string) error {
	_, err := r.git("checkout", "-q", name)
	return err
}

// GetRevision returns the full id of a revision.
func (r *GitRepo) GetRevision(rev string) (string, error) {
	return r.git("rev-parse", "--verify", rev+"^{commit}")
}
