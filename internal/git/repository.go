package git

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	ksaerrors "github.com/benthaman/ksapply/internal/errors"
)

// Repository wraps a go-git repository
type Repository struct {
	*git.Repository
	path string
}

// OpenRepository opens the git repository containing path. path may be a
// work tree, one of its subdirectories, or a git directory.
func OpenRepository(path string) (*Repository, error) {
	if path == "" {
		return nil, fmt.Errorf("no repository configured; set \"repo\" or LINUX_GIT")
	}

	// Resolve to absolute path
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	repo, err := git.PlainOpenWithOptions(absPath, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository %s: %w", absPath, err)
	}

	return &Repository{
		Repository: repo,
		path:       absPath,
	}, nil
}

// Path returns the path the repository was opened from
func (r *Repository) Path() string {
	return r.path
}

// Runner returns a CommandRunner that runs git in this repository
func (r *Repository) Runner() *CommandRunner {
	return NewCommandRunner(r.path)
}

// ResolveCommit resolves rev to a full commit id. A rev that does not parse
// yields an InvalidRevisionError; a rev that parses but names nothing in the
// repository yields a RevisionNotFoundError.
func (r *Repository) ResolveCommit(rev string) (string, error) {
	hash, err := r.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return "", r.classify(rev, err)
	}
	return hash.String(), nil
}

// classify maps a go-git resolution failure onto the error kinds callers
// act on. go-git reports a rev that names nothing as a missing reference or
// object; every other failure comes from the revision parser.
func (r *Repository) classify(rev string, err error) error {
	if errors.Is(err, plumbing.ErrReferenceNotFound) || errors.Is(err, plumbing.ErrObjectNotFound) {
		return ksaerrors.NewRevisionNotFoundError(rev, r.path)
	}
	return ksaerrors.NewInvalidRevisionError(rev, "")
}
