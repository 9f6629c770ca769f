package runtime

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/benthaman/ksapply/internal/config"
	"github.com/benthaman/ksapply/internal/git"
	"github.com/benthaman/ksapply/internal/oracle"
	"github.com/benthaman/ksapply/internal/output"
	"github.com/benthaman/ksapply/internal/quilt"
	"github.com/benthaman/ksapply/internal/sequence"
	"github.com/benthaman/ksapply/internal/series"
	"github.com/benthaman/ksapply/internal/sorter"
)

// PatchStack is the applied patch stack of the source tree.
type PatchStack interface {
	Top(ctx context.Context) (string, error)
	Push(ctx context.Context, n int) error
	Pop(ctx context.Context, n int) error
}

// Context provides access to configuration, output and collaborators for
// actions. Collaborators are created on first use.
type Context struct {
	Context context.Context
	Config  *config.Config
	Splog   *output.Splog
	Stdin   io.Reader

	// Repo, Oracle and Stack may be set up front, typically by tests.
	Repo   *git.Repository
	Oracle oracle.Oracle
	Stack  PatchStack
}

// NewContext creates a Context.
func NewContext(ctx context.Context, cfg *config.Config, splog *output.Splog) *Context {
	return &Context{
		Context: ctx,
		Config:  cfg,
		Splog:   splog,
		Stdin:   os.Stdin,
	}
}

// Repository opens the upstream repository.
func (c *Context) Repository() (*git.Repository, error) {
	if c.Repo == nil {
		repo, err := git.OpenRepository(c.Config.Repo)
		if err != nil {
			return nil, err
		}
		c.Splog.Debug("using repository %s", repo.Path())
		c.Repo = repo
	}
	return c.Repo, nil
}

// UpstreamOracle returns the source of upstream order: the index file when
// one is configured, the repository otherwise.
func (c *Context) UpstreamOracle() (oracle.Oracle, error) {
	if c.Oracle != nil {
		return c.Oracle, nil
	}
	if c.Config.Index != "" {
		o, err := oracle.LoadStatic(c.Config.Index)
		if err != nil {
			return nil, err
		}
		c.Oracle = o
		return o, nil
	}
	repo, err := c.Repository()
	if err != nil {
		return nil, err
	}
	c.Oracle = oracle.NewGitSort(repo.Runner(), c.Config.HeadRefs())
	return c.Oracle, nil
}

// PatchStack returns the quilt stack of the source tree.
func (c *Context) PatchStack() PatchStack {
	if c.Stack == nil {
		c.Stack = quilt.New(c.Config.PatchesDir, c.Config.QuiltPatchesDir)
	}
	return c.Stack
}

// Top returns the topmost applied patch, "" when none is.
func (c *Context) Top() (string, error) {
	top, err := c.PatchStack().Top(c.Context)
	if err != nil {
		return "", err
	}
	c.Splog.Debug("top patch: %q", top)
	return top, nil
}

// Document parses the series file.
func (c *Context) Document() (*series.Document, error) {
	return series.ParseFile(c.Config.SeriesPath(), c.Config.Markers())
}

// PatchPath returns the path of a patch named in the series.
func (c *Context) PatchPath(name string) string {
	return filepath.Join(c.Config.PatchesDir, name)
}

// CommitOf returns the commit lookup used for the sorted subsection.
func (c *Context) CommitOf() sequence.CommitFunc {
	return sequence.PatchCommits(c.Config.PatchesDir)
}

// Planner returns a sequence planner over the upstream oracle.
func (c *Context) Planner() (*sequence.Planner, error) {
	o, err := c.UpstreamOracle()
	if err != nil {
		return nil, err
	}
	return sequence.NewPlanner(o, c.CommitOf()), nil
}

// Locator returns a position locator over the upstream oracle.
func (c *Context) Locator() (*sequence.Locator, error) {
	o, err := c.UpstreamOracle()
	if err != nil {
		return nil, err
	}
	return sequence.NewLocator(o, c.CommitOf()), nil
}

// Sorter returns a series sorter and a resolver for patches under dir.
func (c *Context) Sorter(dir string) (*sorter.Sorter, *sorter.Resolver, error) {
	repo, err := c.Repository()
	if err != nil {
		return nil, nil, err
	}
	o, err := c.UpstreamOracle()
	if err != nil {
		return nil, nil, err
	}
	return sorter.New(o, c.Config.DefaultHead()), sorter.NewResolver(repo, dir), nil
}
