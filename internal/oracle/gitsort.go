package oracle

import (
	"context"
	"fmt"
	"sync"
)

// HeadRef names an upstream head and the git reference that tracks it.
type HeadRef struct {
	Name string
	Ref  string
}

// LineRunner runs a git command and returns its output lines.
type LineRunner interface {
	RunLines(ctx context.Context, args ...string) ([]string, error)
}

// GitSort is an Oracle backed by the history of a git repository.
//
// Heads are indexed in order: each one contributes the commits reachable
// from its ref and not from any earlier ref, oldest first.
type GitSort struct {
	runner LineRunner
	heads  []HeadRef

	once sync.Once
	ix   *index
	err  error
}

// NewGitSort creates a GitSort over heads.
func NewGitSort(runner LineRunner, heads []HeadRef) *GitSort {
	return &GitSort{runner: runner, heads: heads}
}

// Order implements Oracle. The index is built on first use.
func (g *GitSort) Order(ctx context.Context, commits []string) ([]Placement, error) {
	g.once.Do(func() {
		g.ix, g.err = g.build(ctx)
	})
	if g.err != nil {
		return nil, g.err
	}
	return g.ix.order(commits), nil
}

func (g *GitSort) build(ctx context.Context) (*index, error) {
	ix := &index{positions: make(map[string]position)}
	for h, head := range g.heads {
		ix.names = append(ix.names, head.Name)

		args := []string{"rev-list", "--topo-order", "--reverse", head.Ref}
		for _, prev := range g.heads[:h] {
			args = append(args, "^"+prev.Ref)
		}
		args = append(args, "--")

		commits, err := g.runner.RunLines(ctx, args...)
		if err != nil {
			return nil, fmt.Errorf("failed to index head %s (%s): %w", head.Name, head.Ref, err)
		}
		for seq, c := range commits {
			if _, ok := ix.positions[c]; !ok {
				ix.positions[c] = position{head: h, seq: seq}
			}
		}
	}
	return ix, nil
}
