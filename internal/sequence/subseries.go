// Package sequence works out where a commit belongs in the sorted subsection
// of a series and how far the applied patch stack has to move to get there.
package sequence

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"

	ksaerrors "github.com/benthaman/ksapply/internal/errors"
	"github.com/benthaman/ksapply/internal/oracle"
	"github.com/benthaman/ksapply/internal/series"
	"github.com/benthaman/ksapply/internal/tag"
)

// CommitFunc returns the commit that a sorted patch backports.
type CommitFunc func(patch string) (string, error)

// PatchCommits returns a CommitFunc that reads the first Git-commit tag of
// patch files under dir.
func PatchCommits(dir string) CommitFunc {
	return func(patch string) (string, error) {
		commits, err := tag.Commits(filepath.Join(dir, patch))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", ksaerrors.NewPatchNotFoundError(patch, "")
			}
			return "", err
		}
		if len(commits) == 0 || commits[0] == "" {
			return "", ksaerrors.NewMissingProvenanceError(patch)
		}
		return commits[0], nil
	}
}

// subseries is the sorted subsection indexed by commit. Patch positions are
// 1-based; 0 stands for the position just before the subsection.
type subseries struct {
	names   []string
	commits []string
	last    map[string]int
}

// newSubseries indexes names. Patches backporting the same commit must be
// adjacent.
func newSubseries(names []string, commitOf CommitFunc) (*subseries, error) {
	sub := &subseries{names: names, last: make(map[string]int)}
	prev := ""
	for i, name := range names {
		c, err := commitOf(name)
		if err != nil {
			return nil, err
		}
		if _, seen := sub.last[c]; seen && c != prev {
			return nil, ksaerrors.ErrNotSorted
		}
		if c != prev {
			sub.commits = append(sub.commits, c)
		}
		sub.last[c] = i + 1
		prev = c
	}
	return sub, nil
}

// position returns the 1-based position of patch, or 0 if it is not part of
// the subsection.
func (s *subseries) position(patch string) int {
	return slices.Index(s.names, patch) + 1
}

// pending marks the commit being placed among the subsection's commits.
const pending = -1

// upstreamOrder submits the commits of the subsection, plus extra when it
// is not one of them, to the oracle.
func (s *subseries) upstreamOrder(ctx context.Context, o oracle.Oracle, extra string) ([]oracle.Item[int], []string, error) {
	m := oracle.NewMapping[int]()
	for _, c := range s.commits {
		m.Set(c, s.last[c])
	}
	if extra != "" && !m.Has(extra) {
		m.Set(extra, pending)
	}
	return oracle.Sort(ctx, o, m)
}

// check compares the subsection with the upstream order of its commits.
// Commits the oracle left out make the comparison fail.
func (s *subseries) check(items []oracle.Item[int]) error {
	order := make([]string, 0, len(items))
	for _, item := range items {
		if item.Value != pending {
			order = append(order, item.Commit)
		}
	}
	if !slices.Equal(order, s.commits) {
		return ksaerrors.ErrNotSorted
	}
	return nil
}

// place returns the position of the patch after which commit goes: the last
// patch backporting it when it is already present, otherwise the last patch
// of the commit preceding it upstream. The whole subsection is checked
// against upstream order on the way.
func (s *subseries) place(ctx context.Context, o oracle.Oracle, commit string) (int, error) {
	items, residue, err := s.upstreamOrder(ctx, o, commit)
	if err != nil {
		return 0, err
	}
	if slices.Contains(residue, commit) {
		return 0, ksaerrors.NewNotIndexedError(commit)
	}
	if err := s.check(items); err != nil {
		return 0, err
	}

	anchor, present := s.last[commit]
	if !present {
		for i, item := range items {
			if item.Value == pending {
				if i > 0 {
					anchor = items[i-1].Value
				}
				break
			}
		}
	}
	return anchor, nil
}

// Check verifies that every patch of the sorted subsection of doc backports
// a commit and that the patches follow upstream order.
func Check(ctx context.Context, o oracle.Oracle, doc *series.Document, commitOf CommitFunc) error {
	sub, err := newSubseries(doc.SortedNames(), commitOf)
	if err != nil {
		return err
	}
	items, _, err := sub.upstreamOrder(ctx, o, "")
	if err != nil {
		return err
	}
	return sub.check(items)
}
