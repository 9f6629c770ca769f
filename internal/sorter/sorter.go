// Package sorter reorders series lines by the upstream order of the commits
// their patches backport.
package sorter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"

	ksaerrors "github.com/benthaman/ksapply/internal/errors"
	"github.com/benthaman/ksapply/internal/oracle"
	"github.com/benthaman/ksapply/internal/series"
	"github.com/benthaman/ksapply/internal/tag"
)

// InputEntry is a series line with what is known about the origin of its
// patch. At most one of Commit and Repo is set; an entry with neither is
// out-of-tree.
type InputEntry struct {
	Line string
	Name string
	// Commit is the full id of the backported commit.
	Commit string
	// Repo is the subsystem repository of a commit missing from the
	// upstream repository.
	Repo string
}

// OutOfTree reports whether the patch has no upstream origin.
func (e InputEntry) OutOfTree() bool {
	return e.Commit == "" && e.Repo == ""
}

// CommitResolver turns a revision into a full commit id.
type CommitResolver interface {
	ResolveCommit(rev string) (string, error)
}

// Resolver builds InputEntries from the patch files series lines name.
type Resolver struct {
	Repo CommitResolver
	// Dir is the directory patch names are relative to.
	Dir string
}

// NewResolver creates a Resolver.
func NewResolver(repo CommitResolver, dir string) *Resolver {
	return &Resolver{Repo: repo, Dir: dir}
}

// Resolve reads the tags of the patch named by line.
func (r *Resolver) Resolve(line string) (InputEntry, error) {
	entry := InputEntry{Line: line, Name: series.EntryName(line)}
	path := filepath.Join(r.Dir, entry.Name)

	tags, err := tag.ScanFile(path, tag.GitCommit, tag.GitRepo)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return entry, ksaerrors.NewPatchNotFoundError(path, "")
		}
		return entry, err
	}
	if len(tags[tag.GitCommit]) == 0 {
		return entry, nil
	}

	rev := tag.FirstWord(tags[tag.GitCommit][0])
	id, err := r.Repo.ResolveCommit(rev)
	switch {
	case err == nil:
		entry.Commit = id
		return entry, nil
	case errors.Is(err, ksaerrors.ErrInvalidRevision):
		return entry, ksaerrors.NewInvalidRevisionError(rev, path)
	case !errors.Is(err, ksaerrors.ErrRevisionNotFound):
		return entry, err
	}

	switch repos := tags[tag.GitRepo]; len(repos) {
	case 0:
		location := ""
		var notFound *ksaerrors.RevisionNotFoundError
		if errors.As(err, &notFound) {
			location = notFound.Repo
		}
		return entry, ksaerrors.NewUnresolvedCommitError(rev, location, path)
	case 1:
		entry.Repo = repos[0]
		return entry, nil
	default:
		return entry, ksaerrors.NewAmbiguousProvenanceError(path, repos)
	}
}

// ResolveLines resolves every entry line among lines. Blank lines, comments
// and disabled entries are skipped.
func (r *Resolver) ResolveLines(lines []string) ([]InputEntry, error) {
	var entries []InputEntry
	for _, line := range lines {
		if !series.IsEntry(line) {
			continue
		}
		e, err := r.Resolve(line)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Sorter groups and orders InputEntries.
type Sorter struct {
	Oracle oracle.Oracle
	// DefaultHead is the head whose group is written without a label.
	DefaultHead string
}

// New creates a Sorter.
func New(o oracle.Oracle, defaultHead string) *Sorter {
	return &Sorter{Oracle: o, DefaultHead: defaultHead}
}

// Sort returns the lines of entries in groups: one per upstream head in
// upstream order, then commits the oracle does not know, then one group per
// subsystem repository by name, then out-of-tree patches. Lines of a commit
// keep their relative order. Empty groups are left out.
func (s *Sorter) Sort(ctx context.Context, entries []InputEntry) ([]series.Group, error) {
	tagged := oracle.NewMapping[[]string]()
	queued := make(map[string][]string)
	var outOfTree []string

	for _, e := range entries {
		switch {
		case e.Commit != "":
			lines, _ := tagged.Get(e.Commit)
			tagged.Set(e.Commit, append(lines, e.Line))
		case e.Repo != "":
			queued[e.Repo] = append(queued[e.Repo], e.Line)
		default:
			outOfTree = append(outOfTree, e.Line)
		}
	}

	items, residue, err := oracle.Sort(ctx, s.Oracle, tagged)
	if err != nil {
		return nil, err
	}

	var groups []series.Group
	for _, item := range items {
		if n := len(groups); n == 0 || groups[n-1].Label != item.Head {
			groups = append(groups, series.Group{Label: item.Head})
		}
		last := &groups[len(groups)-1]
		last.Lines = append(last.Lines, item.Value...)
	}

	unknown := series.Group{Label: series.LabelUnknown}
	for _, c := range residue {
		lines, _ := tagged.Get(c)
		unknown.Lines = append(unknown.Lines, lines...)
	}
	groups = append(groups, unknown)

	repos := make([]string, 0, len(queued))
	for repo := range queued {
		repos = append(repos, repo)
	}
	sort.Strings(repos)
	for _, repo := range repos {
		groups = append(groups, series.Group{Label: series.QueuedLabel(repo), Lines: queued[repo]})
	}

	groups = append(groups, series.Group{Label: series.LabelOutOfTree, Lines: outOfTree})

	return nonEmpty(groups), nil
}

// Format lays out groups as series lines.
func (s *Sorter) Format(groups []series.Group) []string {
	return series.FormatGroups(groups, s.DefaultHead)
}

// SortLines resolves, sorts and formats lines in one go.
func (s *Sorter) SortLines(ctx context.Context, r *Resolver, lines []string) ([]string, error) {
	entries, err := r.ResolveLines(lines)
	if err != nil {
		return nil, err
	}
	groups, err := s.Sort(ctx, entries)
	if err != nil {
		return nil, err
	}
	return s.Format(groups), nil
}

func nonEmpty(groups []series.Group) []series.Group {
	result := groups[:0]
	for _, g := range groups {
		if len(g.Lines) > 0 {
			result = append(result, g)
		}
	}
	return result
}
