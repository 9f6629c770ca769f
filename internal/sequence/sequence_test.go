package sequence_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benthaman/ksapply/internal/errors"
	"github.com/benthaman/ksapply/internal/oracle"
	"github.com/benthaman/ksapply/internal/sequence"
	"github.com/benthaman/ksapply/internal/series"
)

// document builds a series with the given header and sorted entries.
func document(t *testing.T, header, sorted []string) *series.Document {
	t.Helper()
	var b strings.Builder
	b.WriteString("# Kernel patches configuration file\n\n")
	for _, p := range header {
		b.WriteString("\t" + p + "\n")
	}
	b.WriteString("\n\t# sorted patches\n")
	for _, p := range sorted {
		b.WriteString("\t" + p + "\n")
	}
	b.WriteString("\n\t# Wireless Networking\n\tpatches.suse/wifi.patch\n")

	doc, err := series.Parse(strings.NewReader(b.String()), series.DefaultMarkers())
	require.NoError(t, err)
	return doc
}

func commits(m map[string]string) sequence.CommitFunc {
	return func(patch string) (string, error) {
		c, ok := m[patch]
		if !ok {
			return "", errors.NewMissingProvenanceError(patch)
		}
		return c, nil
	}
}

var upstream = oracle.NewStatic(oracle.Head{Name: "linux", Commits: []string{"c1", "c2", "c3", "c4"}})

var threePatches = map[string]string{"P1": "c1", "P2": "c2", "P3": "c3"}

func TestInsert(t *testing.T) {
	ctx := context.Background()

	t.Run("present commit goes after its patch", func(t *testing.T) {
		doc := document(t, nil, []string{"P1", "P2", "P3"})
		plan, err := sequence.NewPlanner(upstream, commits(threePatches)).Insert(ctx, doc, "c2", "P1")
		require.NoError(t, err)
		require.Equal(t, sequence.Plan{Anchor: "P2", Delta: 1}, plan)
		require.Equal(t, "push 1", plan.Move().String())
	})

	t.Run("new commit after the last patch", func(t *testing.T) {
		doc := document(t, nil, []string{"P1", "P2", "P3"})
		plan, err := sequence.NewPlanner(upstream, commits(threePatches)).Insert(ctx, doc, "c4", "P3")
		require.NoError(t, err)
		require.Equal(t, "P3", plan.Anchor)
		require.True(t, plan.Move().Nothing())
	})

	t.Run("missing commit fills its gap", func(t *testing.T) {
		doc := document(t, nil, []string{"P1", "P3"})
		plan, err := sequence.NewPlanner(upstream, commits(threePatches)).Insert(ctx, doc, "c2", "P3")
		require.NoError(t, err)
		require.Equal(t, "P1", plan.Anchor)
		require.Equal(t, -1, plan.Delta)
	})

	t.Run("out of order subsection is rejected", func(t *testing.T) {
		doc := document(t, nil, []string{"P2", "P1", "P3"})
		_, err := sequence.NewPlanner(upstream, commits(threePatches)).Insert(ctx, doc, "c4", "P3")
		require.ErrorIs(t, err, errors.ErrNotSorted)
	})

	t.Run("inserting twice gives the same answer", func(t *testing.T) {
		doc := document(t, nil, []string{"P1", "P2", "P3"})
		planner := sequence.NewPlanner(upstream, commits(threePatches))
		first, err := planner.Insert(ctx, doc, "c2", "P2")
		require.NoError(t, err)
		second, err := planner.Insert(ctx, doc, "c2", first.Anchor)
		require.NoError(t, err)
		require.Equal(t, first, second)
		require.Equal(t, 0, second.Delta)
	})

	t.Run("commit before the first sorted patch", func(t *testing.T) {
		doc := document(t, []string{"H1", "H2"}, []string{"P2", "P3"})
		plan, err := sequence.NewPlanner(upstream, commits(threePatches)).Insert(ctx, doc, "c1", "P3")
		require.NoError(t, err)
		require.Equal(t, sequence.Plan{Anchor: "H2", BeforeSorted: true, Delta: -2}, plan)
	})

	t.Run("nothing before the sorted subsection", func(t *testing.T) {
		doc := document(t, nil, []string{"P2"})
		plan, err := sequence.NewPlanner(upstream, commits(threePatches)).Insert(ctx, doc, "c1", "")
		require.NoError(t, err)
		require.Equal(t, sequence.Plan{BeforeSorted: true}, plan)
	})

	t.Run("top in the trailing section", func(t *testing.T) {
		doc := document(t, []string{"H1"}, []string{"P1", "P3"})
		plan, err := sequence.NewPlanner(upstream, commits(threePatches)).Insert(ctx, doc, "c2", "patches.suse/wifi.patch")
		require.NoError(t, err)
		require.Equal(t, "P1", plan.Anchor)
		require.Equal(t, -2, plan.Delta)
	})

	t.Run("unknown top patch", func(t *testing.T) {
		doc := document(t, nil, []string{"P1"})
		_, err := sequence.NewPlanner(upstream, commits(threePatches)).Insert(ctx, doc, "c2", "nope")
		require.ErrorIs(t, err, errors.ErrPatchNotFound)
	})

	t.Run("commit unknown to the oracle", func(t *testing.T) {
		doc := document(t, nil, []string{"P1"})
		_, err := sequence.NewPlanner(upstream, commits(threePatches)).Insert(ctx, doc, "c9", "P1")
		require.ErrorIs(t, err, errors.ErrNotIndexed)
	})

	t.Run("sorted patch without provenance", func(t *testing.T) {
		doc := document(t, nil, []string{"P1", "X"})
		_, err := sequence.NewPlanner(upstream, commits(threePatches)).Insert(ctx, doc, "c2", "P1")
		require.ErrorIs(t, err, errors.ErrMissingProvenance)
	})

	t.Run("sorted patch the oracle does not know", func(t *testing.T) {
		doc := document(t, nil, []string{"P1", "X"})
		m := map[string]string{"P1": "c1", "X": "c7"}
		_, err := sequence.NewPlanner(upstream, commits(m)).Insert(ctx, doc, "c2", "P1")
		require.ErrorIs(t, err, errors.ErrNotSorted)
	})
}

func TestMultiPatchCommits(t *testing.T) {
	ctx := context.Background()
	m := map[string]string{"P1": "c1", "P2a": "c2", "P2b": "c2", "P3": "c3"}

	t.Run("adjacent patches of one commit", func(t *testing.T) {
		doc := document(t, nil, []string{"P1", "P2a", "P2b", "P3"})
		plan, err := sequence.NewPlanner(upstream, commits(m)).Insert(ctx, doc, "c2", "P1")
		require.NoError(t, err)
		require.Equal(t, sequence.Plan{Anchor: "P2b", Delta: 2}, plan)

		plan, err = sequence.NewPlanner(upstream, commits(m)).Insert(ctx, doc, "c4", "P1")
		require.NoError(t, err)
		require.Equal(t, sequence.Plan{Anchor: "P3", Delta: 3}, plan)
	})

	t.Run("split patches of one commit", func(t *testing.T) {
		doc := document(t, nil, []string{"P1", "P2a", "P3", "P2b"})
		_, err := sequence.NewPlanner(upstream, commits(m)).Insert(ctx, doc, "c4", "P1")
		require.ErrorIs(t, err, errors.ErrNotSorted)
	})
}

func TestLocate(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name   string
		header []string
		sorted []string
		commit string
		top    string
		want   string
	}{
		{name: "push to a present commit", sorted: []string{"P1", "P2", "P3"}, commit: "c2", top: "P1", want: "push 1"},
		{name: "pop to a present commit", sorted: []string{"P1", "P2", "P3"}, commit: "c1", top: "P3", want: "pop 2"},
		{name: "already on the commit", sorted: []string{"P1", "P2", "P3"}, commit: "c2", top: "P2", want: ""},
		{name: "missing commit", sorted: []string{"P1", "P3"}, commit: "c2", top: "P3", want: "pop 1"},
		{name: "after the last patch", sorted: []string{"P1", "P2", "P3"}, commit: "c4", top: "P3", want: ""},
		{name: "nothing applied", header: []string{"H1"}, sorted: []string{"P1", "P2"}, commit: "c2", top: "", want: "push 3"},
		{name: "top in the header", header: []string{"H1", "H2"}, sorted: []string{"P1", "P2"}, commit: "c1", top: "H1", want: "push 2"},
		{name: "before the first sorted patch", header: []string{"H1"}, sorted: []string{"P2", "P3"}, commit: "c1", top: "P3", want: "pop 2"},
		{name: "top in the trailing section", header: []string{"H1"}, sorted: []string{"P1", "P2"}, commit: "c1", top: "patches.suse/wifi.patch", want: "pop 2"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := document(t, tc.header, tc.sorted)
			move, err := sequence.NewLocator(upstream, commits(threePatches)).Locate(ctx, doc, tc.commit, tc.top)
			require.NoError(t, err)
			require.Equal(t, tc.want, move.String())
		})
	}

	t.Run("out of order subsection is rejected", func(t *testing.T) {
		doc := document(t, nil, []string{"P2", "P1", "P3"})
		_, err := sequence.NewLocator(upstream, commits(threePatches)).Locate(ctx, doc, "c4", "P1")
		require.ErrorIs(t, err, errors.ErrNotSorted)
	})

	t.Run("count is unsigned", func(t *testing.T) {
		require.Equal(t, 3, sequence.Move{Delta: -3}.Count())
		require.Equal(t, 2, sequence.Move{Delta: 2}.Count())
	})
}

func TestPatchCommits(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	}
	write("patches.suse/a.patch", "From: dev\nGit-commit: 0123456789abcdef0123456789abcdef01234567 (partial)\n---\n")
	write("patches.suse/b.patch", "From: dev\nSubject: local\n---\n")

	commitOf := sequence.PatchCommits(dir)

	c, err := commitOf("patches.suse/a.patch")
	require.NoError(t, err)
	require.Equal(t, "0123456789abcdef0123456789abcdef01234567", c)

	_, err = commitOf("patches.suse/b.patch")
	require.ErrorIs(t, err, errors.ErrMissingProvenance)

	_, err = commitOf("patches.suse/none.patch")
	require.ErrorIs(t, err, errors.ErrPatchNotFound)
	require.Contains(t, fmt.Sprint(err), "none.patch")
}

func TestCheck(t *testing.T) {
	ctx := context.Background()

	doc := document(t, []string{"H1"}, []string{"P1", "P2", "P3"})
	require.NoError(t, sequence.Check(ctx, upstream, doc, commits(threePatches)))

	doc = document(t, nil, []string{"P1", "P3", "P2"})
	require.ErrorIs(t, sequence.Check(ctx, upstream, doc, commits(threePatches)), errors.ErrNotSorted)

	doc = document(t, nil, nil)
	require.NoError(t, sequence.Check(ctx, upstream, doc, commits(threePatches)))
}
