package actions

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"slices"

	"github.com/natefinch/atomic"

	ksaerrors "github.com/benthaman/ksapply/internal/errors"
	"github.com/benthaman/ksapply/internal/runtime"
	"github.com/benthaman/ksapply/internal/series"
)

// MergeToolOptions contains options for the merge-tool command. The paths
// are the ones git mergetool passes as $LOCAL $BASE $REMOTE $MERGED.
type MergeToolOptions struct {
	Local  string
	Base   string
	Remote string
	Merged string
	// MergeCommand is the three-way file merge program, "merge" from RCS
	// when empty.
	MergeCommand string
}

// mergeSide is one version of the series file.
type mergeSide struct {
	doc *series.Document
}

func loadMergeSide(ctx *runtime.Context, path string) (*mergeSide, error) {
	doc, err := series.ParseFile(path, ctx.Config.Markers())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &mergeSide{doc: doc}, nil
}

// patches returns the patch names of the sorted subsection.
func (m *mergeSide) patches() []string {
	return m.doc.Sorted().Names()
}

// spliceInto writes the side to path with its sorted block replaced.
func (m *mergeSide) spliceInto(path string, sorted []string) error {
	m.doc.Sorted().Splice(sorted)
	return series.WriteFile(path, m.doc)
}

// MergeToolAction merges series files. The sorted subsection is merged by
// applying the patches added and removed between base and remote to the
// local subsection and sorting the result. The rest of the file goes through
// a regular three-way merge.
func MergeToolAction(ctx *runtime.Context, opts MergeToolOptions) error {
	base, err := loadMergeSide(ctx, opts.Base)
	if err != nil {
		return err
	}
	remote, err := loadMergeSide(ctx, opts.Remote)
	if err != nil {
		return err
	}
	local, err := loadMergeSide(ctx, opts.Local)
	if err != nil {
		return err
	}

	basePatches, remotePatches, localPatches := base.patches(), remote.patches(), local.patches()
	added := difference(remotePatches, basePatches)
	removed := difference(basePatches, remotePatches)

	if len(added) > 0 || len(removed) > 0 {
		ctx.Splog.Info("%d commits added, %d commits removed from base to remote", len(added), len(removed))
	}
	if n := len(intersection(localPatches, added)); n > 0 {
		ctx.Splog.Warn("%d commits added in remote and already present in local, ignoring", n)
	}
	if n := len(removed) - len(intersection(localPatches, removed)); n > 0 {
		ctx.Splog.Warn("%d commits removed in remote but not present in local, ignoring", n)
	}

	merged := difference(localPatches, removed)
	merged = append(merged, difference(added, merged)...)
	lines := make([]string, len(merged))
	for i, p := range merged {
		lines[i] = "\t" + p
	}

	s, resolver, err := ctx.Sorter(ctx.Config.PatchesDir)
	if err != nil {
		return err
	}
	sorted, err := s.SortLines(ctx.Context, resolver, lines)
	if err != nil {
		return fmt.Errorf("failed to sort merged patches: %w", err)
	}

	if err := local.spliceInto(opts.Merged, sorted); err != nil {
		return err
	}
	// Conflicts outside the sorted block are left to merge, so base and
	// remote get the same block.
	if err := base.spliceInto(opts.Base, sorted); err != nil {
		return err
	}
	if err := remote.spliceInto(opts.Remote, sorted); err != nil {
		return err
	}

	if err := runMerge(ctx, opts); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return err
		}
		name := fmt.Sprintf("%s.merged%d", opts.Merged, os.Getpid())
		if cpErr := copyFile(opts.Merged, name); cpErr != nil {
			return cpErr
		}
		ctx.Splog.Warn("conflicts outside of sorted section, leaving merged result in %s", name)
		return fmt.Errorf("merge of %s failed: %w", opts.Merged, err)
	}
	return nil
}

func runMerge(ctx *runtime.Context, opts MergeToolOptions) error {
	command := opts.MergeCommand
	if command == "" {
		command = "merge"
	}
	args := []string{opts.Merged, opts.Base, opts.Remote}

	cmd := exec.CommandContext(ctx.Context, command, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return ksaerrors.NewCommandError(command, args, stdout.String(), stderr.String(), err)
	}
	return nil
}

// copyFile copies src to dst and gives dst the permission bits of src.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := atomic.WriteFile(dst, bytes.NewReader(data)); err != nil {
		return err
	}
	return os.Chmod(dst, info.Mode().Perm())
}

// difference returns the elements of a missing from b, in the order of a.
func difference(a, b []string) []string {
	var result []string
	for _, s := range a {
		if !slices.Contains(b, s) && !slices.Contains(result, s) {
			result = append(result, s)
		}
	}
	return result
}

func intersection(a, b []string) []string {
	var result []string
	for _, s := range a {
		if slices.Contains(b, s) && !slices.Contains(result, s) {
			result = append(result, s)
		}
	}
	return result
}
