package actions

import (
	"fmt"
	"io"

	"github.com/benthaman/ksapply/internal/runtime"
	"github.com/benthaman/ksapply/internal/series"
)

// SortOptions contains options for the sort command
type SortOptions struct {
	// Prefix is the directory patch names are relative to. Defaults to the
	// configured patches directory.
	Prefix string
	// InPlace sorts the sorted subsection of the series file instead of
	// filtering standard input.
	InPlace bool
}

// SortAction sorts series lines by upstream order.
func SortAction(ctx *runtime.Context, opts SortOptions) error {
	dir := opts.Prefix
	if dir == "" {
		dir = ctx.Config.PatchesDir
	}
	s, resolver, err := ctx.Sorter(dir)
	if err != nil {
		return err
	}

	if !opts.InPlace {
		data, err := io.ReadAll(ctx.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		lines, err := s.SortLines(ctx.Context, resolver, series.SplitLines(string(data)))
		if err != nil {
			return err
		}
		ctx.Splog.Page(series.JoinLines(lines))
		return nil
	}

	path := ctx.Config.SeriesPath()
	doc, err := ctx.Document()
	if err != nil {
		return err
	}
	sorted := doc.Sorted()
	lines, err := s.SortLines(ctx.Context, resolver, sorted.Lines)
	if err != nil {
		return err
	}
	sorted.Splice(lines)

	if err := series.WriteFile(path, doc); err != nil {
		return err
	}
	ctx.Splog.Debug("sorted %d patches in %s", len(sorted.Names()), path)
	return nil
}
