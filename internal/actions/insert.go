package actions

import (
	"github.com/benthaman/ksapply/internal/output"
	"github.com/benthaman/ksapply/internal/runtime"
	"github.com/benthaman/ksapply/internal/sequence"
)

// InsertOptions contains options for the insert command
type InsertOptions struct {
	Rev string
	// Top is the topmost applied patch. When TopSet is false it is asked
	// from quilt.
	Top    string
	TopSet bool
}

// InsertAction prints the patch after which Rev has to be imported, then
// the quilt command that makes it the top patch.
func InsertAction(ctx *runtime.Context, opts InsertOptions) (sequence.Plan, error) {
	repo, err := ctx.Repository()
	if err != nil {
		return sequence.Plan{}, err
	}
	commit, err := repo.ResolveCommit(opts.Rev)
	if err != nil {
		return sequence.Plan{}, err
	}

	top := opts.Top
	if !opts.TopSet {
		if top, err = ctx.Top(); err != nil {
			return sequence.Plan{}, err
		}
	}

	doc, err := ctx.Document()
	if err != nil {
		return sequence.Plan{}, err
	}
	planner, err := ctx.Planner()
	if err != nil {
		return sequence.Plan{}, err
	}
	plan, err := planner.Insert(ctx.Context, doc, commit, top)
	if err != nil {
		return sequence.Plan{}, err
	}

	switch {
	case plan.Anchor != "":
		ctx.Splog.Info(output.ColorPatch(plan.Anchor))
	case plan.BeforeSorted:
		ctx.Splog.Debug("%s goes first in the series", output.ShortCommit(commit))
	}
	if move := plan.Move(); !move.Nothing() {
		ctx.Splog.Info(output.ColorMove(move.String()))
	}
	return plan, nil
}
