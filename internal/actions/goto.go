package actions

import (
	"errors"
	"fmt"
	"os"
	"slices"

	ksaerrors "github.com/benthaman/ksapply/internal/errors"
	"github.com/benthaman/ksapply/internal/output"
	"github.com/benthaman/ksapply/internal/runtime"
	"github.com/benthaman/ksapply/internal/sequence"
	"github.com/benthaman/ksapply/internal/tag"
)

// GotoOptions contains options for the goto command
type GotoOptions struct {
	Rev string
	// Apply runs the quilt command after printing it.
	Apply bool
	// Yes applies without asking.
	Yes bool
}

// GotoAction prints the quilt push or pop command that reaches the position
// of Rev in the sorted subsection. It returns ErrNothingToDo when the stack
// is already there.
func GotoAction(ctx *runtime.Context, opts GotoOptions) (sequence.Move, error) {
	doc, err := ctx.Document()
	if err != nil {
		return sequence.Move{}, err
	}
	if err := doc.CheckHeader(); err != nil {
		return sequence.Move{}, err
	}

	repo, err := ctx.Repository()
	if err != nil {
		return sequence.Move{}, err
	}
	commit, err := repo.ResolveCommit(opts.Rev)
	if err != nil {
		return sequence.Move{}, err
	}

	top, err := ctx.Top()
	if err != nil {
		return sequence.Move{}, err
	}
	if top != "" {
		commits, err := tag.Commits(ctx.PatchPath(top))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return sequence.Move{}, err
		}
		if slices.Contains(commits, commit) {
			return sequence.Move{}, ksaerrors.ErrNothingToDo
		}
	}

	locator, err := ctx.Locator()
	if err != nil {
		return sequence.Move{}, err
	}
	move, err := locator.Locate(ctx.Context, doc, commit, top)
	if err != nil {
		return sequence.Move{}, err
	}
	if move.Nothing() {
		return move, ksaerrors.ErrNothingToDo
	}

	ctx.Splog.Info(output.ColorMove(move.String()))
	if !opts.Apply {
		return move, nil
	}

	if !opts.Yes {
		ok, err := output.Confirm(fmt.Sprintf("Run quilt %s?", move), true)
		if errors.Is(err, output.ErrInteractiveDisabled) {
			ctx.Splog.Debug("no terminal to confirm on, not applying")
			return move, nil
		}
		if err != nil || !ok {
			return move, err
		}
	}

	stack := ctx.PatchStack()
	if move.Delta > 0 {
		err = stack.Push(ctx.Context, move.Count())
	} else {
		err = stack.Pop(ctx.Context, move.Count())
	}
	return move, err
}
