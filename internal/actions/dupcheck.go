package actions

import (
	"fmt"
	"strings"

	ksaerrors "github.com/benthaman/ksapply/internal/errors"
	"github.com/benthaman/ksapply/internal/output"
	"github.com/benthaman/ksapply/internal/runtime"
	"github.com/benthaman/ksapply/internal/tag"
)

// DupcheckOptions contains options for the dupcheck command
type DupcheckOptions struct {
	Rev string
}

// DupcheckAction reports the patch that already backports Rev, if any. It
// returns ErrAlreadyPresent when one does.
func DupcheckAction(ctx *runtime.Context, opts DupcheckOptions) (*tag.Match, error) {
	doc, err := ctx.Document()
	if err != nil {
		return nil, err
	}
	if err := doc.CheckHeader(); err != nil {
		return nil, err
	}

	repo, err := ctx.Repository()
	if err != nil {
		return nil, err
	}
	commit, err := repo.ResolveCommit(opts.Rev)
	if err != nil {
		return nil, err
	}

	match, err := tag.FindCommit(ctx.Config.PatchesDir, doc.Names(), commit)
	if err != nil {
		return nil, err
	}
	if match == nil {
		ctx.Splog.Debug("commit %s is not in the series", output.ShortCommit(commit))
		return nil, nil
	}

	references := ""
	if len(match.References) > 0 {
		references = fmt.Sprintf(" for %q", strings.Join(match.References, " "))
	}
	ctx.Splog.Info("Commit %s already present in patch %q%s.",
		output.ColorCommit(output.ShortCommit(commit)), match.Patch, references)

	// A tree without quilt still gets the answer above.
	top, err := ctx.Top()
	if err != nil {
		ctx.Splog.Debug("could not get the top patch: %v", err)
	} else if top == match.Patch {
		ctx.Splog.Info("This is the top patch.")
	}

	return match, ksaerrors.ErrAlreadyPresent
}
