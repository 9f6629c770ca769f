package actions

import (
	"github.com/benthaman/ksapply/internal/runtime"
	"github.com/benthaman/ksapply/internal/sequence"
)

// CheckAction verifies the series file: its sanity header, its sorted
// subsection, the provenance of every sorted patch and their upstream order.
func CheckAction(ctx *runtime.Context) error {
	doc, err := ctx.Document()
	if err != nil {
		return err
	}
	if err := doc.CheckHeader(); err != nil {
		return err
	}

	o, err := ctx.UpstreamOracle()
	if err != nil {
		return err
	}
	if err := sequence.Check(ctx.Context, o, doc, ctx.CommitOf()); err != nil {
		return err
	}

	ctx.Splog.Debug("%d sorted patches in upstream order", len(doc.SortedNames()))
	return nil
}
