package sequence

import (
	"context"
	"slices"

	ksaerrors "github.com/benthaman/ksapply/internal/errors"
	"github.com/benthaman/ksapply/internal/oracle"
	"github.com/benthaman/ksapply/internal/series"
)

// Plan says where a new patch goes and how to move the stack to get there.
type Plan struct {
	// Anchor is the patch the new one goes after. When BeforeSorted is set
	// the patch goes in front of the sorted subsection, after Anchor, the
	// last patch of the header, or at the very top when Anchor is "".
	Anchor       string
	BeforeSorted bool
	// Delta moves the stack so that Anchor is the top patch.
	Delta int
}

// Move returns the stack movement of the plan.
func (p Plan) Move() Move {
	return Move{Delta: p.Delta}
}

// Planner decides where a commit has to be inserted in the sorted
// subsection of a series.
type Planner struct {
	Oracle   oracle.Oracle
	CommitOf CommitFunc
}

// NewPlanner creates a Planner.
func NewPlanner(o oracle.Oracle, commitOf CommitFunc) *Planner {
	return &Planner{Oracle: o, CommitOf: commitOf}
}

// Insert plans the insertion of commit into doc. top is the topmost applied
// patch, "" when none is applied.
//
// A commit that is already present is placed after its last patch.
func (p *Planner) Insert(ctx context.Context, doc *series.Document, commit, top string) (Plan, error) {
	topPos, err := stackPosition(doc.Names(), top)
	if err != nil {
		return Plan{}, err
	}

	sub, err := newSubseries(doc.SortedNames(), p.CommitOf)
	if err != nil {
		return Plan{}, err
	}
	target, err := sub.place(ctx, p.Oracle, commit)
	if err != nil {
		return Plan{}, err
	}

	header := doc.Header().Names()
	plan := Plan{Delta: len(header) + target - topPos}
	if target == 0 {
		plan.BeforeSorted = true
		if len(header) > 0 {
			plan.Anchor = header[len(header)-1]
		}
	} else {
		plan.Anchor = sub.names[target-1]
	}
	return plan, nil
}

// stackPosition returns the 1-based position of top in names, 0 for "".
func stackPosition(names []string, top string) (int, error) {
	if top == "" {
		return 0, nil
	}
	i := slices.Index(names, top)
	if i < 0 {
		return 0, ksaerrors.NewPatchNotFoundError(top, "series")
	}
	return i + 1, nil
}
