package sequence

import (
	"context"
	"fmt"

	"github.com/benthaman/ksapply/internal/oracle"
	"github.com/benthaman/ksapply/internal/series"
)

// Move is a signed number of patches to push (positive) or pop (negative).
type Move struct {
	Delta int
}

// Nothing reports whether the stack is already in place.
func (m Move) Nothing() bool {
	return m.Delta == 0
}

// Count returns the number of patches to push or pop.
func (m Move) Count() int {
	if m.Delta < 0 {
		return -m.Delta
	}
	return m.Delta
}

// String returns the quilt command performing the move, "" for none.
func (m Move) String() string {
	switch {
	case m.Delta > 0:
		return fmt.Sprintf("push %d", m.Delta)
	case m.Delta < 0:
		return fmt.Sprintf("pop %d", -m.Delta)
	default:
		return ""
	}
}

// Locator computes how to move the applied stack to the position a commit
// has, or would have, in the sorted subsection.
type Locator struct {
	Oracle   oracle.Oracle
	CommitOf CommitFunc
}

// NewLocator creates a Locator.
func NewLocator(o oracle.Oracle, commitOf CommitFunc) *Locator {
	return &Locator{Oracle: o, CommitOf: commitOf}
}

// Locate returns the move that leaves the stack with the last patch before
// commit's position on top, or the last patch of commit when it is already
// present. top is the topmost applied patch, "" when none is applied.
func (l *Locator) Locate(ctx context.Context, doc *series.Document, commit, top string) (Move, error) {
	sub, err := newSubseries(doc.SortedNames(), l.CommitOf)
	if err != nil {
		return Move{}, err
	}

	current := sub.position(top)
	base := 0
	if current == 0 {
		topPos, err := stackPosition(doc.Names(), top)
		if err != nil {
			return Move{}, err
		}
		base = len(doc.Header().Names()) - topPos
	} else if c, err := l.CommitOf(top); err == nil && c == commit && sub.last[c] == current {
		return Move{}, nil
	}

	target, err := sub.place(ctx, l.Oracle, commit)
	if err != nil {
		return Move{}, err
	}
	return Move{Delta: base + target - current}, nil
}
