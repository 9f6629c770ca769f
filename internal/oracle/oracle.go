// Package oracle orders commits the way they appear in upstream history.
//
// An Oracle knows a set of upstream heads. Every commit it knows belongs to
// the first head it is reachable from and is ordered chronologically within
// that head. Commits it does not know are left out of its answer.
package oracle

import (
	"context"
	"fmt"
	"sort"
)

// Placement locates one commit in upstream history.
type Placement struct {
	Head   string
	Commit string
}

// Oracle orders commits by upstream history.
type Oracle interface {
	// Order returns the known commits among commits in upstream order.
	Order(ctx context.Context, commits []string) ([]Placement, error)
}

// Mapping is a map from commit id to V that remembers insertion order.
type Mapping[V any] struct {
	keys   []string
	values map[string]V
}

// NewMapping returns an empty Mapping.
func NewMapping[V any]() *Mapping[V] {
	return &Mapping[V]{values: make(map[string]V)}
}

// Set stores v under commit. A commit keeps the position of its first Set.
func (m *Mapping[V]) Set(commit string, v V) {
	if _, ok := m.values[commit]; !ok {
		m.keys = append(m.keys, commit)
	}
	m.values[commit] = v
}

// Get returns the value stored under commit.
func (m *Mapping[V]) Get(commit string) (V, bool) {
	v, ok := m.values[commit]
	return v, ok
}

// Has reports whether commit is in the mapping.
func (m *Mapping[V]) Has(commit string) bool {
	_, ok := m.values[commit]
	return ok
}

// Keys returns the commits in insertion order.
func (m *Mapping[V]) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Len returns the number of commits.
func (m *Mapping[V]) Len() int {
	return len(m.keys)
}

// Item is a mapping entry placed by the oracle.
type Item[V any] struct {
	Head   string
	Commit string
	Value  V
}

// Sort submits the commits of m to o. It returns the entries the oracle
// placed, in upstream order, and the residue: the commits it left out, in
// insertion order. m is not modified.
func Sort[V any](ctx context.Context, o Oracle, m *Mapping[V]) ([]Item[V], []string, error) {
	placements, err := o.Order(ctx, m.Keys())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to order commits: %w", err)
	}

	placed := make(map[string]bool, len(placements))
	items := make([]Item[V], 0, len(placements))
	for _, p := range placements {
		v, ok := m.Get(p.Commit)
		if !ok || placed[p.Commit] {
			continue
		}
		placed[p.Commit] = true
		items = append(items, Item[V]{Head: p.Head, Commit: p.Commit, Value: v})
	}

	var residue []string
	for _, k := range m.keys {
		if !placed[k] {
			residue = append(residue, k)
		}
	}

	return items, residue, nil
}

// position is the rank of a commit in an index.
type position struct {
	head int
	seq  int
}

// index ranks known commits.
type index struct {
	names     []string
	positions map[string]position
}

func (ix *index) order(commits []string) []Placement {
	type ranked struct {
		commit string
		pos    position
	}
	var found []ranked
	seen := make(map[string]bool, len(commits))
	for _, c := range commits {
		pos, ok := ix.positions[c]
		if !ok || seen[c] {
			continue
		}
		seen[c] = true
		found = append(found, ranked{commit: c, pos: pos})
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].pos.head != found[j].pos.head {
			return found[i].pos.head < found[j].pos.head
		}
		return found[i].pos.seq < found[j].pos.seq
	})

	result := make([]Placement, len(found))
	for i, f := range found {
		result[i] = Placement{Head: ix.names[f.pos.head], Commit: f.commit}
	}
	return result
}
