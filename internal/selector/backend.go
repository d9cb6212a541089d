package selector

import (
	"context"
	"sort"
)

// Backend is a pluggable optimization backend for the selection problem.
// Any compliant solver satisfies it: it receives a fully materialized Model
// and returns the minimum-duration assignment, an *InfeasibleError, or a
// best-effort assignment with Optimal=false when the context deadline
// expires first. Implementations must be deterministic for identical
// models regardless of internal parallelism.
type Backend interface {
	Solve(ctx context.Context, m *Model) (*Solution, error)
}

// Solution is a backend assignment: which candidates are selected.
type Solution struct {
	Selected []int // candidate indices, ascending
	Duration int64 // total duration in milliminutes
	Optimal  bool  // false when the time budget expired before optimality proof
}

// better reports whether solution a beats solution b under the objective
// and tie-break rules: lower duration first, then higher preference score,
// then lexicographically smaller sorted activity-ID set. A nil solution
// always loses.
func better(m *Model, a, b *Solution) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	if a.Duration != b.Duration {
		return a.Duration < b.Duration
	}
	ap, bp := m.preferenceSum(a.Selected), m.preferenceSum(b.Selected)
	if ap != bp {
		return ap > bp
	}
	ai, bi := m.idKey(a.Selected), m.idKey(b.Selected)
	return ai < bi
}

// preferenceSum totals the learner preference scores of the selected
// candidates.
func (m *Model) preferenceSum(selected []int) float64 {
	total := 0.0
	for _, ci := range selected {
		total += m.Candidates[ci].Preference
	}
	return total
}

// idKey builds a canonical comparison key from the sorted activity IDs of a
// selection.
func (m *Model) idKey(selected []int) string {
	ids := make([]string, 0, len(selected))
	for _, ci := range selected {
		ids = append(ids, m.Candidates[ci].ID)
	}
	sort.Strings(ids)
	key := ""
	for _, id := range ids {
		key += id + "\x00"
	}
	return key
}
