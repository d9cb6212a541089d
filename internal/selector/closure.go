package selector

import (
	"sort"

	"github.com/pathweaver/pathweaver/internal/curriculum"
)

// closureResult is the outcome of simulating a candidate subset in
// prerequisite order.
type closureResult struct {
	final      []int  // mastery points per lesson after all applicable work
	applied    []bool // per selected position, whether it ever became applicable
	allApplied bool
	blocked    []int // candidate indices that never unlocked
}

// applyClosure runs the fixed-point unlocking closure over a candidate
// subset: in each round every not-yet-applied candidate whose gained
// lessons all have their ancestors at threshold is applied, accumulating
// mastery, until a round makes no progress. An activity left unapplied
// means the subset cannot be ordered into a prerequisite-valid sequence.
func (m *Model) applyClosure(selected []int) closureResult {
	res := closureResult{
		final:   make([]int, len(m.Lessons)),
		applied: make([]bool, len(selected)),
	}
	for i, l := range m.Lessons {
		res.final[i] = l.Prior
	}

	remaining := len(selected)
	for remaining > 0 {
		progress := false
		for pos, ci := range selected {
			if res.applied[pos] {
				continue
			}
			if !m.unlocked(m.Candidates[ci], res.final) {
				continue
			}
			for lessonIdx, gain := range m.Candidates[ci].Gains {
				res.final[lessonIdx] += gain
				if res.final[lessonIdx] > curriculum.MasteryScale {
					res.final[lessonIdx] = curriculum.MasteryScale
				}
			}
			res.applied[pos] = true
			remaining--
			progress = true
		}
		if !progress {
			break
		}
	}

	res.allApplied = remaining == 0
	for pos, ci := range selected {
		if !res.applied[pos] {
			res.blocked = append(res.blocked, ci)
		}
	}
	return res
}

// unlocked reports whether every ancestor of every lesson the candidate
// gains has reached its threshold under the given mastery vector.
func (m *Model) unlocked(c Candidate, points []int) bool {
	for lessonIdx := range c.Gains {
		for _, ancIdx := range m.Lessons[lessonIdx].Ancestors {
			if points[ancIdx] < m.Lessons[ancIdx].Threshold {
				return false
			}
		}
	}
	return true
}

// thresholdsMet reports whether every lesson reaches its threshold under
// the given mastery vector.
func (m *Model) thresholdsMet(points []int) bool {
	for i, l := range m.Lessons {
		if points[i] < l.Threshold {
			return false
		}
	}
	return true
}

// unreachableLessons runs the closure over the entire candidate pool and
// returns the IDs of lessons whose thresholds still cannot be reached.
// A non-empty result proves the model infeasible; an empty result
// guarantees at least one feasible selection exists (the applied pool
// itself).
func (m *Model) unreachableLessons() []string {
	all := make([]int, len(m.Candidates))
	for i := range m.Candidates {
		all[i] = i
	}
	res := m.applyClosure(all)

	var out []string
	for i, l := range m.Lessons {
		if res.final[i] < l.Threshold {
			out = append(out, l.ID)
		}
	}
	sort.Strings(out)
	return out
}
