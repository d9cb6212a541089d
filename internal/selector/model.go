package selector

import (
	"sort"

	"github.com/pathweaver/pathweaver/internal/curriculum"
	"github.com/pathweaver/pathweaver/internal/mastery"
)

// durationScale converts float64 minutes into integer milliminutes so the
// objective arithmetic is exact and equal-duration ties compare exactly.
const durationScale = 1000

// LessonNode is a lesson as seen by the optimization backend: integer
// indices instead of IDs, thresholds and prior mastery in points.
type LessonNode struct {
	ID        string
	Threshold int
	Prior     int
	Ancestors []int // indices of transitive prerequisite lessons
}

// Candidate is a selectable activity as seen by the backend. Candidates are
// ordered by ascending topological rank of the deepest lesson they touch,
// with activity ID as the final tie-break, which doubles as the backend's
// branching order.
type Candidate struct {
	ID         string
	Duration   int64       // milliminutes
	Gains      map[int]int // lesson index -> mastery points
	Preference float64     // learner preference score, tie-break only
}

// Model is a fully materialized selection problem: decision variables are
// one boolean per candidate, constraints are the per-lesson mastery
// thresholds plus prerequisite unlocking, and the objective is total
// duration. Model construction is deterministic for identical inputs.
type Model struct {
	Lessons    []LessonNode
	Candidates []Candidate

	lessonIndex map[string]int
}

// buildModel translates an instance, profile, and current mastery state
// into backend form. Activities already performed and activities with no
// positive gains are excluded from the candidate set.
func buildModel(inst *curriculum.Instance, profile *curriculum.LearnerProfile, state mastery.State) *Model {
	g := inst.Graph()
	order := g.TopologicalOrder()

	m := &Model{
		Lessons:     make([]LessonNode, 0, len(order)),
		lessonIndex: make(map[string]int, len(order)),
	}
	for i, id := range order {
		m.lessonIndex[id] = i
	}
	for _, id := range order {
		l, _ := g.Lesson(id)
		node := LessonNode{
			ID:        l.ID,
			Threshold: l.Threshold,
			Prior:     state.Get(l.ID),
		}
		for _, ancID := range g.Ancestors(l.ID) {
			node.Ancestors = append(node.Ancestors, m.lessonIndex[ancID])
		}
		sort.Ints(node.Ancestors)
		m.Lessons = append(m.Lessons, node)
	}

	type ranked struct {
		cand Candidate
		rank int
	}
	var cands []ranked
	for _, a := range inst.Activities() {
		if profile != nil && profile.PerformedActivities[a.ID] {
			continue
		}
		gains := make(map[int]int)
		rank := -1
		for lessonID, gain := range a.Gains {
			if gain <= 0 {
				continue
			}
			idx := m.lessonIndex[lessonID]
			gains[idx] = gain
			if r := g.TopoIndex(lessonID); r > rank {
				rank = r
			}
		}
		if len(gains) == 0 {
			continue
		}
		pref := 0.0
		if profile != nil {
			ac := a
			pref = profile.PreferenceScore(&ac)
		}
		cands = append(cands, ranked{
			cand: Candidate{
				ID:         a.ID,
				Duration:   scaleDuration(a.Duration),
				Gains:      gains,
				Preference: pref,
			},
			rank: rank,
		})
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].rank != cands[j].rank {
			return cands[i].rank < cands[j].rank
		}
		return cands[i].cand.ID < cands[j].cand.ID
	})
	for _, c := range cands {
		m.Candidates = append(m.Candidates, c.cand)
	}
	return m
}

// need returns the unmet points per lesson under the model's prior mastery.
func (m *Model) need() []int {
	needs := make([]int, len(m.Lessons))
	for i, l := range m.Lessons {
		if d := l.Threshold - l.Prior; d > 0 {
			needs[i] = d
		}
	}
	return needs
}

// totalNeed sums the unmet points across all lessons.
func (m *Model) totalNeed() int {
	total := 0
	for _, n := range m.need() {
		total += n
	}
	return total
}

func scaleDuration(minutes float64) int64 {
	return int64(minutes*durationScale + 0.5)
}

func unscaleDuration(d int64) float64 {
	return float64(d) / durationScale
}
