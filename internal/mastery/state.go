package mastery

import (
	"sort"

	"github.com/pathweaver/pathweaver/internal/curriculum"
)

// State maps lesson IDs to mastery points in [0, curriculum.MasteryScale].
// A lesson absent from the map is at zero mastery.
type State map[string]int

// NewState builds an initial state from a learner profile, clamping every
// entry into the valid range.
func NewState(initial map[string]int) State {
	s := make(State, len(initial))
	for id, v := range initial {
		s[id] = clampPoints(v)
	}
	return s
}

// Get returns the mastery points for a lesson, zero if untracked.
func (s State) Get(lessonID string) int {
	return s[lessonID]
}

// Clone returns an independent copy of the state.
func (s State) Clone() State {
	out := make(State, len(s))
	for id, v := range s {
		out[id] = v
	}
	return out
}

// Meets reports whether the lesson's threshold is satisfied.
func (s State) Meets(l curriculum.Lesson) bool {
	return s.Get(l.ID) >= l.Threshold
}

// Gap returns the total unmet mastery over all lessons:
// the sum of max(0, threshold - mastery). Zero means every threshold is met.
func (s State) Gap(g *curriculum.Graph) int {
	total := 0
	for _, l := range g.Lessons() {
		if d := l.Threshold - s.Get(l.ID); d > 0 {
			total += d
		}
	}
	return total
}

// UnmetLessons returns the IDs of lessons whose thresholds are not yet met,
// sorted.
func (s State) UnmetLessons(g *curriculum.Graph) []string {
	var out []string
	for _, l := range g.Lessons() {
		if !s.Meets(l) {
			out = append(out, l.ID)
		}
	}
	sort.Strings(out)
	return out
}

// Fractions converts the state to the float [0,1] surface, covering every
// lesson in the graph.
func (s State) Fractions(g *curriculum.Graph) map[string]float64 {
	out := make(map[string]float64, g.Len())
	for _, l := range g.Lessons() {
		out[l.ID] = curriculum.FractionFromPoints(s.Get(l.ID))
	}
	return out
}

func clampPoints(v int) int {
	if v < 0 {
		return 0
	}
	if v > curriculum.MasteryScale {
		return curriculum.MasteryScale
	}
	return v
}
