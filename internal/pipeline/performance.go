package pipeline

import (
	"math/rand"

	"github.com/pathweaver/pathweaver/internal/curriculum"
)

// PerformanceModel supplies the learner's performance score in [0,1] for a
// consumed activity. The score scales the activity's mastery gains when
// progress is committed.
type PerformanceModel interface {
	Perform(a *curriculum.Activity, iteration int) float64
}

// PerfectPerformance scores every activity at full effectiveness. It is
// the default model: consumed work delivers exactly the projected gains.
type PerfectPerformance struct{}

// Perform implements PerformanceModel.
func (PerfectPerformance) Perform(*curriculum.Activity, int) float64 { return 1.0 }

// RandomPerformance simulates a learner whose performance varies uniformly
// within [Min, Max]. The seeded source keeps simulations reproducible.
type RandomPerformance struct {
	rng *rand.Rand
	min float64
	max float64
}

// NewRandomPerformance creates a reproducible random performance model.
func NewRandomPerformance(seed int64, min, max float64) *RandomPerformance {
	if min < 0 {
		min = 0
	}
	if max > 1 {
		max = 1
	}
	if max < min {
		min, max = max, min
	}
	return &RandomPerformance{
		rng: rand.New(rand.NewSource(seed)),
		min: min,
		max: max,
	}
}

// Perform implements PerformanceModel.
func (r *RandomPerformance) Perform(*curriculum.Activity, int) float64 {
	return r.min + r.rng.Float64()*(r.max-r.min)
}
