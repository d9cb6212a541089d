package mastery

import (
	"github.com/pathweaver/pathweaver/internal/curriculum"
)

// Project returns the mastery state induced by performing the given
// activities on top of the prior state. Gains targeting the same lesson are
// additive, then clamped to the mastery ceiling. Pure: the prior state is
// never modified.
func Project(prior State, activities []*curriculum.Activity) State {
	next := prior.Clone()
	for _, a := range activities {
		for lessonID, gain := range a.Gains {
			if gain <= 0 {
				continue
			}
			next[lessonID] = clampPoints(next.Get(lessonID) + gain)
		}
	}
	return next
}

// ProjectPerformed is Project with a per-activity performance multiplier in
// [0,1] applied to every gain, modelling partially effective study. An
// activity absent from the performance map counts at full effectiveness.
func ProjectPerformed(prior State, activities []*curriculum.Activity, performance map[string]float64) State {
	next := prior.Clone()
	for _, a := range activities {
		mult := 1.0
		if p, ok := performance[a.ID]; ok {
			switch {
			case p < 0:
				mult = 0
			case p > 1:
				mult = 1
			default:
				mult = p
			}
		}
		for lessonID, gain := range a.Gains {
			if gain <= 0 {
				continue
			}
			scaled := int(float64(gain) * mult)
			next[lessonID] = clampPoints(next.Get(lessonID) + scaled)
		}
	}
	return next
}
