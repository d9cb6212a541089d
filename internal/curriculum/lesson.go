package curriculum

// MasteryScale is the integer basis for mastery values. All mastery levels,
// thresholds, and activity gains are tracked as integer points in
// [0, MasteryScale] so that solver arithmetic stays exact; the float [0,1]
// surface used by instance files is converted at load time.
const MasteryScale = 100

// Lesson represents a single learning objective in the curriculum.
// A lesson is complete once the learner's mastery reaches Threshold.
type Lesson struct {
	ID            string
	Name          string
	Threshold     int      // required mastery in points, 0..MasteryScale
	Prerequisites []string // lesson IDs that must reach their thresholds first
}

// PointsFromFraction converts a [0,1] mastery fraction to integer points.
// Values are rounded half-up; the result is clamped to [0, MasteryScale].
func PointsFromFraction(f float64) int {
	p := int(f*MasteryScale + 0.5)
	if p < 0 {
		return 0
	}
	if p > MasteryScale {
		return MasteryScale
	}
	return p
}

// FractionFromPoints converts integer mastery points back to a [0,1] fraction.
func FractionFromPoints(p int) float64 {
	return float64(p) / MasteryScale
}
