package instance

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/pathweaver/pathweaver/internal/curriculum"
)

// Tier names a synthetic instance size class.
type Tier string

const (
	TierBasic        Tier = "basic"
	TierIntermediate Tier = "intermediate"
	TierAdvanced     Tier = "advanced"
)

// TierConfig bounds the random generation of one tier.
type TierConfig struct {
	LessonsMin       int
	LessonsMax       int
	ActivitiesMin    int
	ActivitiesMax    int
	MaxLessonsPerAct int
	MaxPrereqs       int
	GainMinPct       int // activity gain range, in mastery points
	GainMaxPct       int
}

// Tiers holds the built-in size classes, from small smoke instances to
// benchmark-scale ones.
var Tiers = map[Tier]TierConfig{
	TierBasic:        {LessonsMin: 5, LessonsMax: 8, ActivitiesMin: 50, ActivitiesMax: 70, MaxLessonsPerAct: 2, MaxPrereqs: 2, GainMinPct: 30, GainMaxPct: 40},
	TierIntermediate: {LessonsMin: 20, LessonsMax: 40, ActivitiesMin: 300, ActivitiesMax: 400, MaxLessonsPerAct: 3, MaxPrereqs: 4, GainMinPct: 20, GainMaxPct: 25},
	TierAdvanced:     {LessonsMin: 50, LessonsMax: 60, ActivitiesMin: 800, ActivitiesMax: 1000, MaxLessonsPerAct: 5, MaxPrereqs: 7, GainMinPct: 7, GainMaxPct: 12},
}

// durationRanges gives per-difficulty activity duration bounds in minutes.
var durationRanges = map[curriculum.Difficulty][2]int{
	curriculum.DifficultyEasy:   {10, 25},
	curriculum.DifficultyMedium: {20, 40},
	curriculum.DifficultyHard:   {30, 60},
}

// Generate synthesizes a random but well-formed instance document for a
// tier. The same tier and seed always produce the same document.
//
// Prerequisites only ever point at earlier lessons, so the lesson graph is
// acyclic by construction, with prerequisite counts ramping up toward the
// later (harder) lessons.
func Generate(tier Tier, seed int64) (*File, error) {
	cfg, ok := Tiers[tier]
	if !ok {
		return nil, fmt.Errorf("unknown tier %q", tier)
	}
	rng := rand.New(rand.NewSource(seed))

	numLessons := randBetween(rng, cfg.LessonsMin, cfg.LessonsMax)
	lessons := make([]FileLesson, numLessons)
	for i := range lessons {
		lessons[i] = FileLesson{
			ID:        fmt.Sprintf("lesson-%03d", i+1),
			Name:      fmt.Sprintf("Lesson %d", i+1),
			Threshold: float64(randBetween(rng, 60, 90)) / 100,
		}
	}

	// Later lessons carry more prerequisites; earlier ones stay light.
	for i := 1; i < numLessons; i++ {
		difficulty := float64(i) / float64(numLessons)
		maxPrereqs := int(float64(cfg.MaxPrereqs) * difficulty * 1.5)
		if maxPrereqs > i {
			maxPrereqs = i
		}
		n := 0
		if maxPrereqs > 0 {
			n = rng.Intn(maxPrereqs + 1)
		}
		for _, pi := range sampleInts(rng, i, n) {
			lessons[i].Prerequisites = append(lessons[i].Prerequisites, lessons[pi].ID)
		}
		sort.Strings(lessons[i].Prerequisites)
	}

	// Depth drives difficulty labels and duration scaling, mirroring how
	// deeper material takes longer to study.
	depth := lessonDepths(lessons)
	maxDepth := 1
	for _, d := range depth {
		if d > maxDepth {
			maxDepth = d
		}
	}

	types := curriculum.AllActivityTypes()
	numActivities := randBetween(rng, cfg.ActivitiesMin, cfg.ActivitiesMax)
	activities := make([]FileActivity, 0, numActivities)
	for i := 0; i < numActivities; i++ {
		actType := types[rng.Intn(len(types))]
		styles := curriculum.TypeStyles[actType]
		style := styles[rng.Intn(len(styles))]

		nTargets := randBetween(rng, 1, cfg.MaxLessonsPerAct)
		targets := sampleInts(rng, numLessons, nTargets)

		complexity := 0.0
		gains := make(map[string]float64, len(targets))
		for _, ti := range targets {
			gains[lessons[ti].ID] = float64(randBetween(rng, cfg.GainMinPct, cfg.GainMaxPct)) / 100
			complexity += float64(depth[ti]) / float64(maxDepth)
		}
		complexity /= float64(len(targets))

		diff := difficultyFor(complexity)
		dr := durationRanges[diff]
		base := randBetween(rng, dr[0], dr[1])
		duration := float64(base) * (0.5 + complexity*1.5)

		activities = append(activities, FileActivity{
			ID:         fmt.Sprintf("activity-%04d", i+1),
			Name:       fmt.Sprintf("Activity %d", i+1),
			Duration:   float64(int(duration*10)) / 10,
			Style:      string(style),
			Type:       string(actType),
			Difficulty: string(diff),
			Gains:      gains,
		})
	}

	return &File{Lessons: lessons, Activities: activities}, nil
}

func randBetween(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

// sampleInts draws n distinct ints from [0, limit) in random order.
func sampleInts(rng *rand.Rand, limit, n int) []int {
	if n > limit {
		n = limit
	}
	perm := rng.Perm(limit)
	return perm[:n]
}

// lessonDepths computes each lesson's prerequisite depth. Prerequisites
// always reference earlier entries, so a single forward pass suffices.
func lessonDepths(lessons []FileLesson) []int {
	index := make(map[string]int, len(lessons))
	for i, l := range lessons {
		index[l.ID] = i
	}
	depth := make([]int, len(lessons))
	for i, l := range lessons {
		for _, pre := range l.Prerequisites {
			if d := depth[index[pre]] + 1; d > depth[i] {
				depth[i] = d
			}
		}
	}
	return depth
}

func difficultyFor(complexity float64) curriculum.Difficulty {
	switch {
	case complexity < 0.33:
		return curriculum.DifficultyEasy
	case complexity < 0.66:
		return curriculum.DifficultyMedium
	default:
		return curriculum.DifficultyHard
	}
}
