package curriculum

// DefaultPreferenceAlpha is the EMA smoothing factor for preference updates.
const DefaultPreferenceAlpha = 0.3

// neutralPreference is the starting weight for unseen styles, types, and
// difficulty bands.
const neutralPreference = 0.5

// LearnerProfile holds a learner's starting mastery and soft preferences.
// The profile is read-only during a selection/clustering pass; only the
// iteration controller mutates it between cycles.
type LearnerProfile struct {
	// InitialMastery maps lesson ID to starting mastery points. Lessons
	// absent from the map start at zero.
	InitialMastery map[string]int

	// Preference weights in [0,1], higher means more preferred. Unset
	// entries default to a neutral 0.5.
	StylePreferences      map[Style]float64
	TypePreferences       map[ActivityType]float64
	DifficultyPreferences map[Difficulty]float64

	// PerformedActivities holds IDs of activities already consumed across
	// earlier sprints; the selector never re-selects them.
	PerformedActivities map[string]bool

	// PreferenceAlpha is the EMA factor applied when preferences are
	// revised from observed performance. Zero means DefaultPreferenceAlpha.
	PreferenceAlpha float64
}

// NewLearnerProfile returns an empty profile with neutral preferences.
func NewLearnerProfile() *LearnerProfile {
	return &LearnerProfile{
		InitialMastery:        make(map[string]int),
		StylePreferences:      make(map[Style]float64),
		TypePreferences:       make(map[ActivityType]float64),
		DifficultyPreferences: make(map[Difficulty]float64),
		PerformedActivities:   make(map[string]bool),
		PreferenceAlpha:       DefaultPreferenceAlpha,
	}
}

// StyleWeight returns the learner's preference weight for a style.
func (p *LearnerProfile) StyleWeight(s Style) float64 {
	if w, ok := p.StylePreferences[s]; ok {
		return w
	}
	return neutralPreference
}

// TypeWeight returns the learner's preference weight for an activity type.
func (p *LearnerProfile) TypeWeight(t ActivityType) float64 {
	if w, ok := p.TypePreferences[t]; ok {
		return w
	}
	return neutralPreference
}

// DifficultyWeight returns the learner's preference weight for a difficulty band.
func (p *LearnerProfile) DifficultyWeight(d Difficulty) float64 {
	if w, ok := p.DifficultyPreferences[d]; ok {
		return w
	}
	return neutralPreference
}

// PreferenceScore scores how well an activity matches the learner's
// preferences. Used only as a tie-break among equal-duration selections;
// it never influences the duration objective.
func (p *LearnerProfile) PreferenceScore(a *Activity) float64 {
	return p.StyleWeight(a.Style) + p.TypeWeight(a.Type) + p.DifficultyWeight(a.Difficulty)
}

// MarkPerformed records activities as consumed so later selections skip them.
func (p *LearnerProfile) MarkPerformed(activityIDs []string) {
	if p.PerformedActivities == nil {
		p.PerformedActivities = make(map[string]bool)
	}
	for _, id := range activityIDs {
		p.PerformedActivities[id] = true
	}
}

// ReviseTowards nudges the preference weights for an activity's style, type,
// and difficulty toward an observed performance score in [0,1] using an
// exponential moving average.
func (p *LearnerProfile) ReviseTowards(a *Activity, performance float64) {
	alpha := p.PreferenceAlpha
	if alpha == 0 {
		alpha = DefaultPreferenceAlpha
	}
	if p.StylePreferences == nil {
		p.StylePreferences = make(map[Style]float64)
	}
	if p.TypePreferences == nil {
		p.TypePreferences = make(map[ActivityType]float64)
	}
	if p.DifficultyPreferences == nil {
		p.DifficultyPreferences = make(map[Difficulty]float64)
	}
	if performance < 0 {
		performance = 0
	}
	if performance > 1 {
		performance = 1
	}
	p.StylePreferences[a.Style] = ema(p.StyleWeight(a.Style), performance, alpha)
	p.TypePreferences[a.Type] = ema(p.TypeWeight(a.Type), performance, alpha)
	p.DifficultyPreferences[a.Difficulty] = ema(p.DifficultyWeight(a.Difficulty), performance, alpha)
}

func ema(prev, observed, alpha float64) float64 {
	return alpha*observed + (1-alpha)*prev
}
