package curriculum

import (
	"math"
	"testing"
)

func TestProfileWeights_DefaultNeutral(t *testing.T) {
	p := NewLearnerProfile()
	if w := p.StyleWeight(StyleVisual); w != 0.5 {
		t.Errorf("StyleWeight = %v, want 0.5", w)
	}
	if w := p.TypeWeight(TypeQuiz); w != 0.5 {
		t.Errorf("TypeWeight = %v, want 0.5", w)
	}
	if w := p.DifficultyWeight(DifficultyHard); w != 0.5 {
		t.Errorf("DifficultyWeight = %v, want 0.5", w)
	}
}

func TestPreferenceScore(t *testing.T) {
	p := NewLearnerProfile()
	p.StylePreferences[StyleVisual] = 0.9
	p.TypePreferences[TypeVideo] = 0.8
	p.DifficultyPreferences[DifficultyEasy] = 0.7

	a := &Activity{Style: StyleVisual, Type: TypeVideo, Difficulty: DifficultyEasy}
	if got := p.PreferenceScore(a); math.Abs(got-2.4) > 1e-9 {
		t.Errorf("PreferenceScore = %v, want 2.4", got)
	}
}

func TestReviseTowards_EMA(t *testing.T) {
	p := NewLearnerProfile()
	a := &Activity{Style: StyleAuditory, Type: TypeDiscussion, Difficulty: DifficultyMedium}

	p.ReviseTowards(a, 1.0)
	// 0.3*1.0 + 0.7*0.5 = 0.65
	if got := p.StyleWeight(StyleAuditory); math.Abs(got-0.65) > 1e-9 {
		t.Errorf("after one revision StyleWeight = %v, want 0.65", got)
	}

	p.ReviseTowards(a, 0.0)
	// 0.3*0.0 + 0.7*0.65 = 0.455
	if got := p.StyleWeight(StyleAuditory); math.Abs(got-0.455) > 1e-9 {
		t.Errorf("after two revisions StyleWeight = %v, want 0.455", got)
	}
}

func TestReviseTowards_ClampsPerformance(t *testing.T) {
	p := NewLearnerProfile()
	a := &Activity{Style: StyleVisual, Type: TypeGame, Difficulty: DifficultyEasy}
	p.ReviseTowards(a, 3.0)
	if got := p.StyleWeight(StyleVisual); got > 1.0 {
		t.Errorf("StyleWeight = %v, want <= 1", got)
	}
}

func TestReviseTowards_NilMaps(t *testing.T) {
	p := &LearnerProfile{}
	a := &Activity{Style: StyleVisual, Type: TypeGame, Difficulty: DifficultyEasy}
	p.ReviseTowards(a, 0.8) // must not panic
	if len(p.StylePreferences) != 1 {
		t.Errorf("got %d style preferences, want 1", len(p.StylePreferences))
	}
}

func TestMarkPerformed(t *testing.T) {
	p := &LearnerProfile{}
	p.MarkPerformed([]string{"a1", "a2"})
	if !p.PerformedActivities["a1"] || !p.PerformedActivities["a2"] {
		t.Errorf("performed set = %v, want a1 and a2", p.PerformedActivities)
	}
}

func TestActivityLessons_SortedPositiveOnly(t *testing.T) {
	a := &Activity{Gains: map[string]int{"z": 10, "a": 20, "m": 0}}
	got := a.Lessons()
	if len(got) != 2 || got[0] != "a" || got[1] != "z" {
		t.Errorf("Lessons() = %v, want [a z]", got)
	}
}
