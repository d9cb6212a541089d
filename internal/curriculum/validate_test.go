package curriculum

import (
	"errors"
	"strings"
	"testing"
)

func validLessons() []Lesson {
	return []Lesson{
		{ID: "a", Threshold: 60},
		{ID: "b", Threshold: 70, Prerequisites: []string{"a"}},
	}
}

func validActivities() []Activity {
	return []Activity{
		{ID: "act1", Duration: 10, Style: StyleVisual, Type: TypeVideo, Difficulty: DifficultyEasy,
			Gains: map[string]int{"a": 70}},
		{ID: "act2", Duration: 15, Style: StyleReading, Type: TypeQuiz, Difficulty: DifficultyMedium,
			Gains: map[string]int{"b": 80}},
	}
}

func TestNewInstance_Valid(t *testing.T) {
	inst, err := NewInstance(validLessons(), validActivities())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inst.Graph().Len() != 2 {
		t.Errorf("got %d lessons, want 2", inst.Graph().Len())
	}
	if got := inst.Providers("a"); len(got) != 1 || got[0] != "act1" {
		t.Errorf("Providers(a) = %v, want [act1]", got)
	}
}

func TestNewInstance_Malformed(t *testing.T) {
	tests := []struct {
		name       string
		lessons    []Lesson
		activities []Activity
		problem    string
	}{
		{
			name:       "no lessons",
			activities: validActivities(),
			problem:    "at least one lesson",
		},
		{
			name:       "duplicate lesson id",
			lessons:    append(validLessons(), Lesson{ID: "a", Threshold: 50}),
			activities: validActivities(),
			problem:    "duplicate lesson",
		},
		{
			name:       "threshold out of range",
			lessons:    []Lesson{{ID: "a", Threshold: 150}},
			activities: validActivities(),
			problem:    "threshold",
		},
		{
			name:       "self prerequisite",
			lessons:    []Lesson{{ID: "a", Threshold: 60, Prerequisites: []string{"a"}}},
			activities: validActivities(),
			problem:    "itself as a prerequisite",
		},
		{
			name:       "dangling prerequisite",
			lessons:    []Lesson{{ID: "a", Threshold: 60, Prerequisites: []string{"ghost"}}},
			activities: validActivities(),
			problem:    "nonexistent prerequisite",
		},
		{
			name: "cycle",
			lessons: []Lesson{
				{ID: "a", Threshold: 60, Prerequisites: []string{"b"}},
				{ID: "b", Threshold: 60, Prerequisites: []string{"a"}},
			},
			activities: validActivities(),
			problem:    "cycle",
		},
		{
			name:    "zero duration activity",
			lessons: validLessons(),
			activities: []Activity{
				{ID: "bad", Duration: 0, Gains: map[string]int{"a": 50}},
			},
			problem: "duration",
		},
		{
			name:    "negative gain",
			lessons: validLessons(),
			activities: []Activity{
				{ID: "bad", Duration: 5, Gains: map[string]int{"a": -10}},
			},
			problem: "negative",
		},
		{
			name:    "gain references unknown lesson",
			lessons: validLessons(),
			activities: []Activity{
				{ID: "bad", Duration: 5, Gains: map[string]int{"ghost": 50}},
			},
			problem: "nonexistent lesson",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInstance(tt.lessons, tt.activities)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var malformed *MalformedInstanceError
			if !errors.As(err, &malformed) {
				t.Fatalf("expected *MalformedInstanceError, got %T", err)
			}
			found := false
			for _, p := range malformed.Problems {
				if strings.Contains(p, tt.problem) {
					found = true
				}
			}
			if !found {
				t.Errorf("no problem mentioning %q in %v", tt.problem, malformed.Problems)
			}
		})
	}
}

func TestNewInstance_CollectsAllProblems(t *testing.T) {
	lessons := []Lesson{
		{ID: "a", Threshold: 200},
		{ID: "a", Threshold: 60},
	}
	activities := []Activity{
		{ID: "x", Duration: -1, Gains: map[string]int{"ghost": 10}},
	}
	_, err := NewInstance(lessons, activities)
	var malformed *MalformedInstanceError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected *MalformedInstanceError, got %v", err)
	}
	if len(malformed.Problems) < 3 {
		t.Errorf("got %d problems, want at least 3: %v", len(malformed.Problems), malformed.Problems)
	}
}
