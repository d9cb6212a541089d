package sprint

import (
	"errors"
	"reflect"
	"sort"
	"testing"

	"github.com/pathweaver/pathweaver/internal/curriculum"
	"github.com/pathweaver/pathweaver/internal/mastery"
)

func mustInstance(t *testing.T, lessons []curriculum.Lesson, activities []curriculum.Activity) *curriculum.Instance {
	t.Helper()
	inst, err := curriculum.NewInstance(lessons, activities)
	if err != nil {
		t.Fatalf("build instance: %v", err)
	}
	return inst
}

func TestBuild_OrdersByLayer(t *testing.T) {
	inst := mustInstance(t,
		[]curriculum.Lesson{
			{ID: "A", Threshold: 70},
			{ID: "B", Threshold: 80, Prerequisites: []string{"A"}},
		},
		[]curriculum.Activity{
			{ID: "a1", Duration: 2, Gains: map[string]int{"A": 70}},
			{ID: "b1", Duration: 3, Gains: map[string]int{"B": 80}},
		},
	)
	c := &Clusterer{}
	sprints, err := c.Build(inst, []string{"a1", "b1"}, mastery.NewState(nil))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(sprints) != 2 {
		t.Fatalf("got %d sprints, want 2", len(sprints))
	}
	if !reflect.DeepEqual(sprints[0].Activities, []string{"a1"}) {
		t.Errorf("sprint 1 = %v, want [a1]", sprints[0].Activities)
	}
	if !reflect.DeepEqual(sprints[1].Activities, []string{"b1"}) {
		t.Errorf("sprint 2 = %v, want [b1]", sprints[1].Activities)
	}
}

func TestBuild_ExactPartition(t *testing.T) {
	inst := flatInstance(t, 7)
	chosen := []string{"act0", "act1", "act2", "act3", "act4", "act5", "act6"}

	c := &Clusterer{MaxSprintSize: 3}
	sprints, err := c.Build(inst, chosen, mastery.NewState(nil))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var all []string
	for _, sp := range sprints {
		if sp.Len() > 3 {
			t.Errorf("sprint size %d exceeds bound 3: %v", sp.Len(), sp.Activities)
		}
		all = append(all, sp.Activities...)
	}
	sort.Strings(all)
	want := append([]string(nil), chosen...)
	sort.Strings(want)
	if !reflect.DeepEqual(all, want) {
		t.Errorf("partition = %v, want exactly %v", all, want)
	}
}

func TestBuild_RespectsPrerequisites(t *testing.T) {
	// Chain of three lessons, one provider each. The providers must come
	// out in chain order whatever the grouping.
	inst := mustInstance(t,
		[]curriculum.Lesson{
			{ID: "A", Threshold: 50},
			{ID: "B", Threshold: 50, Prerequisites: []string{"A"}},
			{ID: "C", Threshold: 50, Prerequisites: []string{"B"}},
		},
		[]curriculum.Activity{
			{ID: "pa", Duration: 1, Gains: map[string]int{"A": 50}},
			{ID: "pb", Duration: 1, Gains: map[string]int{"B": 50}},
			{ID: "pc", Duration: 1, Gains: map[string]int{"C": 50}},
		},
	)
	c := &Clusterer{MaxSprintSize: 1}
	sprints, err := c.Build(inst, []string{"pc", "pa", "pb"}, mastery.NewState(nil))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	pos := make(map[string]int)
	for i, sp := range sprints {
		for _, id := range sp.Activities {
			pos[id] = i
		}
	}
	if !(pos["pa"] < pos["pb"] && pos["pb"] < pos["pc"]) {
		t.Errorf("sprint positions pa=%d pb=%d pc=%d violate the chain order",
			pos["pa"], pos["pb"], pos["pc"])
	}
}

func TestBuild_EmptySelection(t *testing.T) {
	inst := flatInstance(t, 2)
	c := &Clusterer{}
	sprints, err := c.Build(inst, nil, mastery.NewState(nil))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if sprints != nil {
		t.Errorf("got %v, want nil", sprints)
	}
}

func TestBuild_UnknownActivity(t *testing.T) {
	inst := flatInstance(t, 2)
	c := &Clusterer{}
	if _, err := c.Build(inst, []string{"ghost"}, mastery.NewState(nil)); err == nil {
		t.Fatal("expected error for unknown activity")
	}
}

func TestBuild_Conflict(t *testing.T) {
	// x and y each gain the lesson that unlocks the other's deeper target,
	// so neither can ever go first.
	inst := mustInstance(t,
		[]curriculum.Lesson{
			{ID: "p", Threshold: 50},
			{ID: "q", Threshold: 50},
			{ID: "r", Threshold: 50, Prerequisites: []string{"p"}},
			{ID: "s", Threshold: 50, Prerequisites: []string{"q"}},
		},
		[]curriculum.Activity{
			{ID: "x", Duration: 1, Gains: map[string]int{"q": 50, "r": 50}},
			{ID: "y", Duration: 1, Gains: map[string]int{"p": 50, "s": 50}},
		},
	)
	c := &Clusterer{}
	_, err := c.Build(inst, []string{"x", "y"}, mastery.NewState(nil))
	if err == nil {
		t.Fatal("expected conflict error, got nil")
	}
	if !errors.Is(err, ErrConflict) {
		t.Errorf("errors.Is(err, ErrConflict) = false for %v", err)
	}
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected *ConflictError, got %T", err)
	}
	if !reflect.DeepEqual(conflict.Activities, []string{"x", "y"}) {
		t.Errorf("Activities = %v, want [x y]", conflict.Activities)
	}
}

func TestBuild_PriorMasteryUnlocks(t *testing.T) {
	// With B's prerequisite already mastered, its provider can lead.
	inst := mustInstance(t,
		[]curriculum.Lesson{
			{ID: "A", Threshold: 70},
			{ID: "B", Threshold: 80, Prerequisites: []string{"A"}},
		},
		[]curriculum.Activity{
			{ID: "b1", Duration: 3, Gains: map[string]int{"B": 80}},
		},
	)
	c := &Clusterer{}
	sprints, err := c.Build(inst, []string{"b1"}, mastery.NewState(map[string]int{"A": 70}))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(sprints) != 1 || !reflect.DeepEqual(sprints[0].Activities, []string{"b1"}) {
		t.Errorf("sprints = %v, want [[b1]]", sprints)
	}
}

// flatInstance builds n independent root lessons, one provider each.
func flatInstance(t *testing.T, n int) *curriculum.Instance {
	t.Helper()
	var lessons []curriculum.Lesson
	var activities []curriculum.Activity
	for i := 0; i < n; i++ {
		id := string(rune('a' + i))
		lessons = append(lessons, curriculum.Lesson{ID: id, Threshold: 50})
		activities = append(activities, curriculum.Activity{
			ID:       "act" + string(rune('0'+i)),
			Duration: 5,
			Gains:    map[string]int{id: 50},
		})
	}
	return mustInstance(t, lessons, activities)
}
