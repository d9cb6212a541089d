package sprint

import (
	"sort"
	"testing"

	"github.com/pathweaver/pathweaver/internal/curriculum"
)

func TestGroup_SingleGroupWhenSmall(t *testing.T) {
	items := []Item{
		{ID: "a", Lessons: []string{"l1"}},
		{ID: "b", Lessons: []string{"l2"}},
	}
	got := Agglomerative{}.Group(items, 5)
	if len(got) != 1 || len(got[0]) != 2 {
		t.Errorf("Group = %v, want one cluster of 2", got)
	}
}

func TestGroup_Empty(t *testing.T) {
	if got := (Agglomerative{}).Group(nil, 5); got != nil {
		t.Errorf("Group(nil) = %v, want nil", got)
	}
}

func TestGroup_PartitionWithinBound(t *testing.T) {
	var items []Item
	for i := 0; i < 9; i++ {
		items = append(items, Item{
			ID:      string(rune('a' + i)),
			Lessons: []string{string(rune('a' + i))},
		})
	}
	got := Agglomerative{}.Group(items, 4)

	var all []int
	for _, cluster := range got {
		if len(cluster) > 4 {
			t.Errorf("cluster %v exceeds size bound 4", cluster)
		}
		all = append(all, cluster...)
	}
	sort.Ints(all)
	if len(all) != 9 {
		t.Fatalf("got %d indices, want 9", len(all))
	}
	for i, idx := range all {
		if idx != i {
			t.Errorf("index %d missing or duplicated: %v", i, all)
			break
		}
	}
}

func TestGroup_SimilarItemsCluster(t *testing.T) {
	// Two pairs sharing a lesson and style, forced into two clusters.
	items := []Item{
		{ID: "a", Style: curriculum.StyleVisual, Difficulty: curriculum.DifficultyEasy, Lessons: []string{"l1"}},
		{ID: "b", Style: curriculum.StyleVisual, Difficulty: curriculum.DifficultyEasy, Lessons: []string{"l1"}},
		{ID: "c", Style: curriculum.StyleKinesthetic, Difficulty: curriculum.DifficultyHard, Lessons: []string{"l2"}},
		{ID: "d", Style: curriculum.StyleKinesthetic, Difficulty: curriculum.DifficultyHard, Lessons: []string{"l2"}},
	}
	got := Agglomerative{}.Group(items, 2)
	if len(got) != 2 {
		t.Fatalf("got %d clusters, want 2", len(got))
	}
	// Order is by smallest member index, so {a,b} first.
	if !(got[0][0] == 0 && got[0][1] == 1) {
		t.Errorf("first cluster = %v, want [0 1]", got[0])
	}
	if !(got[1][0] == 2 && got[1][1] == 3) {
		t.Errorf("second cluster = %v, want [2 3]", got[1])
	}
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want float64
	}{
		{"identical", []string{"x", "y"}, []string{"x", "y"}, 1},
		{"disjoint", []string{"x"}, []string{"y"}, 0},
		{"half", []string{"x", "y"}, []string{"y", "z"}, 1.0 / 3},
		{"both empty", nil, nil, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := jaccard(tt.a, tt.b); got != tt.want {
				t.Errorf("jaccard = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestItemDistance_IdenticalIsZero(t *testing.T) {
	a := Item{Style: curriculum.StyleVisual, Difficulty: curriculum.DifficultyMedium, Lessons: []string{"l1"}}
	if d := itemDistance(a, a); d != 0 {
		t.Errorf("itemDistance(a, a) = %v, want 0", d)
	}
}

func TestDifficultyGap(t *testing.T) {
	if g := difficultyGap(curriculum.DifficultyEasy, curriculum.DifficultyHard); g != 1 {
		t.Errorf("easy-hard gap = %v, want 1", g)
	}
	if g := difficultyGap(curriculum.DifficultyMedium, curriculum.DifficultyMedium); g != 0 {
		t.Errorf("medium-medium gap = %v, want 0", g)
	}
}
