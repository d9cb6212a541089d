package curriculum

import (
	"fmt"
	"sort"
	"strings"
)

// MalformedInstanceError reports structural problems in a curriculum
// instance: cycles, dangling references, thresholds outside [0,1],
// non-positive durations. It is raised eagerly at construction so malformed
// data never reaches the optimizer.
type MalformedInstanceError struct {
	Problems []string
}

func (e *MalformedInstanceError) Error() string {
	return fmt.Sprintf("malformed instance:\n  %s", strings.Join(e.Problems, "\n  "))
}

// validateLessons performs all structural checks on the lesson set.
func validateLessons(lessons []Lesson) []string {
	var errs []string

	if len(lessons) == 0 {
		errs = append(errs, "instance must contain at least one lesson")
	}

	idSet := make(map[string]bool, len(lessons))
	for _, l := range lessons {
		if l.ID == "" {
			errs = append(errs, "lesson with empty ID")
			continue
		}
		if idSet[l.ID] {
			errs = append(errs, fmt.Sprintf("duplicate lesson ID: %q", l.ID))
		}
		idSet[l.ID] = true

		if l.Threshold < 0 || l.Threshold > MasteryScale {
			errs = append(errs, fmt.Sprintf("lesson %q: threshold must be in [0, %d], got %d", l.ID, MasteryScale, l.Threshold))
		}
	}

	// Dangling and self prerequisites.
	for _, l := range lessons {
		seen := make(map[string]bool, len(l.Prerequisites))
		for _, preID := range l.Prerequisites {
			if preID == l.ID {
				errs = append(errs, fmt.Sprintf("lesson %q lists itself as a prerequisite", l.ID))
			}
			if !idSet[preID] {
				errs = append(errs, fmt.Sprintf("lesson %q references nonexistent prerequisite %q", l.ID, preID))
			}
			if seen[preID] {
				errs = append(errs, fmt.Sprintf("lesson %q lists prerequisite %q twice", l.ID, preID))
			}
			seen[preID] = true
		}
	}

	// Cycle detection via Kahn's algorithm: any lesson left with positive
	// in-degree after the sweep sits on a cycle.
	inDegree := make(map[string]int, len(lessons))
	adj := make(map[string][]string)
	for _, l := range lessons {
		inDegree[l.ID] = len(l.Prerequisites)
		for _, preID := range l.Prerequisites {
			adj[preID] = append(adj[preID], l.ID)
		}
	}
	var queue []string
	for _, l := range lessons {
		if inDegree[l.ID] == 0 {
			queue = append(queue, l.ID)
		}
	}
	visited := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited++
		for _, depID := range adj[id] {
			inDegree[depID]--
			if inDegree[depID] == 0 {
				queue = append(queue, depID)
			}
		}
	}
	if visited < len(lessons) {
		var cycleNodes []string
		for _, l := range lessons {
			if inDegree[l.ID] > 0 {
				cycleNodes = append(cycleNodes, l.ID)
			}
		}
		sort.Strings(cycleNodes)
		errs = append(errs, fmt.Sprintf("prerequisite cycle involving lessons: %s", strings.Join(cycleNodes, ", ")))
	}

	return errs
}

// validateActivities checks the activity pool against the lesson set.
func validateActivities(activities []Activity, lessonIDs map[string]bool) []string {
	var errs []string

	idSet := make(map[string]bool, len(activities))
	for _, a := range activities {
		if a.ID == "" {
			errs = append(errs, "activity with empty ID")
			continue
		}
		if idSet[a.ID] {
			errs = append(errs, fmt.Sprintf("duplicate activity ID: %q", a.ID))
		}
		idSet[a.ID] = true

		if a.Duration <= 0 {
			errs = append(errs, fmt.Sprintf("activity %q: duration must be > 0, got %g", a.ID, a.Duration))
		}
		for lessonID, gain := range a.Gains {
			if gain < 0 {
				errs = append(errs, fmt.Sprintf("activity %q: negative gain %d for lesson %q", a.ID, gain, lessonID))
			}
			if !lessonIDs[lessonID] {
				errs = append(errs, fmt.Sprintf("activity %q: gain references nonexistent lesson %q", a.ID, lessonID))
			}
		}
	}

	return errs
}
