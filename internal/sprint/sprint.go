// Package sprint partitions a selected activity subset into an ordered
// list of prerequisite-consistent, internally similar sprints.
package sprint

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultMaxSprintSize bounds sprint size when the caller does not set one.
const DefaultMaxSprintSize = 5

// Sprint is an ordered group of activity IDs to be performed together.
// Within a sprint, an activity never precedes one that supplies a hard
// prerequisite for its target lessons.
type Sprint struct {
	Activities []string
}

// Len returns the number of activities in the sprint.
func (s Sprint) Len() int {
	return len(s.Activities)
}

// ErrConflict is the sentinel for clustering conflicts.
// Use errors.Is to check: errors.Is(err, sprint.ErrConflict)
var ErrConflict = errors.New("sprint: clustering conflict")

// ConflictError reports that the sprint size bound forced a split that
// breaks an unavoidable same-sprint dependency. Activities lists the
// chosen activities that could not be scheduled into any valid sprint.
type ConflictError struct {
	Activities []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("sprint clustering conflict: cannot order activities: %s",
		strings.Join(e.Activities, ", "))
}

// Is makes errors.Is(err, ErrConflict) match.
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
