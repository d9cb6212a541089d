package selector

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the selector package.
// Use errors.Is to check: errors.Is(err, selector.ErrInfeasible)
var (
	ErrInfeasible = errors.New("selector: no feasible activity subset")
	ErrNoModel    = errors.New("selector: empty model")
)

// InfeasibleError reports that no subset of the activity pool can bring
// every lesson to its threshold under the prerequisite unlocking order.
// UnreachableLessons lists the lessons whose thresholds cannot be reached
// even when the entire remaining pool is applied.
type InfeasibleError struct {
	UnreachableLessons []string
}

func (e *InfeasibleError) Error() string {
	return fmt.Sprintf("selection infeasible: unreachable lessons: %s",
		strings.Join(e.UnreachableLessons, ", "))
}

// Is makes errors.Is(err, ErrInfeasible) match.
func (e *InfeasibleError) Is(target error) bool {
	return target == ErrInfeasible
}
