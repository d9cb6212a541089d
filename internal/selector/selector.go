// Package selector chooses the minimum-duration activity subset that
// brings every lesson to its mastery threshold while keeping the
// prerequisite order achievable.
package selector

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/pathweaver/pathweaver/internal/curriculum"
	"github.com/pathweaver/pathweaver/internal/mastery"
)

// DefaultTimeBudget bounds a single solve when the caller does not set one.
const DefaultTimeBudget = 10 * time.Minute

// Options configures a Selector.
type Options struct {
	// TimeBudget is the per-solve deadline. Zero means DefaultTimeBudget.
	TimeBudget time.Duration

	// Workers is the number of concurrent search subtrees inside the
	// default backend. Zero means sequential. Results are identical for
	// any value.
	Workers int

	// Backend overrides the default exact branch-and-bound backend.
	Backend Backend

	// Logger receives solve progress. Nil means no logging.
	Logger *zap.Logger
}

// Result is a committed selection: the chosen activity subset, its total
// duration, and the mastery state it induces.
type Result struct {
	ActivityIDs   []string // sorted
	TotalDuration float64  // minutes
	Achieved      mastery.State

	// Suboptimal is true when the time budget expired before the backend
	// proved optimality; the selection is feasible but may not be minimal.
	Suboptimal bool
}

// Selector runs the constraint-optimization selection.
type Selector struct {
	backend Backend
	budget  time.Duration
	logger  *zap.Logger
}

// New creates a Selector from options.
func New(opts Options) *Selector {
	s := &Selector{
		backend: opts.Backend,
		budget:  opts.TimeBudget,
		logger:  opts.Logger,
	}
	if s.backend == nil {
		s.backend = &BranchAndBound{Workers: opts.Workers}
	}
	if s.budget == 0 {
		s.budget = DefaultTimeBudget
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Select returns the minimum-duration activity subset achieving every
// lesson threshold from the given mastery state, or an *InfeasibleError
// listing the unreachable lessons. Identical inputs always produce an
// identical result.
func (s *Selector) Select(ctx context.Context, inst *curriculum.Instance, profile *curriculum.LearnerProfile, state mastery.State) (*Result, error) {
	m := buildModel(inst, profile, state)

	solveCtx := ctx
	if s.budget > 0 {
		var cancel context.CancelFunc
		solveCtx, cancel = context.WithTimeout(ctx, s.budget)
		defer cancel()
	}

	start := time.Now()
	sol, err := s.backend.Solve(solveCtx, m)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("selection solved",
		zap.Int("candidates", len(m.Candidates)),
		zap.Int("selected", len(sol.Selected)),
		zap.Float64("duration_min", unscaleDuration(sol.Duration)),
		zap.Bool("optimal", sol.Optimal),
		zap.Duration("solve_time", time.Since(start)),
	)

	chosen := make([]*curriculum.Activity, 0, len(sol.Selected))
	ids := make([]string, 0, len(sol.Selected))
	for _, ci := range sol.Selected {
		a, ok := inst.Activity(m.Candidates[ci].ID)
		if !ok {
			return nil, fmt.Errorf("backend selected unknown activity %q", m.Candidates[ci].ID)
		}
		chosen = append(chosen, a)
		ids = append(ids, a.ID)
	}
	sort.Strings(ids)

	return &Result{
		ActivityIDs:   ids,
		TotalDuration: unscaleDuration(sol.Duration),
		Achieved:      mastery.Project(state, chosen),
		Suboptimal:    !sol.Optimal,
	}, nil
}
