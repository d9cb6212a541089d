// Package pipeline drives the select → cluster → consume → update loop
// that turns a curriculum instance and learner profile into a completed
// learning path.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pathweaver/pathweaver/internal/curriculum"
	"github.com/pathweaver/pathweaver/internal/mastery"
	"github.com/pathweaver/pathweaver/internal/selector"
	"github.com/pathweaver/pathweaver/internal/sprint"
)

// Status is the terminal state of a pipeline run.
type Status string

const (
	// StatusDone means every lesson threshold was met.
	StatusDone Status = "done"
	// StatusInfeasible means some thresholds can never be met, or an
	// iteration made no progress.
	StatusInfeasible Status = "infeasible"
)

// Options configures a Runner.
type Options struct {
	// MaxSprintSize bounds sprint size. Zero means sprint.DefaultMaxSprintSize.
	MaxSprintSize int

	// TimeBudget is the per-selection solver deadline.
	// Zero means selector.DefaultTimeBudget.
	TimeBudget time.Duration

	// Workers is the solver's internal parallelism. Results are identical
	// for any value.
	Workers int

	// MaxIterations is a hard cap on outer-loop iterations. Zero means
	// DefaultMaxIterations.
	MaxIterations int

	// Performance models the learner's per-activity effectiveness.
	// Nil means PerfectPerformance.
	Performance PerformanceModel

	// Backend overrides the selection backend (any compliant solver).
	Backend selector.Backend

	// Grouper overrides the similarity grouping procedure.
	Grouper sprint.Grouper

	// Logger receives run progress. Nil means no logging.
	Logger *zap.Logger
}

// DefaultMaxIterations caps the outer loop; the stagnation guard normally
// terminates runs long before this.
const DefaultMaxIterations = 1000

// ConsumedSprint records one consumed sprint: the activities performed,
// the per-activity performance applied, and the mastery state afterwards.
type ConsumedSprint struct {
	Index        int
	Activities   []string // in performed order
	Performance  map[string]float64
	Duration     float64 // minutes
	MasteryAfter map[string]float64
	Timestamp    time.Time
}

// Diagnostics carries run metadata for callers and reporting tools.
type Diagnostics struct {
	Iterations           int
	UnreachableLessons   []string // set when Status is infeasible at selection
	Stalled              bool     // true when an iteration delivered zero gap reduction
	SuboptimalSelections int      // selections returned past the time budget
}

// Result is the outcome of a full pipeline run.
type Result struct {
	RunID           string
	Status          Status
	SprintsConsumed []ConsumedSprint
	FinalMastery    map[string]float64
	TotalDuration   float64 // minutes of consumed activities
	Diagnostics     Diagnostics
}

// Runner owns the iteration loop and is the only writer of the learner's
// mastery state between cycles.
type Runner struct {
	sel    *selector.Selector
	clu    *sprint.Clusterer
	perf   PerformanceModel
	maxIt  int
	logger *zap.Logger
}

// NewRunner creates a Runner from options.
func NewRunner(opts Options) *Runner {
	r := &Runner{
		sel: selector.New(selector.Options{
			TimeBudget: opts.TimeBudget,
			Workers:    opts.Workers,
			Backend:    opts.Backend,
			Logger:     opts.Logger,
		}),
		clu: &sprint.Clusterer{
			MaxSprintSize: opts.MaxSprintSize,
			Grouper:       opts.Grouper,
		},
		perf:   opts.Performance,
		maxIt:  opts.MaxIterations,
		logger: opts.Logger,
	}
	if r.perf == nil {
		r.perf = PerfectPerformance{}
	}
	if r.maxIt <= 0 {
		r.maxIt = DefaultMaxIterations
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	return r
}

// Run executes the feedback loop until every threshold is met (DONE), a
// selection proves infeasible or an iteration stalls (INFEASIBLE), or a
// non-recoverable error occurs (clustering conflicts are returned as
// errors so the caller can retry with a larger sprint size).
//
// The profile is mutated between iterations: consumed activities are
// marked performed and preference weights are revised from observed
// performance.
func (r *Runner) Run(ctx context.Context, inst *curriculum.Instance, profile *curriculum.LearnerProfile) (*Result, error) {
	if profile == nil {
		profile = curriculum.NewLearnerProfile()
	}
	g := inst.Graph()
	state := mastery.NewState(profile.InitialMastery)
	gap := state.Gap(g)

	res := &Result{RunID: uuid.NewString()}
	r.logger.Info("pipeline started",
		zap.String("run_id", res.RunID),
		zap.Int("lessons", g.Len()),
		zap.Int("initial_gap", gap),
	)

	for iter := 0; ; iter++ {
		if gap == 0 {
			return r.finish(res, StatusDone, state, g)
		}
		if iter >= r.maxIt {
			res.Diagnostics.Stalled = true
			res.Diagnostics.UnreachableLessons = state.UnmetLessons(g)
			return r.finish(res, StatusInfeasible, state, g)
		}

		// Fresh selection every iteration: the profile may have been
		// revised since the last sprint, so stale plans are never resumed.
		sel, err := r.sel.Select(ctx, inst, profile, state)
		if err != nil {
			var inf *selector.InfeasibleError
			if errors.As(err, &inf) {
				res.Diagnostics.UnreachableLessons = inf.UnreachableLessons
				return r.finish(res, StatusInfeasible, state, g)
			}
			return nil, fmt.Errorf("iteration %d: select: %w", iter, err)
		}
		if sel.Suboptimal {
			res.Diagnostics.SuboptimalSelections++
		}
		if len(sel.ActivityIDs) == 0 {
			// A positive gap with an empty optimal selection means no
			// remaining activity helps; treat as stagnation.
			res.Diagnostics.Stalled = true
			res.Diagnostics.UnreachableLessons = state.UnmetLessons(g)
			return r.finish(res, StatusInfeasible, state, g)
		}

		sprints, err := r.clu.Build(inst, sel.ActivityIDs, state)
		if err != nil {
			return nil, fmt.Errorf("iteration %d: cluster: %w", iter, err)
		}

		// Consume the first sprint only; the remainder is replanned next
		// iteration against the updated mastery state.
		first := sprints[0]
		acts := make([]*curriculum.Activity, 0, len(first.Activities))
		perfs := make(map[string]float64, len(first.Activities))
		duration := 0.0
		for _, id := range first.Activities {
			a, _ := inst.Activity(id)
			acts = append(acts, a)
			perfs[id] = r.perf.Perform(a, iter)
			duration += a.Duration
		}

		next := mastery.ProjectPerformed(state, acts, perfs)
		nextGap := next.Gap(g)
		if nextGap >= gap {
			// Zero gap reduction: terminate instead of looping forever.
			res.Diagnostics.Stalled = true
			res.Diagnostics.UnreachableLessons = state.UnmetLessons(g)
			return r.finish(res, StatusInfeasible, state, g)
		}

		profile.MarkPerformed(first.Activities)
		for _, a := range acts {
			profile.ReviseTowards(a, perfs[a.ID])
		}

		state = next
		gap = nextGap
		res.SprintsConsumed = append(res.SprintsConsumed, ConsumedSprint{
			Index:        iter,
			Activities:   append([]string(nil), first.Activities...),
			Performance:  perfs,
			Duration:     duration,
			MasteryAfter: state.Fractions(g),
			Timestamp:    time.Now(),
		})
		res.TotalDuration += duration

		r.logger.Info("sprint consumed",
			zap.String("run_id", res.RunID),
			zap.Int("iteration", iter),
			zap.Int("sprint_size", len(first.Activities)),
			zap.Float64("sprint_minutes", duration),
			zap.Int("remaining_gap", gap),
		)
	}
}

func (r *Runner) finish(res *Result, status Status, state mastery.State, g *curriculum.Graph) (*Result, error) {
	res.Status = status
	res.Diagnostics.Iterations = len(res.SprintsConsumed)
	res.FinalMastery = state.Fractions(g)
	r.logger.Info("pipeline finished",
		zap.String("run_id", res.RunID),
		zap.String("status", string(status)),
		zap.Int("sprints", len(res.SprintsConsumed)),
		zap.Float64("total_minutes", res.TotalDuration),
	)
	return res, nil
}
