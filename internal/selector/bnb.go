package selector

import (
	"context"
	"math"
	"sort"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// deadlineCheckInterval is how many search nodes are expanded between
// context deadline checks.
const deadlineCheckInterval = 1024

// maxSplitDepth caps how many leading decision variables are fixed to fan
// the search out across workers (2^depth subproblems).
const maxSplitDepth = 8

// BranchAndBound is the in-repo exact Backend: a depth-first
// branch-and-bound over the candidate inclusion variables. Candidates are
// branched in model order (topological rank, then ID). The search is exact:
// it returns a provably minimum-duration selection unless the context
// deadline expires, in which case the best incumbent is returned with
// Optimal=false.
//
// With Workers > 1 the root of the search tree is split into 2^k fixed
// prefixes explored concurrently. Workers share only a monotonically
// tightening duration bound, and equal-duration solutions are never pruned,
// so the returned solution is identical for any worker count.
type BranchAndBound struct {
	Workers int // concurrent root subtrees; 0 or 1 means sequential
}

// Solve implements Backend.
func (b *BranchAndBound) Solve(ctx context.Context, m *Model) (*Solution, error) {
	if m == nil || len(m.Lessons) == 0 {
		return nil, ErrNoModel
	}
	if m.totalNeed() == 0 {
		return &Solution{Optimal: true}, nil
	}

	if unreachable := m.unreachableLessons(); len(unreachable) > 0 {
		return nil, &InfeasibleError{UnreachableLessons: unreachable}
	}

	// Seed the incumbent with the full-pool closure: every candidate the
	// unlocking fixed point can apply. Feasible but usually far from
	// minimal; it guarantees a timeout still yields a usable result.
	seed := m.seedSolution()

	// suffixRate[i] is the best gain-per-milliminute among candidates i..n.
	// It drives the admissible duration lower bound for pruning.
	suffixRate := make([]float64, len(m.Candidates)+1)
	for i := len(m.Candidates) - 1; i >= 0; i-- {
		total := 0
		for _, g := range m.Candidates[i].Gains {
			total += g
		}
		r := float64(total) / float64(m.Candidates[i].Duration)
		suffixRate[i] = suffixRate[i+1]
		if r > suffixRate[i] {
			suffixRate[i] = r
		}
	}

	var bestDur atomic.Int64
	bestDur.Store(seed.Duration)
	var timedOut atomic.Bool

	workers := b.Workers
	if workers < 1 {
		workers = 1
	}
	depth := 0
	for (1 << depth) < workers && depth < maxSplitDepth && depth < len(m.Candidates) {
		depth++
	}
	subs := 1 << depth

	results := make([]*Solution, subs)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for p := 0; p < subs; p++ {
		g.Go(func() error {
			s := newSearcher(m, suffixRate, &bestDur, &timedOut, gctx)
			s.forced = make([]int8, depth)
			for j := 0; j < depth; j++ {
				s.forced[j] = int8((p >> j) & 1)
			}
			s.dfs(0)
			results[p] = s.best
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Merge in fixed subproblem order so the outcome does not depend on
	// worker scheduling.
	merged := seed
	for _, r := range results {
		if better(m, r, merged) {
			merged = r
		}
	}

	out := &Solution{
		Selected: append([]int(nil), merged.Selected...),
		Duration: merged.Duration,
		Optimal:  !timedOut.Load(),
	}
	sort.Ints(out.Selected)
	return out, nil
}

// seedSolution returns the full-pool closure's applied set as a feasible
// (not minimal) solution. Only valid once unreachableLessons came back
// empty.
func (m *Model) seedSolution() *Solution {
	all := make([]int, len(m.Candidates))
	for i := range m.Candidates {
		all[i] = i
	}
	res := m.applyClosure(all)

	sol := &Solution{}
	for pos, applied := range res.applied {
		if applied {
			sol.Selected = append(sol.Selected, all[pos])
			sol.Duration += m.Candidates[all[pos]].Duration
		}
	}
	return sol
}

// searcher holds the mutable depth-first search state for one subproblem.
type searcher struct {
	m          *Model
	suffixRate []float64
	forced     []int8 // fixed assignment for the leading candidates

	points  []int // prior + included gains per lesson (uncapped)
	rest    []int // gains still available from candidates >= current index
	needRem int   // total unmet points under the current inclusion
	dur     int64
	chosen  []int

	best     *Solution
	bestDur  *atomic.Int64
	timedOut *atomic.Bool
	ctx      context.Context
	nodes    int
}

func newSearcher(m *Model, suffixRate []float64, bestDur *atomic.Int64, timedOut *atomic.Bool, ctx context.Context) *searcher {
	s := &searcher{
		m:          m,
		suffixRate: suffixRate,
		points:     make([]int, len(m.Lessons)),
		rest:       make([]int, len(m.Lessons)),
		bestDur:    bestDur,
		timedOut:   timedOut,
		ctx:        ctx,
	}
	for i, l := range m.Lessons {
		s.points[i] = l.Prior
		if d := l.Threshold - l.Prior; d > 0 {
			s.needRem += d
		}
	}
	for _, c := range m.Candidates {
		for li, g := range c.Gains {
			s.rest[li] += g
		}
	}
	return s
}

func (s *searcher) dfs(i int) {
	if s.timedOut.Load() {
		return
	}
	s.nodes++
	if s.nodes%deadlineCheckInterval == 0 {
		select {
		case <-s.ctx.Done():
			s.timedOut.Store(true)
			return
		default:
		}
	}

	if s.needRem == 0 {
		// Thresholds are met numerically. If the unlocking closure can
		// order the set, every superset only adds duration and the branch
		// closes here. If it cannot, the set is deadlocked and only a
		// superset carrying an unlocking activity can be feasible, so the
		// search keeps branching.
		if s.leaf() {
			return
		}
	}
	if i == len(s.m.Candidates) {
		return
	}
	if s.suffixRate[i] == 0 {
		return
	}

	// Admissible bound: no remaining candidate delivers points faster than
	// suffixRate[i]. Equal-duration completions survive (strict >), which
	// keeps the tie-break deterministic across worker counts.
	bound := s.dur + int64(math.Ceil(float64(s.needRem)/s.suffixRate[i]))
	bestKnown := s.bestDur.Load()
	if s.best != nil && s.best.Duration < bestKnown {
		bestKnown = s.best.Duration
	}
	if bound > bestKnown {
		return
	}

	if i < len(s.forced) {
		if s.forced[i] == 1 {
			s.include(i)
		} else {
			s.exclude(i)
		}
		return
	}

	// Candidates whose gains are already covered still branch: one of them
	// may be the activity that unlocks an otherwise deadlocked set.
	s.include(i)
	s.exclude(i)
}

func (s *searcher) include(i int) {
	c := &s.m.Candidates[i]
	for li, g := range c.Gains {
		s.rest[li] -= g
		before := s.unmet(li)
		s.points[li] += g
		s.needRem -= before - s.unmet(li)
	}
	s.dur += c.Duration
	s.chosen = append(s.chosen, i)

	s.dfs(i + 1)

	s.chosen = s.chosen[:len(s.chosen)-1]
	s.dur -= c.Duration
	for li, g := range c.Gains {
		before := s.unmet(li)
		s.points[li] -= g
		s.needRem += s.unmet(li) - before
		s.rest[li] += g
	}
}

func (s *searcher) exclude(i int) {
	c := &s.m.Candidates[i]
	feasible := true
	for li, g := range c.Gains {
		s.rest[li] -= g
		if s.points[li]+s.rest[li] < s.m.Lessons[li].Threshold {
			feasible = false
		}
	}
	if feasible {
		s.dfs(i + 1)
	}
	for li, g := range c.Gains {
		s.rest[li] += g
	}
}

// unmet returns the points still missing for lesson li.
func (s *searcher) unmet(li int) int {
	if d := s.m.Lessons[li].Threshold - s.points[li]; d > 0 {
		return d
	}
	return 0
}

// leaf records the current selection as an incumbent if the unlocking
// closure can order it into a prerequisite-valid sequence, and reports
// whether it could.
func (s *searcher) leaf() bool {
	res := s.m.applyClosure(s.chosen)
	if !res.allApplied || !s.m.thresholdsMet(res.final) {
		return false
	}

	sol := &Solution{
		Selected: append([]int(nil), s.chosen...),
		Duration: s.dur,
	}
	if !better(s.m, sol, s.best) {
		return true
	}
	s.best = sol

	// Tighten the shared bound; it only ever decreases.
	for {
		cur := s.bestDur.Load()
		if sol.Duration >= cur {
			return true
		}
		if s.bestDur.CompareAndSwap(cur, sol.Duration) {
			return true
		}
	}
}
