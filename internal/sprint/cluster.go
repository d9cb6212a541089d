package sprint

import (
	"fmt"
	"sort"

	"github.com/pathweaver/pathweaver/internal/curriculum"
	"github.com/pathweaver/pathweaver/internal/mastery"
)

// Clusterer builds ordered sprints from a selected activity subset.
type Clusterer struct {
	// MaxSprintSize bounds how many activities a sprint may hold.
	// Zero means DefaultMaxSprintSize.
	MaxSprintSize int

	// Grouper performs the within-layer similarity grouping.
	// Nil means the default Agglomerative grouper.
	Grouper Grouper
}

// Build partitions the chosen activities into ordered sprints. The
// concatenation of the returned sprints is exactly the input set, in a
// valid topological extension of the lesson DAG's partial order: no
// activity precedes one that supplies a hard prerequisite for its target
// lessons. Build fails with a *ConflictError when the size bound makes
// such an ordering impossible.
func (c *Clusterer) Build(inst *curriculum.Instance, chosen []string, state mastery.State) ([]Sprint, error) {
	maxSize := c.MaxSprintSize
	if maxSize <= 0 {
		maxSize = DefaultMaxSprintSize
	}
	grouper := c.Grouper
	if grouper == nil {
		grouper = Agglomerative{}
	}
	if len(chosen) == 0 {
		return nil, nil
	}

	g := inst.Graph()

	// Layer each activity at the level of the deepest lesson it gains
	// (Kahn levels over the lesson DAG).
	type layered struct {
		act   *curriculum.Activity
		depth int
	}
	byLayer := make(map[int][]layered)
	for _, id := range chosen {
		a, ok := inst.Activity(id)
		if !ok {
			return nil, fmt.Errorf("unknown activity %q in selection", id)
		}
		depth := 0
		for _, lessonID := range a.Lessons() {
			if lvl := g.Level(lessonID); lvl > depth {
				depth = lvl
			}
		}
		byLayer[depth] = append(byLayer[depth], layered{act: a, depth: depth})
	}

	var layers []int
	for lvl := range byLayer {
		layers = append(layers, lvl)
	}
	sort.Ints(layers)

	// Within each layer, group by similarity under the size bound.
	var groups [][]string
	for _, lvl := range layers {
		acts := byLayer[lvl]
		sort.Slice(acts, func(i, j int) bool { return acts[i].act.ID < acts[j].act.ID })

		items := make([]Item, len(acts))
		for i, la := range acts {
			items[i] = Item{
				ID:         la.act.ID,
				Style:      la.act.Style,
				Difficulty: la.act.Difficulty,
				Lessons:    la.act.Lessons(),
				Depth:      la.depth,
			}
		}
		for _, cluster := range grouper.Group(items, maxSize) {
			grp := make([]string, 0, len(cluster))
			for _, idx := range cluster {
				grp = append(grp, items[idx].ID)
			}
			sort.Strings(grp)
			groups = append(groups, grp)
		}
	}

	return c.schedule(inst, groups, state)
}

// schedule orders the candidate groups into performable sprints. It
// greedily takes the first group whose members can all be performed, in
// some intra-group order, given the mastery accumulated so far. Failure
// to place any remaining group is a ConflictError.
func (c *Clusterer) schedule(inst *curriculum.Instance, groups [][]string, state mastery.State) ([]Sprint, error) {
	g := inst.Graph()
	points := make(map[string]int, g.Len())
	for _, l := range g.Lessons() {
		points[l.ID] = state.Get(l.ID)
	}

	pending := make([][]string, len(groups))
	copy(pending, groups)

	var sprints []Sprint
	for len(pending) > 0 {
		placed := -1
		var ordered []string
		for gi, grp := range pending {
			seq, ok := performable(inst, grp, points)
			if ok {
				placed, ordered = gi, seq
				break
			}
		}
		if placed == -1 {
			var stuck []string
			for _, grp := range pending {
				stuck = append(stuck, grp...)
			}
			sort.Strings(stuck)
			return nil, &ConflictError{Activities: stuck}
		}

		for _, id := range ordered {
			a, _ := inst.Activity(id)
			for lessonID, gain := range a.Gains {
				if gain <= 0 {
					continue
				}
				points[lessonID] += gain
				if points[lessonID] > curriculum.MasteryScale {
					points[lessonID] = curriculum.MasteryScale
				}
			}
		}
		sprints = append(sprints, Sprint{Activities: ordered})
		pending = append(pending[:placed], pending[placed+1:]...)
	}
	return sprints, nil
}

// performable checks whether every member of a group unlocks given the
// current mastery plus earlier members' contributions, and returns the
// intra-group application order.
func performable(inst *curriculum.Instance, group []string, points map[string]int) ([]string, bool) {
	g := inst.Graph()
	local := make(map[string]int, len(points))
	for id, v := range points {
		local[id] = v
	}

	applied := make(map[string]bool, len(group))
	var order []string
	for len(order) < len(group) {
		progress := false
		for _, id := range group {
			if applied[id] {
				continue
			}
			a, _ := inst.Activity(id)
			if !unlockedAt(g, a, local) {
				continue
			}
			for lessonID, gain := range a.Gains {
				if gain <= 0 {
					continue
				}
				local[lessonID] += gain
				if local[lessonID] > curriculum.MasteryScale {
					local[lessonID] = curriculum.MasteryScale
				}
			}
			applied[id] = true
			order = append(order, id)
			progress = true
		}
		if !progress {
			return nil, false
		}
	}
	return order, true
}

// unlockedAt reports whether every ancestor of every lesson the activity
// gains has reached its threshold.
func unlockedAt(g *curriculum.Graph, a *curriculum.Activity, points map[string]int) bool {
	for _, lessonID := range a.Lessons() {
		for _, ancID := range g.Ancestors(lessonID) {
			anc, _ := g.Lesson(ancID)
			if points[ancID] < anc.Threshold {
				return false
			}
		}
	}
	return true
}
