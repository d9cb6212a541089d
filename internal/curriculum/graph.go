package curriculum

import (
	"sort"
)

// Graph holds the lesson prerequisite DAG with precomputed indices.
// It is built once per instance and read-only afterwards.
type Graph struct {
	lessons    []Lesson
	byID       map[string]*Lesson
	dependents map[string][]string
	roots      []string
	topoOrder  []string
	topoIndex  map[string]int
	levels     map[string]int
	ancestors  map[string][]string
}

// NewGraph constructs the prerequisite DAG over the given lessons.
// The lesson set must already be validated (no cycles, no dangling
// prerequisites); NewGraph assumes a well-formed input.
func NewGraph(lessons []Lesson) *Graph {
	g := &Graph{
		lessons:    lessons,
		byID:       make(map[string]*Lesson, len(lessons)),
		dependents: make(map[string][]string),
		topoIndex:  make(map[string]int, len(lessons)),
		levels:     make(map[string]int, len(lessons)),
		ancestors:  make(map[string][]string, len(lessons)),
	}

	for i := range g.lessons {
		g.byID[g.lessons[i].ID] = &g.lessons[i]
	}
	for i := range g.lessons {
		for _, preID := range g.lessons[i].Prerequisites {
			g.dependents[preID] = append(g.dependents[preID], g.lessons[i].ID)
		}
	}
	for id := range g.dependents {
		sort.Strings(g.dependents[id])
	}

	g.computeTopology()
	g.computeAncestors()
	return g
}

// computeTopology runs Kahn's algorithm twice over: once flattening to a
// deterministic topological order, and once layering lessons into levels
// (a lesson's level is one more than the max level of its prerequisites).
func (g *Graph) computeTopology() {
	inDegree := make(map[string]int, len(g.lessons))
	for i := range g.lessons {
		inDegree[g.lessons[i].ID] = len(g.lessons[i].Prerequisites)
	}

	var queue []string
	for i := range g.lessons {
		if inDegree[g.lessons[i].ID] == 0 {
			queue = append(queue, g.lessons[i].ID)
			g.levels[g.lessons[i].ID] = 0
		}
	}
	// Sort initial queue for deterministic ordering.
	sort.Strings(queue)
	g.roots = append([]string(nil), queue...)

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		g.topoIndex[id] = len(g.topoOrder)
		g.topoOrder = append(g.topoOrder, id)

		for _, depID := range g.dependents[id] {
			if lvl := g.levels[id] + 1; lvl > g.levels[depID] {
				g.levels[depID] = lvl
			}
			inDegree[depID]--
			if inDegree[depID] == 0 {
				queue = append(queue, depID)
			}
		}
	}
}

// computeAncestors derives the transitive prerequisite closure per lesson.
// Processing in topological order guarantees every prerequisite's closure is
// complete before its dependents are visited.
func (g *Graph) computeAncestors() {
	closure := make(map[string]map[string]bool, len(g.topoOrder))
	for _, id := range g.topoOrder {
		set := make(map[string]bool)
		for _, preID := range g.byID[id].Prerequisites {
			set[preID] = true
			for ancID := range closure[preID] {
				set[ancID] = true
			}
		}
		closure[id] = set

		ids := make([]string, 0, len(set))
		for ancID := range set {
			ids = append(ids, ancID)
		}
		sort.Strings(ids)
		g.ancestors[id] = ids
	}
}

// Lesson returns a lesson by ID. The second return is false if absent.
func (g *Graph) Lesson(id string) (Lesson, bool) {
	l, ok := g.byID[id]
	if !ok {
		return Lesson{}, false
	}
	return *l, true
}

// Lessons returns all lessons in topological order.
func (g *Graph) Lessons() []Lesson {
	out := make([]Lesson, 0, len(g.topoOrder))
	for _, id := range g.topoOrder {
		out = append(out, *g.byID[id])
	}
	return out
}

// Len returns the number of lessons in the graph.
func (g *Graph) Len() int {
	return len(g.lessons)
}

// Roots returns the IDs of lessons with no prerequisites, sorted.
func (g *Graph) Roots() []string {
	return append([]string(nil), g.roots...)
}

// TopologicalOrder returns all lesson IDs in a deterministic topological order.
func (g *Graph) TopologicalOrder() []string {
	return append([]string(nil), g.topoOrder...)
}

// TopoIndex returns the position of a lesson in the topological order.
func (g *Graph) TopoIndex(id string) int {
	return g.topoIndex[id]
}

// Level returns the topological level (depth) of a lesson: 0 for roots,
// otherwise one more than the deepest prerequisite.
func (g *Graph) Level(id string) int {
	return g.levels[id]
}

// MaxLevel returns the deepest level present in the graph.
func (g *Graph) MaxLevel() int {
	max := 0
	for _, lvl := range g.levels {
		if lvl > max {
			max = lvl
		}
	}
	return max
}

// Ancestors returns every transitive prerequisite of a lesson, sorted.
func (g *Graph) Ancestors(id string) []string {
	return append([]string(nil), g.ancestors[id]...)
}

// Dependents returns the lessons that directly require the given lesson.
func (g *Graph) Dependents(id string) []string {
	return append([]string(nil), g.dependents[id]...)
}
