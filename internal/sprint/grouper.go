package sprint

import (
	"sort"

	"github.com/pathweaver/pathweaver/internal/curriculum"
)

// Item is one activity as presented to a Grouper: the features that drive
// content/style similarity.
type Item struct {
	ID         string
	Style      curriculum.Style
	Difficulty curriculum.Difficulty
	Lessons    []string // lessons the activity grants gain to
	Depth      int      // topological level of the deepest gained lesson
}

// Grouper partitions items into cohesive clusters bounded by maxSize.
// Implementations must be deterministic for identical inputs and must
// return every input index exactly once. Any standard clustering
// procedure can back this interface.
type Grouper interface {
	Group(items []Item, maxSize int) [][]int
}

// Similarity weights for the default grouper's distance function.
const (
	coverageWeight   = 0.5
	styleWeight      = 0.3
	difficultyWeight = 0.2
)

// Agglomerative is the default Grouper: greedy average-linkage
// agglomerative clustering over a distance combining lesson-coverage
// overlap (Jaccard), style match, and difficulty proximity. Merging stops
// once the cluster count reaches ceil(n/maxSize) or no merge fits the
// size bound.
type Agglomerative struct{}

// Group implements Grouper.
func (Agglomerative) Group(items []Item, maxSize int) [][]int {
	n := len(items)
	if n == 0 {
		return nil
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxSprintSize
	}
	if n <= maxSize {
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		return [][]int{all}
	}

	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
		for j := range dist[i] {
			if i != j {
				dist[i][j] = itemDistance(items[i], items[j])
			}
		}
	}

	clusters := make([][]int, n)
	for i := range clusters {
		clusters[i] = []int{i}
	}
	target := (n + maxSize - 1) / maxSize

	for len(clusters) > target {
		bi, bj := -1, -1
		best := 0.0
		for i := 0; i < len(clusters); i++ {
			for j := i + 1; j < len(clusters); j++ {
				if len(clusters[i])+len(clusters[j]) > maxSize {
					continue
				}
				d := averageLinkage(dist, clusters[i], clusters[j])
				if bi == -1 || d < best {
					bi, bj, best = i, j, d
				}
			}
		}
		if bi == -1 {
			break
		}
		merged := append(append([]int(nil), clusters[bi]...), clusters[bj]...)
		sort.Ints(merged)
		clusters = append(clusters[:bj], clusters[bj+1:]...)
		clusters[bi] = merged
	}

	// Stable output order: by smallest member index.
	sort.Slice(clusters, func(i, j int) bool {
		return clusters[i][0] < clusters[j][0]
	})
	return clusters
}

func averageLinkage(dist [][]float64, a, b []int) float64 {
	total := 0.0
	for _, i := range a {
		for _, j := range b {
			total += dist[i][j]
		}
	}
	return total / float64(len(a)*len(b))
}

func itemDistance(a, b Item) float64 {
	d := coverageWeight * (1 - jaccard(a.Lessons, b.Lessons))
	if a.Style != b.Style {
		d += styleWeight
	}
	d += difficultyWeight * difficultyGap(a.Difficulty, b.Difficulty)
	return d
}

func jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	set := make(map[string]bool, len(a))
	for _, id := range a {
		set[id] = true
	}
	inter := 0
	for _, id := range b {
		if set[id] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 1
	}
	return float64(inter) / float64(union)
}

func difficultyGap(a, b curriculum.Difficulty) float64 {
	idx := func(d curriculum.Difficulty) int {
		for i, v := range curriculum.AllDifficulties() {
			if v == d {
				return i
			}
		}
		return 1
	}
	gap := idx(a) - idx(b)
	if gap < 0 {
		gap = -gap
	}
	return float64(gap) / float64(len(curriculum.AllDifficulties())-1)
}
