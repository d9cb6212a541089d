package curriculum

import "sort"

// Instance bundles a validated lesson graph with its activity pool.
// Instances are immutable after construction and shared by reference
// across selection and clustering passes.
type Instance struct {
	graph      *Graph
	activities []Activity
	byID       map[string]*Activity
	providers  map[string][]string // lesson ID -> activity IDs with positive gain
}

// NewInstance validates the lessons and activities and builds the instance
// indices. It returns a *MalformedInstanceError describing every problem
// found if the data is not well-formed.
func NewInstance(lessons []Lesson, activities []Activity) (*Instance, error) {
	errs := validateLessons(lessons)

	lessonIDs := make(map[string]bool, len(lessons))
	for _, l := range lessons {
		lessonIDs[l.ID] = true
	}
	errs = append(errs, validateActivities(activities, lessonIDs)...)

	if len(errs) > 0 {
		return nil, &MalformedInstanceError{Problems: errs}
	}

	inst := &Instance{
		graph:      NewGraph(lessons),
		activities: append([]Activity(nil), activities...),
		byID:       make(map[string]*Activity, len(activities)),
		providers:  make(map[string][]string),
	}
	sort.Slice(inst.activities, func(i, j int) bool {
		return inst.activities[i].ID < inst.activities[j].ID
	})
	for i := range inst.activities {
		a := &inst.activities[i]
		inst.byID[a.ID] = a
		for lessonID, gain := range a.Gains {
			if gain > 0 {
				inst.providers[lessonID] = append(inst.providers[lessonID], a.ID)
			}
		}
	}
	for lessonID := range inst.providers {
		sort.Strings(inst.providers[lessonID])
	}
	return inst, nil
}

// Graph returns the lesson prerequisite DAG.
func (in *Instance) Graph() *Graph {
	return in.graph
}

// Activities returns the full activity pool, ordered by ID.
func (in *Instance) Activities() []Activity {
	return append([]Activity(nil), in.activities...)
}

// Activity returns an activity by ID. The second return is false if absent.
func (in *Instance) Activity(id string) (*Activity, bool) {
	a, ok := in.byID[id]
	return a, ok
}

// Providers returns the IDs of activities granting positive gain to a
// lesson, ordered by ID.
func (in *Instance) Providers(lessonID string) []string {
	return append([]string(nil), in.providers[lessonID]...)
}
