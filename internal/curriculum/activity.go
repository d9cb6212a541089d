package curriculum

import "sort"

// Style represents a learning style an activity caters to.
type Style string

const (
	StyleVisual      Style = "visual"
	StyleAuditory    Style = "auditory"
	StyleReading     Style = "reading/writing"
	StyleKinesthetic Style = "kinesthetic"
)

// AllStyles returns all learning styles in display order.
func AllStyles() []Style {
	return []Style{StyleVisual, StyleAuditory, StyleReading, StyleKinesthetic}
}

// Difficulty represents an activity's difficulty band.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// AllDifficulties returns all difficulty bands in ascending order.
func AllDifficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// ActivityType categorizes the pedagogical format of an activity.
type ActivityType string

const (
	TypeReading    ActivityType = "reading"
	TypeVideo      ActivityType = "video"
	TypeQuiz       ActivityType = "quiz"
	TypeDiscussion ActivityType = "discussion"
	TypeExercise   ActivityType = "exercise"
	TypeProject    ActivityType = "project"
	TypeGame       ActivityType = "game"
	TypeSimulation ActivityType = "simulation"
)

// TypeStyles maps each activity type to the learning styles it serves.
var TypeStyles = map[ActivityType][]Style{
	TypeReading:    {StyleReading},
	TypeVideo:      {StyleVisual, StyleAuditory},
	TypeQuiz:       {StyleReading},
	TypeDiscussion: {StyleAuditory},
	TypeExercise:   {StyleKinesthetic},
	TypeProject:    {StyleKinesthetic, StyleVisual},
	TypeGame:       {StyleKinesthetic, StyleVisual},
	TypeSimulation: {StyleVisual, StyleKinesthetic},
}

// AllActivityTypes returns all activity types in display order.
func AllActivityTypes() []ActivityType {
	return []ActivityType{
		TypeReading,
		TypeVideo,
		TypeQuiz,
		TypeDiscussion,
		TypeExercise,
		TypeProject,
		TypeGame,
		TypeSimulation,
	}
}

// Activity represents a single unit of study. Activities are immutable and
// owned by the Instance's pool; selection results reference them by ID.
type Activity struct {
	ID         string
	Name       string
	Duration   float64 // minutes, must be > 0
	Style      Style
	Type       ActivityType
	Difficulty Difficulty
	Gains      map[string]int // lesson ID -> mastery points granted
}

// Lessons returns the IDs of lessons this activity grants positive gain to,
// in sorted order.
func (a *Activity) Lessons() []string {
	ids := make([]string, 0, len(a.Gains))
	for id, g := range a.Gains {
		if g > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Gain returns the mastery points this activity grants toward a lesson.
func (a *Activity) Gain(lessonID string) int {
	return a.Gains[lessonID]
}
