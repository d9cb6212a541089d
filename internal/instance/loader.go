// Package instance loads, writes, and synthesizes curriculum problem
// instances. The core never performs file I/O itself; this package is the
// boundary that materializes instances into memory.
package instance

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/pathweaver/pathweaver/internal/curriculum"
)

// File mirrors the on-disk instance document. Thresholds, gains, and
// mastery use the float [0,1] surface; conversion to integer points
// happens when mapping onto the domain types.
type File struct {
	Lessons    []FileLesson   `json:"lessons" yaml:"lessons"`
	Activities []FileActivity `json:"activities" yaml:"activities"`
	Learner    *FileLearner   `json:"learner,omitempty" yaml:"learner,omitempty"`
}

// FileLesson is the file form of a lesson.
type FileLesson struct {
	ID            string   `json:"id" yaml:"id"`
	Name          string   `json:"name,omitempty" yaml:"name,omitempty"`
	Threshold     float64  `json:"threshold" yaml:"threshold"`
	Prerequisites []string `json:"prerequisites,omitempty" yaml:"prerequisites,omitempty"`
}

// FileActivity is the file form of an activity.
type FileActivity struct {
	ID         string             `json:"id" yaml:"id"`
	Name       string             `json:"name,omitempty" yaml:"name,omitempty"`
	Duration   float64            `json:"duration" yaml:"duration"`
	Style      string             `json:"style,omitempty" yaml:"style,omitempty"`
	Type       string             `json:"type,omitempty" yaml:"type,omitempty"`
	Difficulty string             `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	Gains      map[string]float64 `json:"gains" yaml:"gains"`
}

// FileLearner is the file form of the learner profile.
type FileLearner struct {
	InitialMastery        map[string]float64 `json:"initial_mastery,omitempty" yaml:"initial_mastery,omitempty"`
	PreferredStyles       []string           `json:"preferred_styles,omitempty" yaml:"preferred_styles,omitempty"`
	PreferredDifficulties []string           `json:"preferred_difficulties,omitempty" yaml:"preferred_difficulties,omitempty"`
	PreferredTypes        []string           `json:"preferred_types,omitempty" yaml:"preferred_types,omitempty"`
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func compiled() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The jsonschema library expects a parsed JSON value (any), not
		// raw bytes. Marshal then unmarshal to get a clean representation.
		raw, err := json.Marshal(instanceSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		var parsed any
		if err := json.Unmarshal(raw, &parsed); err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("schema://instance.json", parsed); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("schema://instance.json")
	})
	return compiledSchema, compileErr
}

// Load reads an instance file (JSON or YAML, by extension), validates it
// against the instance schema, and maps it to validated domain types.
func Load(path string) (*curriculum.Instance, *curriculum.LearnerProfile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read instance: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return Parse(raw, true)
	default:
		return Parse(raw, false)
	}
}

// Parse validates and maps raw instance bytes. isYAML selects the decoder.
func Parse(raw []byte, isYAML bool) (*curriculum.Instance, *curriculum.LearnerProfile, error) {
	var generic any
	var f File
	if isYAML {
		if err := yaml.Unmarshal(raw, &generic); err != nil {
			return nil, nil, fmt.Errorf("decode yaml: %w", err)
		}
		if err := yaml.Unmarshal(raw, &f); err != nil {
			return nil, nil, fmt.Errorf("decode yaml: %w", err)
		}
	} else {
		if err := json.Unmarshal(raw, &generic); err != nil {
			return nil, nil, fmt.Errorf("decode json: %w", err)
		}
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, nil, fmt.Errorf("decode json: %w", err)
		}
	}

	schema, err := compiled()
	if err != nil {
		return nil, nil, err
	}
	if err := schema.Validate(generic); err != nil {
		return nil, nil, fmt.Errorf("instance schema: %w", err)
	}

	return f.Materialize()
}

// Materialize converts the file form to validated domain types.
func (f *File) Materialize() (*curriculum.Instance, *curriculum.LearnerProfile, error) {
	lessons := make([]curriculum.Lesson, 0, len(f.Lessons))
	for _, fl := range f.Lessons {
		lessons = append(lessons, curriculum.Lesson{
			ID:            fl.ID,
			Name:          fl.Name,
			Threshold:     curriculum.PointsFromFraction(fl.Threshold),
			Prerequisites: append([]string(nil), fl.Prerequisites...),
		})
	}

	activities := make([]curriculum.Activity, 0, len(f.Activities))
	for _, fa := range f.Activities {
		gains := make(map[string]int, len(fa.Gains))
		for lessonID, g := range fa.Gains {
			gains[lessonID] = curriculum.PointsFromFraction(g)
		}
		activities = append(activities, curriculum.Activity{
			ID:         fa.ID,
			Name:       fa.Name,
			Duration:   fa.Duration,
			Style:      curriculum.Style(fa.Style),
			Type:       curriculum.ActivityType(fa.Type),
			Difficulty: curriculum.Difficulty(fa.Difficulty),
			Gains:      gains,
		})
	}

	inst, err := curriculum.NewInstance(lessons, activities)
	if err != nil {
		return nil, nil, err
	}
	return inst, f.profile(), nil
}

// preference weights assigned to ordered preference lists: the first entry
// is strongest, trailing entries taper toward neutral.
const (
	topPreferenceWeight  = 0.9
	preferenceWeightStep = 0.1
)

func (f *File) profile() *curriculum.LearnerProfile {
	p := curriculum.NewLearnerProfile()
	if f.Learner == nil {
		return p
	}
	for lessonID, frac := range f.Learner.InitialMastery {
		p.InitialMastery[lessonID] = curriculum.PointsFromFraction(frac)
	}
	for i, s := range f.Learner.PreferredStyles {
		p.StylePreferences[curriculum.Style(s)] = orderedWeight(i)
	}
	for i, d := range f.Learner.PreferredDifficulties {
		p.DifficultyPreferences[curriculum.Difficulty(d)] = orderedWeight(i)
	}
	for i, t := range f.Learner.PreferredTypes {
		p.TypePreferences[curriculum.ActivityType(t)] = orderedWeight(i)
	}
	return p
}

// orderedWeight maps a position in an ordered preference list to a weight
// in (0.5, 0.9]: earlier entries get stronger weights, everything stays
// above the neutral 0.5 baseline.
func orderedWeight(pos int) float64 {
	w := topPreferenceWeight - preferenceWeightStep*float64(pos)
	if w < 0.55 {
		w = 0.55
	}
	return w
}

// WriteFile persists an instance document as indented JSON.
func WriteFile(path string, f *File) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal instance: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write instance: %w", err)
	}
	return nil
}
