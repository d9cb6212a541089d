package instance

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathweaver/pathweaver/internal/curriculum"
)

const jsonInstance = `{
  "lessons": [
    {"id": "A", "threshold": 0.7},
    {"id": "B", "threshold": 0.8, "prerequisites": ["A"]}
  ],
  "activities": [
    {"id": "a1", "duration": 2, "style": "visual", "type": "video",
     "difficulty": "easy", "gains": {"A": 0.7}},
    {"id": "b1", "duration": 3, "style": "reading/writing", "type": "quiz",
     "difficulty": "medium", "gains": {"B": 0.8}}
  ],
  "learner": {
    "initial_mastery": {"A": 0.2},
    "preferred_styles": ["visual", "auditory"],
    "preferred_difficulties": ["easy"]
  }
}`

const yamlInstance = `
lessons:
  - id: A
    threshold: 0.7
  - id: B
    threshold: 0.8
    prerequisites: [A]
activities:
  - id: a1
    duration: 2
    style: visual
    type: video
    difficulty: easy
    gains:
      A: 0.7
  - id: b1
    duration: 3
    gains:
      B: 0.8
`

func TestParse_JSON(t *testing.T) {
	inst, profile, err := Parse([]byte(jsonInstance), false)
	require.NoError(t, err)

	assert.Equal(t, 2, inst.Graph().Len())
	l, ok := inst.Graph().Lesson("A")
	require.True(t, ok)
	assert.Equal(t, 70, l.Threshold)

	a, ok := inst.Activity("a1")
	require.True(t, ok)
	assert.Equal(t, curriculum.StyleVisual, a.Style)
	assert.Equal(t, 70, a.Gain("A"))

	assert.Equal(t, 20, profile.InitialMastery["A"])
	assert.InDelta(t, 0.9, profile.StyleWeight(curriculum.StyleVisual), 1e-9)
	assert.InDelta(t, 0.8, profile.StyleWeight(curriculum.StyleAuditory), 1e-9)
	assert.InDelta(t, 0.9, profile.DifficultyWeight(curriculum.DifficultyEasy), 1e-9)
	// Unlisted preferences stay neutral.
	assert.InDelta(t, 0.5, profile.StyleWeight(curriculum.StyleKinesthetic), 1e-9)
}

func TestParse_YAML(t *testing.T) {
	inst, profile, err := Parse([]byte(yamlInstance), true)
	require.NoError(t, err)
	assert.Equal(t, 2, inst.Graph().Len())
	require.NotNil(t, profile)
	assert.Empty(t, profile.InitialMastery)
}

func TestParse_SchemaRejections(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing lessons", `{"activities": []}`},
		{"threshold above one", `{
			"lessons": [{"id": "A", "threshold": 1.4}],
			"activities": [{"id": "a1", "duration": 2, "gains": {"A": 0.5}}]
		}`},
		{"zero duration", `{
			"lessons": [{"id": "A", "threshold": 0.5}],
			"activities": [{"id": "a1", "duration": 0, "gains": {"A": 0.5}}]
		}`},
		{"bad style", `{
			"lessons": [{"id": "A", "threshold": 0.5}],
			"activities": [{"id": "a1", "duration": 2, "style": "osmosis", "gains": {"A": 0.5}}]
		}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse([]byte(tt.doc), false)
			assert.Error(t, err)
		})
	}
}

func TestParse_StructuralRejection(t *testing.T) {
	// Schema-valid but structurally broken: dangling prerequisite.
	doc := `{
		"lessons": [{"id": "A", "threshold": 0.5, "prerequisites": ["ghost"]}],
		"activities": [{"id": "a1", "duration": 2, "gains": {"A": 0.5}}]
	}`
	_, _, err := Parse([]byte(doc), false)
	require.Error(t, err)
	var malformed *curriculum.MalformedInstanceError
	assert.ErrorAs(t, err, &malformed)
}

func TestLoadWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "instance.json")

	f, err := Generate(TierBasic, 7)
	require.NoError(t, err)
	require.NoError(t, WriteFile(path, f))

	inst, profile, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, len(f.Lessons), inst.Graph().Len())
	assert.Len(t, inst.Activities(), len(f.Activities))
	assert.NotNil(t, profile)
}

func TestLoad_YAMLByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "instance.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlInstance), 0o644))

	inst, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, inst.Graph().Len())
}

func TestLoad_MissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestOrderedWeight(t *testing.T) {
	assert.InDelta(t, 0.9, orderedWeight(0), 1e-9)
	assert.InDelta(t, 0.8, orderedWeight(1), 1e-9)
	// Tapers but never reaches neutral.
	assert.InDelta(t, 0.55, orderedWeight(9), 1e-9)
}
