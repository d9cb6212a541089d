package instance

// instanceSchema defines the JSON schema every instance file must satisfy
// before it is mapped onto the domain types. Structural checks live here;
// semantic checks (cycles, dangling references) belong to the curriculum
// validator.
var instanceSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"lessons": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":   map[string]any{"type": "string", "minLength": 1},
					"name": map[string]any{"type": "string"},
					"threshold": map[string]any{
						"type":    "number",
						"minimum": 0,
						"maximum": 1,
					},
					"prerequisites": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
				},
				"required":             []any{"id", "threshold"},
				"additionalProperties": false,
			},
		},
		"activities": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":   map[string]any{"type": "string", "minLength": 1},
					"name": map[string]any{"type": "string"},
					"duration": map[string]any{
						"type":             "number",
						"exclusiveMinimum": 0,
					},
					"style": map[string]any{
						"type": "string",
						"enum": []any{"visual", "auditory", "reading/writing", "kinesthetic"},
					},
					"type": map[string]any{
						"type": "string",
						"enum": []any{"reading", "video", "quiz", "discussion", "exercise", "project", "game", "simulation"},
					},
					"difficulty": map[string]any{
						"type": "string",
						"enum": []any{"easy", "medium", "hard"},
					},
					"gains": map[string]any{
						"type": "object",
						"additionalProperties": map[string]any{
							"type":    "number",
							"minimum": 0,
							"maximum": 1,
						},
					},
				},
				"required":             []any{"id", "duration", "gains"},
				"additionalProperties": false,
			},
		},
		"learner": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"initial_mastery": map[string]any{
					"type": "object",
					"additionalProperties": map[string]any{
						"type":    "number",
						"minimum": 0,
						"maximum": 1,
					},
				},
				"preferred_styles": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
				"preferred_difficulties": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
				"preferred_types": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
			"additionalProperties": false,
		},
	},
	"required":             []any{"lessons", "activities"},
	"additionalProperties": false,
}
