package roadmap

import "github.com/abhisek/careerpilot/internal/llm"

// PlanSchema defines the JSON schema for the milestone plan.
var PlanSchema = &llm.Schema{
	Name:        "roadmap-plan",
	Description: "An ordered list of learning milestones for a goal",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"milestones": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title": map[string]any{
							"type":        "string",
							"description": "Short milestone title (3-8 words)",
						},
						"description": map[string]any{
							"type":        "string",
							"description": "What the learner does and produces in this step (1-3 sentences)",
						},
						"duration": map[string]any{
							"type":        "integer",
							"description": "Length of this step in durationUnit",
						},
						"durationUnit": map[string]any{
							"type": "string",
							"enum": []any{"hours", "days", "weeks", "months"},
						},
						"estimatedHours": map[string]any{
							"type":        "integer",
							"description": "Total hands-on hours for this step",
						},
						"difficulty": map[string]any{
							"type": "string",
							"enum": []any{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced},
						},
					},
					"required":             []any{"title", "description", "duration", "durationUnit", "estimatedHours", "difficulty"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"milestones"},
		"additionalProperties": false,
	},
}

// QuizSchema defines the JSON schema for milestone quiz questions.
var QuizSchema = &llm.Schema{
	Name:        "roadmap-quiz",
	Description: "Two multiple-choice questions checking one milestone",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":     "array",
				"minItems": 2,
				"maxItems": 2,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type": "string",
						},
						"options": map[string]any{
							"type":     "array",
							"items":    map[string]any{"type": "string"},
							"minItems": 4,
							"maxItems": 4,
						},
						"correctIndex": map[string]any{
							"type":        "integer",
							"minimum":     0,
							"maximum":     3,
							"description": "Zero-based index of the correct option",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "Why the correct option is right (1-2 sentences)",
						},
					},
					"required":             []any{"question", "options", "correctIndex", "explanation"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
