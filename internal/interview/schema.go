package interview

import "github.com/abhisek/careerpilot/internal/llm"

// EvaluationSchema defines the JSON schema for scoring one answer.
// Score bounds are enforced after parsing, not by the schema.
var EvaluationSchema = &llm.Schema{
	Name:        "interview-evaluation",
	Description: "Evaluation of one interview answer plus the next question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"feedback": map[string]any{
				"type":        "string",
				"description": "Specific critique of the answer: what was good and what was missing (2-3 sentences)",
			},
			"score": map[string]any{
				"type":        "number",
				"description": "Score from 0-100: technical accuracy 40%, clarity 30%, completeness 30%",
			},
			"betterAnswer": map[string]any{
				"type":        "string",
				"description": "A concise model answer showing best practices",
			},
			"nextQuestion": map[string]any{
				"type":        "string",
				"description": "The next interview question to ask",
			},
			"isInterviewOver": map[string]any{
				"type":        "boolean",
				"description": "True only when the question number equals or exceeds the maximum",
			},
			"topicsCovered": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "1-3 skills or concepts assessed in this exchange",
			},
		},
		"required":             []any{"feedback", "score", "betterAnswer", "nextQuestion", "isInterviewOver", "topicsCovered"},
		"additionalProperties": true,
	},
}

// HintSchema defines the JSON schema for a hint.
var HintSchema = &llm.Schema{
	Name:        "interview-hint",
	Description: "A short nudge toward the right approach",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"hint": map[string]any{
				"type":        "string",
				"description": "A helpful nudge under 60 words that does not give away the answer",
			},
		},
		"required":             []any{"hint"},
		"additionalProperties": false,
	},
}

// ReportSchema defines the JSON schema for the final interview report.
var ReportSchema = &llm.Schema{
	Name:        "interview-report",
	Description: "Final report for a completed interview",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"overallScore": map[string]any{
				"type":        "number",
				"description": "Weighted average score across all questions",
			},
			"strengths": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"minItems": 2,
				"maxItems": 5,
			},
			"weaknesses": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"minItems": 2,
				"maxItems": 5,
			},
			"topicBreakdown": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"topic": map[string]any{"type": "string"},
						"score": map[string]any{"type": "number"},
					},
					"required": []any{"topic", "score"},
				},
			},
			"recommendation": map[string]any{
				"type":        "string",
				"description": "2-3 sentence hiring recommendation with reasoning",
			},
			"nextSteps": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"minItems": 3,
				"maxItems": 5,
			},
			"hiringSuggestion": map[string]any{
				"type": "string",
				"enum": []any{string(StrongHire), string(Hire), string(NoHire), string(StrongNoHire)},
			},
		},
		"required": []any{
			"overallScore", "strengths", "weaknesses", "topicBreakdown",
			"recommendation", "nextSteps", "hiringSuggestion",
		},
		"additionalProperties": true,
	},
}
