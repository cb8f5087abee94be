package resume

import "github.com/abhisek/careerpilot/internal/llm"

func stringArray(desc string) map[string]any {
	return map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": desc}
}

// ProfileSchema defines the structured resume.
var ProfileSchema = &llm.Schema{
	Name:        "resume-profile",
	Description: "Structured data extracted from a resume",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"fullName": map[string]any{"type": "string"},
			"email":    map[string]any{"type": "string"},
			"summary":  map[string]any{"type": "string"},
			"skills": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"category": map[string]any{"type": "string"},
						"name": map[string]any{
							"type":        "string",
							"description": "Standardized skill name, e.g. 'Golang' instead of 'Go'",
						},
					},
					"required": []any{"name"},
				},
			},
			"experience": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"role":        map[string]any{"type": "string"},
						"company":     map[string]any{"type": "string"},
						"duration":    map[string]any{"type": "string"},
						"description": map[string]any{"type": "string"},
					},
					"required": []any{"role", "company", "description"},
				},
			},
			"projects": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title":       map[string]any{"type": "string"},
						"techStack":   stringArray("Technologies used"),
						"description": map[string]any{"type": "string"},
					},
					"required": []any{"title", "techStack", "description"},
				},
			},
			"education": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"degree":      map[string]any{"type": "string"},
						"institution": map[string]any{"type": "string"},
						"year":        map[string]any{"type": "string"},
					},
					"required": []any{"degree", "institution"},
				},
			},
		},
		"required": []any{"skills", "experience", "projects", "education"},
	},
}

// AnalysisSchema defines the gap analysis. Status is derived from the
// score after parsing, so it is not requested.
var AnalysisSchema = &llm.Schema{
	Name:        "resume-analysis",
	Description: "Gap analysis of a resume against a job description",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score": map[string]any{
				"type":        "number",
				"description": "How well the resume matches the job, 0-100",
			},
			"summary":          map[string]any{"type": "string", "description": "Direct feedback summary"},
			"topMissingSkills": stringArray("Skills the job requires that are missing or weak in the resume"),
			"recommendedStack": map[string]any{"type": "string", "description": "The exact tech stack needed for the role"},
			"roadmap": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"week":  map[string]any{"type": "string"},
						"goal":  map[string]any{"type": "string"},
						"tasks": stringArray("Concrete tasks for the week"),
					},
					"required": []any{"week", "goal", "tasks"},
				},
			},
			"atsFixes": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"original": map[string]any{"type": "string"},
						"improved": map[string]any{"type": "string"},
						"reason":   map[string]any{"type": "string"},
					},
					"required": []any{"original", "improved", "reason"},
				},
			},
			"projectIdea":   map[string]any{"type": "string", "description": "Project name and high-level description"},
			"interviewPrep": map[string]any{"type": "string", "description": "A hard scenario-based question"},
		},
		"required": []any{"score", "summary", "topMissingSkills", "recommendedStack", "roadmap", "atsFixes", "projectIdea", "interviewPrep"},
	},
}
