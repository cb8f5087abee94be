package llm

import (
	"errors"
	"net/http"
	"testing"

	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.0-flash"},
		{"gemini-pro", "gemini-2.0-pro"},
		{"gemini-2.5-flash", "gemini-2.5-flash"}, // pass-through
	}
	for _, tt := range tests {
		if got := resolveModel(tt.input, geminiModels); got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildGeminiSchema_QuizShape(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question":     map[string]any{"type": "string", "description": "one sentence"},
						"options":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"correctIndex": map[string]any{"type": "integer"},
						"difficulty":   map[string]any{"type": "string", "enum": []any{"BEGINNER", "INTERMEDIATE", "ADVANCED"}},
					},
					"required": []any{"question", "options", "correctIndex"},
				},
			},
			"isInterviewOver": map[string]any{"type": "boolean"},
			"score":           map[string]any{"type": "number"},
		},
		"required": []any{"questions"},
	}

	schema := buildGeminiSchema(def)
	if schema.Type != genai.TypeObject || len(schema.Properties) != 3 || len(schema.Required) != 1 {
		t.Fatalf("top level = %+v", schema)
	}
	if schema.Properties["isInterviewOver"].Type != genai.TypeBoolean {
		t.Errorf("isInterviewOver type = %s", schema.Properties["isInterviewOver"].Type)
	}
	if schema.Properties["score"].Type != genai.TypeNumber {
		t.Errorf("score type = %s", schema.Properties["score"].Type)
	}

	item := schema.Properties["questions"].Items
	if item == nil || item.Type != genai.TypeObject {
		t.Fatalf("questions items = %+v", item)
	}
	if item.Properties["options"].Items.Type != genai.TypeString {
		t.Errorf("options items type = %s", item.Properties["options"].Items.Type)
	}
	if item.Properties["correctIndex"].Type != genai.TypeInteger {
		t.Errorf("correctIndex type = %s", item.Properties["correctIndex"].Type)
	}
	if item.Properties["question"].Description != "one sentence" {
		t.Errorf("description dropped")
	}
	if len(item.Properties["difficulty"].Enum) != 3 || len(item.Required) != 3 {
		t.Errorf("difficulty enum = %v, required = %v", item.Properties["difficulty"].Enum, item.Required)
	}
}

func TestBuildGeminiContents(t *testing.T) {
	got := buildGeminiContents([]Message{
		{Role: RoleUser, Content: "question"},
		{Role: RoleAssistant, Content: "answer"},
	})
	if len(got) != 2 || got[0].Role != "user" || got[1].Role != "model" || got[1].Parts[0].Text != "answer" {
		t.Fatalf("contents = %+v", got)
	}
}

func TestMapGeminiError(t *testing.T) {
	var rl *ErrRateLimit
	if err := mapGeminiError(&genai.APIError{Code: http.StatusTooManyRequests}); !errors.As(err, &rl) {
		t.Errorf("429 mapped to %T", err)
	}
	var un *ErrProviderUnavailable
	if err := mapGeminiError(&genai.APIError{Code: http.StatusBadGateway}); !errors.As(err, &un) {
		t.Errorf("502 mapped to %T", err)
	}
	if err := mapGeminiError(errors.New("dial tcp")); !errors.As(err, &un) {
		t.Errorf("transport error mapped to %T", err)
	}
}

func TestMapGeminiError_ValueAPIError(t *testing.T) {
	// The client returns APIError by value.
	var rl *ErrRateLimit
	if err := mapGeminiError(genai.APIError{Code: http.StatusTooManyRequests}); !errors.As(err, &rl) {
		t.Errorf("429 value error mapped to %T", err)
	}
}

func TestGeminiConfig_Temperature(t *testing.T) {
	cfg := geminiConfig(Prompt("You parse resumes.", "text", nil, 256, 0))
	if cfg.Temperature == nil || *cfg.Temperature != 0 {
		t.Errorf("zero temperature dropped: %v", cfg.Temperature)
	}
	if cfg.SystemInstruction == nil || cfg.SystemInstruction.Parts[0].Text != "You parse resumes." {
		t.Errorf("system instruction = %+v", cfg.SystemInstruction)
	}
	if cfg.MaxOutputTokens != 256 {
		t.Errorf("MaxOutputTokens = %d", cfg.MaxOutputTokens)
	}

	cfg = geminiConfig(Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	if cfg.Temperature != nil {
		t.Errorf("unset temperature sent as %v", *cfg.Temperature)
	}
}

func TestBuildGeminiSchema_Bounds(t *testing.T) {
	schema := buildGeminiSchema(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"options": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"minItems": 4,
				"maxItems": 4,
			},
			"score": map[string]any{"type": "integer", "minimum": 0, "maximum": 100.0},
		},
		"required": []string{"options", "score"},
	})

	opts := schema.Properties["options"]
	if opts.MinItems == nil || *opts.MinItems != 4 || opts.MaxItems == nil || *opts.MaxItems != 4 {
		t.Errorf("options bounds = %v..%v", opts.MinItems, opts.MaxItems)
	}
	score := schema.Properties["score"]
	if score.Minimum == nil || *score.Minimum != 0 || score.Maximum == nil || *score.Maximum != 100 {
		t.Errorf("score bounds = %v..%v", score.Minimum, score.Maximum)
	}
	if len(schema.Required) != 2 {
		t.Errorf("required = %v", schema.Required)
	}
}
