package mentor

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/abhisek/careerpilot/internal/llm"
)

// HistoryWindow is how many trailing messages the teaching prompt sees.
const HistoryWindow = 6

var teachSystemTemplate = template.Must(template.New("teach").Parse(`You are a senior technical mentor teaching: {{.Topic}}

Rules:
1. Never repeat yourself or restate the question.
2. Start with the answer, no preamble.
3. Stay within 200-300 words unless a code example is needed.
4. Use markdown: bold key terms, bullet lists, fenced code blocks with a language tag.
5. Build on the conversation when it is relevant.

Conversation so far:
{{.History}}

Current question: {{printf "%q" .Message}}`))

var explainSystemTemplate = template.Must(template.New("explain").Parse(`You are a concept architect explaining: {{.Topic}}

Use exactly this structure:

### The Core Concept
Two or three sentences on what it is.

### Why It Matters
Three short bullets.

### How It Works
A brief explanation with a small, production-quality code example when relevant.

### Key Takeaway
One sentence.

Stay under 300 words and do not repeat yourself.`))

const quizSystemPrompt = `You are a quiz master writing one multiple-choice question that tests deep understanding of the given topic.

Rules:
- Exactly four options, all plausible.
- correctIndex is the zero-based index of the right option.
- The explanation is one sentence of at most 20 words.`

// formatHistory renders the last HistoryWindow messages as a transcript.
func formatHistory(history []Message) string {
	if len(history) == 0 {
		return "This is the start of the conversation."
	}
	if len(history) > HistoryWindow {
		history = history[len(history)-HistoryWindow:]
	}
	lines := make([]string, 0, len(history))
	for _, m := range history {
		who := "Mentor"
		if m.Role == SpeakerUser {
			who = "Student"
		}
		lines = append(lines, who+": "+strings.TrimSpace(m.Text))
	}
	return strings.Join(lines, "\n")
}

func render(t *template.Template, data any) (string, error) {
	var b bytes.Buffer
	if err := t.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

// QuizSchema is one question with exactly four options.
var QuizSchema = &llm.Schema{
	Name:        "mentor-quiz",
	Description: "A single multiple-choice question about the topic",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{"type": "string"},
			"options": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"minItems": 4,
				"maxItems": 4,
			},
			"correctIndex": map[string]any{
				"type":    "integer",
				"minimum": 0,
				"maximum": 3,
			},
			"explanation": map[string]any{"type": "string"},
		},
		"required":             []any{"question", "options", "correctIndex", "explanation"},
		"additionalProperties": false,
	},
}
