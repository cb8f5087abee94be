package roadmap

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/abhisek/careerpilot/internal/llm"
)

// QuestionsPerMilestone is the number of questions asked of the LLM.
const QuestionsPerMilestone = 2

// QuizGenerator writes multiple-choice checks for milestones.
type QuizGenerator struct {
	provider llm.Provider
	cfg      Config
}

// NewQuizGenerator creates an LLM-backed quiz generator.
func NewQuizGenerator(provider llm.Provider, cfg Config) *QuizGenerator {
	return &QuizGenerator{provider: provider, cfg: cfg.withDefaults()}
}

type quizOutput struct {
	Questions []QuizQuestion `json:"questions"`
}

// Generate returns exactly two questions for m, or the single
// FallbackQuiz question if the LLM fails.
func (g *QuizGenerator) Generate(ctx context.Context, goal string, m PlannedMilestone) []QuizQuestion {
	qs, err := g.generate(ctx, goal, m)
	if err != nil {
		logx.WithContext(ctx).Errorw("quiz generation failed, using fallback",
			logx.Field("milestone", m.Title),
			logx.Field("error", err.Error()))
		return []QuizQuestion{FallbackQuiz(m.Title)}
	}
	return qs
}

func (g *QuizGenerator) generate(ctx context.Context, goal string, m PlannedMilestone) ([]QuizQuestion, error) {
	ctx = llm.WithPurpose(ctx, "roadmap-quiz")

	userMsg, err := buildQuizMessage(goal, m)
	if err != nil {
		return nil, fmt.Errorf("build quiz prompt: %w", err)
	}

	resp, err := g.provider.Generate(ctx, llm.Prompt(quizSystemPrompt, userMsg,
		QuizSchema, g.cfg.QuizMaxTokens, g.cfg.QuizTemperature))
	if err != nil {
		return nil, fmt.Errorf("LLM quiz failed: %w", err)
	}

	var out quizOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse quiz: %w", err)
	}
	if len(out.Questions) != QuestionsPerMilestone {
		return nil, fmt.Errorf("quiz has %d questions, want %d", len(out.Questions), QuestionsPerMilestone)
	}
	for i, q := range out.Questions {
		if err := checkQuestion(q); err != nil {
			return nil, fmt.Errorf("quiz question %d: %w", i+1, err)
		}
		out.Questions[i].Question = strings.TrimSpace(q.Question)
	}
	return out.Questions, nil
}

func checkQuestion(q QuizQuestion) error {
	if strings.TrimSpace(q.Question) == "" {
		return fmt.Errorf("empty question")
	}
	if len(q.Options) != 4 {
		return fmt.Errorf("%d options, want 4", len(q.Options))
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return fmt.Errorf("correct index %d out of range", q.CorrectIndex)
	}
	return nil
}

// FallbackQuiz is the fixed question used when quiz generation fails.
func FallbackQuiz(title string) QuizQuestion {
	return QuizQuestion{
		Question: fmt.Sprintf("What is the most effective way to lock in what you learned in %q?", title),
		Options: []string{
			"Build something small that uses it",
			"Re-read the material once more",
			"Skip ahead to the next milestone",
			"Memorize the definitions",
		},
		CorrectIndex: 0,
		Explanation:  "Applying a concept in a small project exposes gaps that reading alone does not.",
	}
}
