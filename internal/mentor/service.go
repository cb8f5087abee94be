package mentor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/abhisek/careerpilot/internal/apperr"
	"github.com/abhisek/careerpilot/internal/llm"
)

// Config holds delegate settings for mentor replies.
type Config struct {
	MaxTokens     int
	QuizMaxTokens int
	Temperature   float64
}

// DefaultConfig returns the mentor defaults.
func DefaultConfig() Config {
	return Config{MaxTokens: 2000, QuizMaxTokens: 512, Temperature: 0.2}
}

// Service produces mentor replies.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// New creates a mentor Service.
func New(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// Ask answers one mentor turn. Teach and explain failures are delegate
// errors; a failed quiz degrades to FallbackQuiz.
func (s *Service) Ask(ctx context.Context, req Request) (*Reply, error) {
	mode, err := ParseMode(req.Mode)
	if err != nil {
		return nil, err
	}
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, apperr.Invalid("topic", "topic is required")
	}
	ctx = llm.WithUser(ctx, req.UserID)

	switch mode {
	case ModeQuiz:
		return s.quiz(ctx, topic), nil
	case ModeExplain:
		system, err := render(explainSystemTemplate, struct{ Topic string }{topic})
		if err != nil {
			return nil, fmt.Errorf("build explain prompt: %w", err)
		}
		return s.text(ctx, ModeExplain, system, "Explain "+topic+".")
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, apperr.Invalid("message", "message is required")
	}
	system, err := render(teachSystemTemplate, struct {
		Topic, History, Message string
	}{topic, formatHistory(req.History), message})
	if err != nil {
		return nil, fmt.Errorf("build teach prompt: %w", err)
	}
	return s.text(ctx, ModeTeach, system, message)
}

func (s *Service) text(ctx context.Context, mode Mode, system, user string) (*Reply, error) {
	ctx = llm.WithPurpose(ctx, "mentor-"+string(mode))
	resp, err := s.provider.Generate(ctx, llm.Prompt(system, user, nil, s.cfg.MaxTokens, s.cfg.Temperature))
	if err != nil {
		return nil, apperr.Delegate("mentor "+string(mode), err)
	}
	content := strings.TrimSpace(string(resp.Content))
	if content == "" {
		return nil, apperr.Delegate("mentor "+string(mode), errors.New("empty reply"))
	}
	return &Reply{Mode: mode, Content: content}, nil
}

func (s *Service) quiz(ctx context.Context, topic string) *Reply {
	ctx = llm.WithPurpose(ctx, "mentor-quiz")
	q, err := s.generateQuiz(ctx, topic)
	if err != nil {
		logx.WithContext(ctx).Infow("mentor quiz failed, using fallback",
			logx.Field("topic", topic),
			logx.Field("error", err.Error()))
		fb := FallbackQuiz(topic)
		return &Reply{Mode: ModeQuiz, Quiz: &fb, Fallback: true}
	}
	return &Reply{Mode: ModeQuiz, Quiz: q}
}

func (s *Service) generateQuiz(ctx context.Context, topic string) (*Quiz, error) {
	resp, err := s.provider.Generate(ctx, llm.Prompt(quizSystemPrompt, "Topic: "+topic,
		QuizSchema, s.cfg.QuizMaxTokens, s.cfg.Temperature))
	if err != nil {
		return nil, err
	}
	var q Quiz
	if err := json.Unmarshal(resp.Content, &q); err != nil {
		return nil, fmt.Errorf("parse quiz: %w", err)
	}
	if err := checkQuiz(q); err != nil {
		return nil, err
	}
	q.Question = strings.TrimSpace(q.Question)
	return &q, nil
}

func checkQuiz(q Quiz) error {
	if strings.TrimSpace(q.Question) == "" {
		return errors.New("empty question")
	}
	if len(q.Options) != 4 {
		return fmt.Errorf("%d options, want 4", len(q.Options))
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return fmt.Errorf("correct index %d out of range", q.CorrectIndex)
	}
	return nil
}

// FallbackQuiz is the fixed question served when quiz generation fails.
func FallbackQuiz(topic string) Quiz {
	return Quiz{
		Question: fmt.Sprintf("What is a key concept in %s?", topic),
		Options: []string{
			"Understanding the fundamental principles",
			"Memorizing syntax",
			"Copying code examples",
			"Skipping documentation",
		},
		CorrectIndex: 0,
		Explanation:  "Understanding fundamentals is crucial for mastery.",
	}
}
