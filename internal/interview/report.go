package interview

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/abhisek/careerpilot/internal/apperr"
	"github.com/abhisek/careerpilot/internal/llm"
)

// Synthesizer writes the final interview report through the LLM.
type Synthesizer struct {
	provider llm.Provider
	cfg      Config
}

// NewSynthesizer creates an LLM-backed report synthesizer.
func NewSynthesizer(provider llm.Provider, cfg Config) *Synthesizer {
	return &Synthesizer{provider: provider, cfg: cfg}
}

type reportOutput struct {
	OverallScore   float64  `json:"overallScore"`
	Strengths      []string `json:"strengths"`
	Weaknesses     []string `json:"weaknesses"`
	TopicBreakdown []struct {
		Topic string  `json:"topic"`
		Score float64 `json:"score"`
	} `json:"topicBreakdown"`
	Recommendation   string   `json:"recommendation"`
	NextSteps        []string `json:"nextSteps"`
	HiringSuggestion string   `json:"hiringSuggestion"`
}

// Summarize makes one delegate call. The hiring tier is always derived
// from the average of scores, whatever the delegate suggested.
func (s *Synthesizer) Summarize(ctx context.Context, transcript []string, scores []int, cfg ReportConfig) (*Report, error) {
	ctx = llm.WithPurpose(ctx, "interview-report")

	avg := AverageScore(scores)
	system, user, err := buildReportPrompt(transcript, scores, avg, cfg)
	if err != nil {
		return nil, fmt.Errorf("build report prompt: %w", err)
	}

	resp, err := s.provider.Generate(ctx, llm.Prompt(system, user,
		ReportSchema, s.cfg.ReportMaxTokens, s.cfg.ReportTemperature))
	if err != nil {
		return nil, apperr.Delegate("summarize interview", err)
	}

	var out reportOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, apperr.Delegate("summarize interview", fmt.Errorf("parse report: %w", err))
	}

	rep := &Report{
		OverallScore:     ClampScore(out.OverallScore, false),
		AverageScore:     avg,
		Strengths:        out.Strengths,
		Weaknesses:       out.Weaknesses,
		Recommendation:   out.Recommendation,
		NextSteps:        out.NextSteps,
		HiringSuggestion: TierFor(avg),
	}
	for _, t := range out.TopicBreakdown {
		rep.TopicBreakdown = append(rep.TopicBreakdown, TopicScore{Topic: t.Topic, Score: ClampScore(t.Score, false)})
	}
	return rep, nil
}

// AverageScore is the rounded mean of scores, 0 for an empty series.
func AverageScore(scores []int) int {
	if len(scores) == 0 {
		return 0
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	return int(math.Round(float64(sum) / float64(len(scores))))
}
