package interview

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/abhisek/careerpilot/internal/apperr"
	"github.com/abhisek/careerpilot/internal/llm"
)

// HintScoreCap is the highest score a hinted answer can receive.
const HintScoreCap = 75

// Evaluator scores answers through the LLM.
type Evaluator struct {
	provider llm.Provider
	cfg      Config
}

// NewEvaluator creates an LLM-backed evaluator.
func NewEvaluator(provider llm.Provider, cfg Config) *Evaluator {
	return &Evaluator{provider: provider, cfg: cfg}
}

type evaluationOutput struct {
	Feedback        string   `json:"feedback"`
	Score           float64  `json:"score"`
	BetterAnswer    string   `json:"betterAnswer"`
	NextQuestion    string   `json:"nextQuestion"`
	IsInterviewOver bool     `json:"isInterviewOver"`
	TopicsCovered   []string `json:"topicsCovered"`
}

// Evaluate makes one delegate call and applies the local score and
// termination rules to its output.
func (e *Evaluator) Evaluate(ctx context.Context, question, answer string, history []string, cfg EvalConfig) (*Evaluation, error) {
	ctx = llm.WithPurpose(ctx, "interview-evaluation")

	userMsg, err := buildEvaluationMessage(question, answer, history, cfg, e.cfg.HistoryWindow)
	if err != nil {
		return nil, fmt.Errorf("build evaluation prompt: %w", err)
	}

	resp, err := e.provider.Generate(ctx, llm.Prompt(evaluationSystemPrompt, userMsg,
		EvaluationSchema, e.cfg.EvalMaxTokens, e.cfg.EvalTemperature))
	if err != nil {
		return nil, apperr.Delegate("evaluate answer", err)
	}

	var out evaluationOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, apperr.Delegate("evaluate answer", fmt.Errorf("parse evaluation: %w", err))
	}

	ev := &Evaluation{
		Feedback:      out.Feedback,
		Score:         ClampScore(out.Score, cfg.HintUsed),
		ModelAnswer:   out.BetterAnswer,
		NextQuestion:  out.NextQuestion,
		IsOver:        out.IsInterviewOver,
		TopicsCovered: UnionTopics(nil, out.TopicsCovered),
	}
	if cfg.MaxQuestions > 0 && cfg.QuestionIndex >= cfg.MaxQuestions {
		ev.IsOver = true
	}
	return ev, nil
}

// ClampScore rounds raw into [0,100], and into [0,HintScoreCap] when a hint
// was used.
func ClampScore(raw float64, hintUsed bool) int {
	if math.IsNaN(raw) {
		return 0
	}
	hi := 100.0
	if hintUsed {
		hi = HintScoreCap
	}
	return int(math.Round(math.Max(0, math.Min(hi, raw))))
}

// UnionTopics appends the trimmed, non-empty entries of add to base,
// skipping case-insensitive duplicates. base is not modified.
func UnionTopics(base, add []string) []string {
	out := make([]string, 0, len(base)+len(add))
	seen := make(map[string]bool, len(base)+len(add))
	for _, list := range [][]string{base, add} {
		for _, t := range list {
			t = strings.TrimSpace(t)
			key := strings.ToLower(t)
			if t == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, t)
		}
	}
	return out
}
