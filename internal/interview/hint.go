package interview

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/abhisek/careerpilot/internal/llm"
)

// FallbackHint is returned when the delegate cannot produce a hint.
const FallbackHint = "Take a moment to structure your answer. Start with the core idea, then walk through your approach step by step and mention any trade-offs."

// HintProvider asks the LLM for hints. Hints are best effort: failures
// degrade to FallbackHint.
type HintProvider struct {
	provider llm.Provider
	cfg      Config
}

// NewHintProvider creates an LLM-backed hint provider.
func NewHintProvider(provider llm.Provider, cfg Config) *HintProvider {
	return &HintProvider{provider: provider, cfg: cfg}
}

// Hint returns a short nudge for question. It never returns an error for
// delegate failures.
func (h *HintProvider) Hint(ctx context.Context, question string, cfg HintConfig) (string, error) {
	ctx = llm.WithPurpose(ctx, "interview-hint")

	system, err := buildHintSystem(cfg)
	if err != nil {
		return "", err
	}

	user := fmt.Sprintf("The candidate is struggling with this question:\n%q", question)
	resp, err := h.provider.Generate(ctx, llm.Prompt(system, user,
		HintSchema, h.cfg.HintMaxTokens, h.cfg.HintTemperature))
	if err != nil {
		logx.WithContext(ctx).Infow("hint generation failed, using fallback", logx.Field("error", err.Error()))
		return FallbackHint, nil
	}

	var out struct {
		Hint string `json:"hint"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil || strings.TrimSpace(out.Hint) == "" {
		return FallbackHint, nil
	}
	return strings.TrimSpace(out.Hint), nil
}
