package roadmap

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/abhisek/careerpilot/internal/llm"
)

// Planner asks the LLM for an ordered milestone plan.
type Planner struct {
	provider llm.Provider
	cfg      Config
}

// NewPlanner creates an LLM-backed planner.
func NewPlanner(provider llm.Provider, cfg Config) *Planner {
	return &Planner{provider: provider, cfg: cfg.withDefaults()}
}

type planOutput struct {
	Milestones []PlannedMilestone `json:"milestones"`
}

// Plan returns the milestones for goal. Any delegate failure yields
// FallbackPlan instead of an error; the bool reports whether that
// happened.
func (p *Planner) Plan(ctx context.Context, goal string, tb *TimeBox) ([]PlannedMilestone, bool) {
	ms, err := p.plan(ctx, goal, tb)
	if err != nil {
		logx.WithContext(ctx).Errorw("roadmap plan failed, using fallback",
			logx.Field("goal", goal),
			logx.Field("error", err.Error()))
		return FallbackPlan(goal, tb), true
	}
	return ms, false
}

func (p *Planner) plan(ctx context.Context, goal string, tb *TimeBox) ([]PlannedMilestone, error) {
	ctx = llm.WithPurpose(ctx, "roadmap-plan")

	userMsg, err := buildPlanMessage(goal, tb, p.milestoneCount(tb))
	if err != nil {
		return nil, fmt.Errorf("build plan prompt: %w", err)
	}

	resp, err := p.provider.Generate(ctx, llm.Prompt(planSystemPrompt, userMsg,
		PlanSchema, p.cfg.PlanMaxTokens, p.cfg.PlanTemperature))
	if err != nil {
		return nil, fmt.Errorf("LLM plan failed: %w", err)
	}

	var out planOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}

	var ms []PlannedMilestone
	for _, m := range out.Milestones {
		m.Title = strings.TrimSpace(m.Title)
		if m.Title == "" {
			continue
		}
		ms = append(ms, normalizeMilestone(m, tb))
	}
	if len(ms) == 0 {
		return nil, fmt.Errorf("plan has no usable milestones")
	}
	return ms, nil
}

// milestoneCount is one step per day for short crash courses, otherwise
// the configured count.
func (p *Planner) milestoneCount(tb *TimeBox) int {
	if tb != nil && tb.Unit == "days" && tb.Value <= intensiveDayLimit && tb.Value > 1 {
		return tb.Value
	}
	return p.cfg.MilestoneCount
}

func normalizeMilestone(m PlannedMilestone, tb *TimeBox) PlannedMilestone {
	if m.Duration < 1 {
		m.Duration = 1
	}
	m.DurationUnit = strings.ToLower(strings.TrimSpace(m.DurationUnit))
	if m.DurationUnit == "" {
		m.DurationUnit = defaultUnit(tb)
	}
	if m.EstimatedHours < 0 {
		m.EstimatedHours = 0
	}
	switch strings.ToUpper(m.Difficulty) {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		m.Difficulty = strings.ToUpper(m.Difficulty)
	default:
		m.Difficulty = DifficultyIntermediate
	}
	return m
}

func defaultUnit(tb *TimeBox) string {
	if tb != nil {
		return tb.Unit
	}
	return "weeks"
}

// FallbackPlan is the fixed three-step plan used when the LLM cannot
// produce one.
func FallbackPlan(goal string, tb *TimeBox) []PlannedMilestone {
	unit := defaultUnit(tb)
	return []PlannedMilestone{
		{
			Title:          "Fundamentals and Setup",
			Description:    fmt.Sprintf("Set up your tools and learn the core vocabulary and basics needed for: %s.", goal),
			Duration:       1,
			DurationUnit:   unit,
			EstimatedHours: 6,
			Difficulty:     DifficultyBeginner,
		},
		{
			Title:          "Core Concepts in Practice",
			Description:    "Work through the central concepts with small exercises until you can apply them without a reference.",
			Duration:       1,
			DurationUnit:   unit,
			EstimatedHours: 10,
			Difficulty:     DifficultyIntermediate,
		},
		{
			Title:          "Build a Portfolio Project",
			Description:    "Build and publish a small end-to-end project that uses everything from the previous steps.",
			Duration:       1,
			DurationUnit:   unit,
			EstimatedHours: 12,
			Difficulty:     DifficultyAdvanced,
		},
	}
}
