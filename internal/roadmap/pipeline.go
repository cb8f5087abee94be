package roadmap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/careerpilot/internal/apperr"
	"github.com/abhisek/careerpilot/internal/events"
	"github.com/abhisek/careerpilot/internal/llm"
	"github.com/abhisek/careerpilot/internal/search"
	"github.com/abhisek/careerpilot/internal/store"
)

// PlanSource produces milestones and reports whether it fell back.
type PlanSource interface {
	Plan(ctx context.Context, goal string, tb *TimeBox) ([]PlannedMilestone, bool)
}

// QuizSource produces quiz questions for a milestone. It never fails.
type QuizSource interface {
	Generate(ctx context.Context, goal string, m PlannedMilestone) []QuizQuestion
}

// Deps are the collaborators of a Pipeline.
type Deps struct {
	Planner  PlanSource
	Searcher search.Searcher
	Quizzes  QuizSource
	Repo     store.RoadmapRepo
	Events   events.Publisher
}

// Pipeline turns a goal into a stored roadmap: plan, enrich with search
// results, add quizzes, persist.
type Pipeline struct {
	deps Deps
	cfg  Config
}

// NewPipeline creates a Pipeline from explicit collaborators.
func NewPipeline(deps Deps, cfg Config) *Pipeline {
	if deps.Events == nil {
		deps.Events = events.NopPublisher{}
	}
	return &Pipeline{deps: deps, cfg: cfg.withDefaults()}
}

// New wires the LLM-backed planner and quiz generator.
func New(provider llm.Provider, searcher search.Searcher, repo store.RoadmapRepo, pub events.Publisher, cfg Config) *Pipeline {
	return NewPipeline(Deps{
		Planner:  NewPlanner(provider, cfg),
		Searcher: searcher,
		Quizzes:  NewQuizGenerator(provider, cfg),
		Repo:     repo,
		Events:   pub,
	}, cfg)
}

// Generate runs the pipeline. Plan, search and quiz failures degrade to
// fallback content; only validation and persistence errors are returned.
func (p *Pipeline) Generate(ctx context.Context, in GenerateInput) (*Result, error) {
	goal := strings.TrimSpace(in.Goal)
	if goal == "" {
		return nil, apperr.Invalid("goal", "goal is required")
	}
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return nil, apperr.Invalid("userId", "user id is required")
	}
	ctx = llm.WithUser(ctx, userID)

	tb, cleaned := ExtractTimeBox(goal)
	intensive := tb != nil && tb.IsIntensive

	planned, fallback := p.deps.Planner.Plan(ctx, cleaned, tb)

	resources, err := p.enrich(ctx, cleaned, planned, intensive)
	if err != nil {
		return nil, err
	}
	quizzes, err := p.quizzes(ctx, cleaned, planned)
	if err != nil {
		return nil, err
	}

	rm := assemble(userID, goal, cleaned, tb, planned, resources, quizzes)
	if err := p.deps.Repo.SaveRoadmap(ctx, rm); err != nil {
		return nil, err
	}

	logx.WithContext(ctx).Infow("roadmap generated",
		logx.Field("roadmapId", rm.ID),
		logx.Field("userId", userID),
		logx.Field("milestones", len(rm.Milestones)),
		logx.Field("fallbackPlan", fallback))
	events.Emit(ctx, p.deps.Events, events.RoadmapGenerated, map[string]any{
		"roadmapId":   rm.ID,
		"userId":      userID,
		"title":       rm.Title,
		"milestones":  len(rm.Milestones),
		"isIntensive": rm.IsIntensive,
	})

	return &Result{RoadmapID: rm.ID, Roadmap: rm, TimeBox: tb, FallbackPlan: fallback}, nil
}

// enrich fetches search results for every milestone, in parallel up to
// Concurrency, then dedups and diversifies them in milestone order so the
// outcome does not depend on completion order.
func (p *Pipeline) enrich(ctx context.Context, goal string, planned []PlannedMilestone, intensive bool) ([][]Candidate, error) {
	raw := make([][]search.Result, len(planned))
	topics := make([]string, len(planned))
	for i, m := range planned {
		topics[i] = SearchTopic(m.Title)
	}

	if p.deps.Searcher != nil {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(p.cfg.Concurrency)
		for i := range planned {
			g.Go(func() error {
				raw[i] = fetchResults(gctx, p.deps.Searcher, Queries(topics[i], goal, intensive), p.cfg.ResultsPerQuery)
				return nil
			})
		}
		_ = g.Wait()
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	global := make(seenSet)
	out := make([][]Candidate, len(planned))
	for i := range planned {
		out[i] = selectResources(raw[i], global, p.cfg.MaxResources)
		if len(out[i]) == 0 {
			out[i] = []Candidate{PlaceholderResource(topics[i])}
		}
	}
	return out, nil
}

func (p *Pipeline) quizzes(ctx context.Context, goal string, planned []PlannedMilestone) ([][]QuizQuestion, error) {
	out := make([][]QuizQuestion, len(planned))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Concurrency)
	for i, m := range planned {
		g.Go(func() error {
			out[i] = p.deps.Quizzes.Generate(gctx, goal, m)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// assemble builds the roadmap tree. Positions follow plan order and each
// milestone starts where the previous one ended, counting from 1.
func assemble(userID, goal, title string, tb *TimeBox, planned []PlannedMilestone, resources [][]Candidate, quizzes [][]QuizQuestion) *store.Roadmap {
	rm := &store.Roadmap{
		UserID: userID,
		Title:  title,
		Goal:   goal,
	}
	if tb != nil {
		rm.IsIntensive = tb.IsIntensive
		rm.TimeBoxValue = tb.Value
		rm.TimeBoxUnit = tb.Unit
	}

	offset := 1
	for i, m := range planned {
		ms := store.Milestone{
			Position:       i + 1,
			Title:          m.Title,
			Description:    m.Description,
			Duration:       m.Duration,
			DurationUnit:   m.DurationUnit,
			StartOffset:    offset,
			EstimatedHours: m.EstimatedHours,
			Difficulty:     m.Difficulty,
		}
		offset += m.Duration

		for j, c := range resources[i] {
			ms.Resources = append(ms.Resources, store.Resource{
				Position: j + 1,
				Title:    c.Title,
				URL:      c.URL,
				Type:     string(c.Type),
				Score:    c.Score,
			})
		}
		for j, q := range quizzes[i] {
			ms.Quizzes = append(ms.Quizzes, store.Quiz{
				Position:     j + 1,
				Question:     q.Question,
				Options:      q.Options,
				CorrectIndex: q.CorrectIndex,
				Explanation:  q.Explanation,
			})
		}
		rm.Milestones = append(rm.Milestones, ms)
	}
	return rm
}

// Get returns a stored roadmap with its milestone tree.
func (p *Pipeline) Get(ctx context.Context, id string) (*store.Roadmap, error) {
	if id == "" {
		return nil, apperr.Invalid("roadmapId", "roadmap id is required")
	}
	rm, err := p.deps.Repo.GetRoadmap(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("roadmap %s: %w", id, err)
	}
	return rm, err
}

// List returns the user's roadmaps, newest first.
func (p *Pipeline) List(ctx context.Context, userID string) ([]store.Roadmap, error) {
	if userID == "" {
		return nil, apperr.Invalid("userId", "user id is required")
	}
	return p.deps.Repo.ListRoadmaps(ctx, userID)
}
