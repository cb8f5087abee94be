package roadmap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/careerpilot/internal/apperr"
	"github.com/abhisek/careerpilot/internal/events"
	"github.com/abhisek/careerpilot/internal/llm"
	"github.com/abhisek/careerpilot/internal/search"
	"github.com/abhisek/careerpilot/internal/store"
)

func planJSON(unit string, titles ...string) json.RawMessage {
	ms := make([]map[string]any, len(titles))
	for i, title := range titles {
		ms[i] = map[string]any{
			"title":          title,
			"description":    "Study " + title,
			"duration":       i + 1,
			"durationUnit":   unit,
			"estimatedHours": 4,
			"difficulty":     DifficultyBeginner,
		}
	}
	b, _ := json.Marshal(map[string]any{"milestones": ms})
	return b
}

func quizJSON(n int) json.RawMessage {
	qs := make([]map[string]any, n)
	for i := range qs {
		qs[i] = map[string]any{
			"question":     fmt.Sprintf("Question %d?", i+1),
			"options":      []string{"a", "b", "c", "d"},
			"correctIndex": i,
			"explanation":  "Because.",
		}
	}
	b, _ := json.Marshal(map[string]any{"questions": qs})
	return b
}

// llmBySchema answers plan and quiz requests independently of call order.
func llmBySchema(plan, quiz llm.MockResponse) *llm.MockProvider {
	return llm.NewMockHandler(func(req llm.Request) llm.MockResponse {
		if req.Schema == PlanSchema {
			return plan
		}
		return quiz
	})
}

var storeSeq atomic.Int64

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := store.OpenSQLite(fmt.Sprintf("file:roadmap_%s_%d?mode=memory&cache=shared", name, storeSeq.Add(1)))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPlanner_Plan(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: planJSON("days", "Day 1: Syntax", "Day 2: Concurrency")})
	p := NewPlanner(mock, DefaultConfig())

	tb := &TimeBox{Value: 2, Unit: "days", IsIntensive: true}
	ms, fallback := p.Plan(context.Background(), "Learn Go", tb)
	assert.False(t, fallback)
	require.Len(t, ms, 2)
	assert.Equal(t, "Day 1: Syntax", ms[0].Title)
	assert.Equal(t, 2, ms[1].Duration)

	req := mock.Calls[0]
	assert.Equal(t, 0.1, req.TemperatureOr(-1))
	assert.Contains(t, req.Messages[0].Content, "Time limit: 2 days (intensive")
	assert.Contains(t, req.Messages[0].Content, "Number of milestones: 2")
}

func TestPlanner_NormalizesMilestones(t *testing.T) {
	content := json.RawMessage(`{"milestones":[
		{"title":"  ","description":"x","duration":1,"durationUnit":"weeks","estimatedHours":1,"difficulty":"BEGINNER"},
		{"title":"Basics","description":"x","duration":0,"durationUnit":"weeks","estimatedHours":-3,"difficulty":"ADVANCED"}
	]}`)
	p := NewPlanner(llm.NewMockProvider(llm.MockResponse{Content: content}), DefaultConfig())

	ms, fallback := p.Plan(context.Background(), "Learn Go", nil)
	assert.False(t, fallback)
	require.Len(t, ms, 1)
	assert.Equal(t, 1, ms[0].Duration)
	assert.Equal(t, 0, ms[0].EstimatedHours)
	assert.Equal(t, DifficultyAdvanced, ms[0].Difficulty)
}

func TestPlanner_Fallback(t *testing.T) {
	tests := []struct {
		name string
		resp llm.MockResponse
	}{
		{"provider error", llm.MockResponse{Err: &llm.ErrProviderUnavailable{}}},
		{"malformed", llm.MockResponse{Content: json.RawMessage(`{"milestones": [`)}},
		{"schema violation", llm.MockResponse{Content: json.RawMessage(`{"milestones":[{"title":"x"}]}`)}},
		{"empty plan", llm.MockResponse{Content: json.RawMessage(`{"milestones":[{"title":"","description":"","duration":1,"durationUnit":"weeks","estimatedHours":1,"difficulty":"BEGINNER"}]}`)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPlanner(llm.NewMockProvider(tt.resp), DefaultConfig())
			ms, fallback := p.Plan(context.Background(), "Learn Go", nil)
			assert.True(t, fallback)
			assert.Equal(t, FallbackPlan("Learn Go", nil), ms)
			assert.Len(t, ms, 3)
		})
	}
}

func TestQuizGenerator(t *testing.T) {
	g := NewQuizGenerator(llm.NewMockProvider(llm.MockResponse{Content: quizJSON(2)}), DefaultConfig())
	qs := g.Generate(context.Background(), "Learn Go", PlannedMilestone{Title: "Syntax"})
	require.Len(t, qs, 2)
	assert.Equal(t, 1, qs[1].CorrectIndex)
	assert.Len(t, qs[0].Options, 4)
}

func TestQuizGenerator_Fallback(t *testing.T) {
	tests := []struct {
		name string
		resp llm.MockResponse
	}{
		{"provider error", llm.MockResponse{Err: &llm.ErrRateLimit{}}},
		{"one question", llm.MockResponse{Content: quizJSON(1)}},
		{"three questions", llm.MockResponse{Content: quizJSON(3)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewQuizGenerator(llm.NewMockProvider(tt.resp), DefaultConfig())
			qs := g.Generate(context.Background(), "Learn Go", PlannedMilestone{Title: "Syntax"})
			require.Len(t, qs, 1)
			assert.Equal(t, FallbackQuiz("Syntax"), qs[0])
		})
	}
}

func TestPipeline_Generate(t *testing.T) {
	st := openTestStore(t)
	provider := llmBySchema(
		llm.MockResponse{Content: planJSON("days", "Day 1: Syntax", "Day 2: Concurrency", "Day 3: Testing")},
		llm.MockResponse{Content: quizJSON(2)},
	)
	searcher := search.NewMockSearcher().
		On("best tutorial or github repo for learning Syntax Learn Go",
			search.Result{Title: "Tour", URL: "https://go.dev/tour", Score: 0.9},
			search.Result{Title: "Video", URL: "https://youtube.com/watch?v=1", Score: 0.8}).
		On("Syntax official documentation",
			search.Result{Title: "Tour again", URL: "https://go.dev/tour", Score: 0.7},
			search.Result{Title: "Spec", URL: "https://go.dev/ref/spec", Score: 0.6}).
		On("best tutorial or github repo for learning Concurrency Learn Go",
			search.Result{Title: "Video again", URL: "https://youtube.com/watch?v=1", Score: 0.9},
			search.Result{Title: "Repo", URL: "https://github.com/x/concurrency", Score: 0.5})
	rec := &events.Recorder{}

	p := New(provider, searcher, st.RoadmapRepo(), rec, DefaultConfig())
	res, err := p.Generate(context.Background(), GenerateInput{Goal: "Learn Go in 3 days", UserID: "user-1"})
	require.NoError(t, err)
	assert.False(t, res.FallbackPlan)
	assert.Equal(t, &TimeBox{Value: 3, Unit: "days", IsIntensive: true}, res.TimeBox)

	// Intensive goals issue two queries per milestone.
	assert.Equal(t, 6, searcher.CallCount())

	rm, err := st.RoadmapRepo().GetRoadmap(context.Background(), res.RoadmapID)
	require.NoError(t, err)
	assert.Equal(t, "Learn Go", rm.Title)
	assert.Equal(t, "Learn Go in 3 days", rm.Goal)
	assert.True(t, rm.IsIntensive)
	assert.Equal(t, 3, rm.TimeBoxValue)
	require.Len(t, rm.Milestones, 3)

	wantOffsets := []int{1, 2, 4}
	for i, m := range rm.Milestones {
		assert.Equal(t, i+1, m.Position)
		assert.Equal(t, wantOffsets[i], m.StartOffset, "milestone %d start offset", i+1)
		assert.Len(t, m.Quizzes, 2)
	}

	urls := func(m store.Milestone) []string {
		var out []string
		for _, r := range m.Resources {
			out = append(out, r.URL)
		}
		return out
	}
	assert.Equal(t, []string{"https://go.dev/tour", "https://youtube.com/watch?v=1", "https://go.dev/ref/spec"}, urls(rm.Milestones[0]))
	assert.Equal(t, []string{"https://github.com/x/concurrency"}, urls(rm.Milestones[1]))
	assert.Equal(t, string(TypeGitHub), rm.Milestones[1].Resources[0].Type)

	// Nothing was found for the third milestone.
	require.Len(t, rm.Milestones[2].Resources, 1)
	assert.Equal(t, string(TypeDocs), rm.Milestones[2].Resources[0].Type)
	assert.Equal(t, "Official Testing Docs", rm.Milestones[2].Resources[0].Title)

	assert.Equal(t, []string{events.RoadmapGenerated}, rec.Keys())

	list, err := p.List(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestPipeline_DegradesWhenDelegatesFail(t *testing.T) {
	st := openTestStore(t)
	provider := llm.NewMockHandler(func(llm.Request) llm.MockResponse {
		return llm.MockResponse{Err: &llm.ErrProviderUnavailable{}}
	})
	searcher := search.NewMockSearcher()
	searcher.Err = &search.ErrUnavailable{StatusCode: 500}

	p := New(provider, searcher, st.RoadmapRepo(), nil, DefaultConfig())
	res, err := p.Generate(context.Background(), GenerateInput{Goal: "Become a data engineer", UserID: "user-2"})
	require.NoError(t, err)
	assert.True(t, res.FallbackPlan)
	assert.Nil(t, res.TimeBox)

	// Three queries per milestone for a goal without a time-box.
	assert.Equal(t, 9, searcher.CallCount())

	rm, err := st.RoadmapRepo().GetRoadmap(context.Background(), res.RoadmapID)
	require.NoError(t, err)
	require.Len(t, rm.Milestones, 3)
	for _, m := range rm.Milestones {
		require.Len(t, m.Resources, 1)
		assert.Equal(t, string(TypeDocs), m.Resources[0].Type)
		require.Len(t, m.Quizzes, 1)
		assert.Equal(t, FallbackQuiz(m.Title).Question, m.Quizzes[0].Question)
		assert.Equal(t, "weeks", m.DurationUnit)
	}
}

func TestPipeline_ConcurrencyPreservesOrder(t *testing.T) {
	titles := []string{"Module 1: A", "Module 2: B", "Module 3: C", "Module 4: D", "Module 5: E"}
	shared := search.Result{Title: "Shared", URL: "https://example.com/shared", Score: 1}

	build := func(t *testing.T, concurrency int) *store.Roadmap {
		st := openTestStore(t)
		provider := llmBySchema(
			llm.MockResponse{Content: planJSON("weeks", titles...)},
			llm.MockResponse{Content: quizJSON(2)},
		)
		searcher := search.NewMockSearcher()
		for _, title := range titles {
			topic := SearchTopic(title)
			searcher.On(topic+" official documentation",
				shared,
				search.Result{Title: topic, URL: "https://example.com/" + topic, Score: 0.5})
		}
		cfg := DefaultConfig()
		cfg.Concurrency = concurrency
		res, err := New(provider, searcher, st.RoadmapRepo(), nil, cfg).
			Generate(context.Background(), GenerateInput{Goal: "Learn everything", UserID: "u"})
		require.NoError(t, err)
		return res.Roadmap
	}

	seq := build(t, 1)
	par := build(t, 5)
	require.Len(t, par.Milestones, len(seq.Milestones))
	for i := range seq.Milestones {
		assert.Equal(t, seq.Milestones[i].Title, par.Milestones[i].Title)
		assert.Equal(t, seq.Milestones[i].StartOffset, par.Milestones[i].StartOffset)
		require.Len(t, par.Milestones[i].Resources, len(seq.Milestones[i].Resources))
		for j := range seq.Milestones[i].Resources {
			assert.Equal(t, seq.Milestones[i].Resources[j].URL, par.Milestones[i].Resources[j].URL)
		}
	}
	// The shared link goes to the first milestone only.
	assert.Equal(t, shared.URL, par.Milestones[0].Resources[0].URL)
	for _, m := range par.Milestones[1:] {
		for _, r := range m.Resources {
			assert.NotEqual(t, shared.URL, r.URL)
		}
	}
}

func TestPipeline_Validation(t *testing.T) {
	provider := llm.NewMockProvider()
	p := New(provider, search.NewMockSearcher(), nil, nil, DefaultConfig())

	_, err := p.Generate(context.Background(), GenerateInput{Goal: " ", UserID: "u"})
	assert.True(t, apperr.IsValidation(err), "empty goal: %v", err)
	_, err = p.Generate(context.Background(), GenerateInput{Goal: "Learn Go"})
	assert.True(t, apperr.IsValidation(err), "empty user: %v", err)
	assert.Zero(t, provider.CallCount())
}

type failingRepo struct {
	store.RoadmapRepo
	mu    sync.Mutex
	saved int
}

func (f *failingRepo) SaveRoadmap(context.Context, *store.Roadmap) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved++
	return apperr.Persistence("save roadmap", errors.New("disk full"))
}

func TestPipeline_PersistenceFailure(t *testing.T) {
	repo := &failingRepo{}
	rec := &events.Recorder{}
	p := New(llm.NewMockProvider(), search.NewMockSearcher(), repo, rec, DefaultConfig())

	_, err := p.Generate(context.Background(), GenerateInput{Goal: "Learn Go", UserID: "u"})
	assert.True(t, apperr.IsPersistence(err), "got %v", err)
	assert.Equal(t, 1, repo.saved)
	assert.Empty(t, rec.Keys(), "no event for a roadmap that was not stored")
}

func TestPipeline_GetNotFound(t *testing.T) {
	st := openTestStore(t)
	p := New(llm.NewMockProvider(), nil, st.RoadmapRepo(), nil, DefaultConfig())

	_, err := p.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
