package interview

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/abhisek/careerpilot/internal/apperr"
	"github.com/abhisek/careerpilot/internal/llm"
)

func reportJSON(suggestion string) json.RawMessage {
	b, _ := json.Marshal(map[string]any{
		"overallScore":     88,
		"strengths":        []string{"Clear communication", "Solid fundamentals"},
		"weaknesses":       []string{"Edge cases", "Testing depth"},
		"topicBreakdown":   []map[string]any{{"topic": "Go", "score": 80}},
		"recommendation":   "Good candidate.",
		"nextSteps":        []string{"Practice", "Read", "Build"},
		"hiringSuggestion": suggestion,
	})
	return b
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		avg  int
		want HiringSuggestion
	}{
		{100, StrongHire}, {85, StrongHire},
		{84, Hire}, {70, Hire},
		{69, NoHire}, {50, NoHire},
		{49, StrongNoHire}, {0, StrongNoHire},
	}
	for _, tt := range tests {
		if got := TierFor(tt.avg); got != tt.want {
			t.Errorf("TierFor(%d) = %q, want %q", tt.avg, got, tt.want)
		}
	}
}

func TestAverageScore(t *testing.T) {
	if got := AverageScore(nil); got != 0 {
		t.Errorf("AverageScore(nil) = %d, want 0", got)
	}
	if got := AverageScore([]int{70, 71}); got != 71 {
		t.Errorf("AverageScore([70 71]) = %d, want 71", got)
	}
}

func TestSynthesizer_OverridesTier(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: reportJSON("Strong Hire")})
	s := NewSynthesizer(mock, DefaultConfig())

	rep, err := s.Summarize(context.Background(), []string{"USER: hi", "AI: next"}, []int{40, 60}, ReportConfig{
		Role: DefaultRole, Category: CategoryTechnical, Seniority: SeniorityMid,
	})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if rep.AverageScore != 50 {
		t.Errorf("average = %d, want 50", rep.AverageScore)
	}
	if rep.HiringSuggestion != NoHire {
		t.Errorf("hiring suggestion = %q, want %q", rep.HiringSuggestion, NoHire)
	}
	if rep.OverallScore != 88 || len(rep.TopicBreakdown) != 1 {
		t.Errorf("report = %+v", rep)
	}

	msg := mock.Calls[0].Messages[0].Content
	if !strings.Contains(msg, "Scores per question: 40, 60") || !strings.Contains(msg, "Average score: 50/100") {
		t.Errorf("prompt missing score series: %s", msg)
	}
}

func TestSynthesizer_RejectsInvalidTier(t *testing.T) {
	s := NewSynthesizer(llm.NewMockProvider(llm.MockResponse{Content: reportJSON("Maybe")}), DefaultConfig())
	_, err := s.Summarize(context.Background(), nil, []int{50}, ReportConfig{})
	if !apperr.IsDelegate(err) {
		t.Fatalf("expected delegate error for out-of-enum tier, got %v", err)
	}
}

func TestSynthesizer_DelegateFailure(t *testing.T) {
	s := NewSynthesizer(llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{}}), DefaultConfig())
	_, err := s.Summarize(context.Background(), nil, []int{50}, ReportConfig{})
	if !apperr.IsDelegate(err) {
		t.Fatalf("expected delegate error, got %v", err)
	}
}

func TestHintProvider(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"hint":" Think about a hash map. "}`)})
	h := NewHintProvider(mock, DefaultConfig())

	hint, err := h.Hint(context.Background(), "Two sum?", HintConfig{Role: DefaultRole, Category: CategoryTechnical, Seniority: SenioritySenior})
	if err != nil {
		t.Fatalf("Hint: %v", err)
	}
	if hint != "Think about a hash map." {
		t.Errorf("hint = %q", hint)
	}
	if !strings.Contains(mock.Calls[0].System, "SENIOR TECHNICAL interview") {
		t.Errorf("system prompt not calibrated: %s", mock.Calls[0].System)
	}
}

func TestHintProvider_FallbackOnFailure(t *testing.T) {
	h := NewHintProvider(llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}}), DefaultConfig())

	hint, err := h.Hint(context.Background(), "q", HintConfig{})
	if err != nil {
		t.Fatalf("hint failures must not propagate: %v", err)
	}
	if hint != FallbackHint {
		t.Errorf("hint = %q, want fallback", hint)
	}
}
