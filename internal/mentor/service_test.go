package mentor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/abhisek/careerpilot/internal/apperr"
	"github.com/abhisek/careerpilot/internal/llm"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"", ModeTeach},
		{"chat", ModeTeach},
		{"Teach", ModeTeach},
		{"quiz", ModeQuiz},
		{" EXPLAIN ", ModeExplain},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseMode(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseMode("lecture"); !apperr.IsValidation(err) {
		t.Errorf("unknown mode err = %v", err)
	}
}

func TestAsk_Teach(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage("  **Channels** connect goroutines.\n")})
	svc := New(mock, DefaultConfig())

	var history []Message
	for i := 1; i <= 8; i++ {
		role := SpeakerUser
		if i%2 == 0 {
			role = SpeakerMentor
		}
		history = append(history, Message{Role: role, Text: fmt.Sprintf("message %d", i)})
	}

	reply, err := svc.Ask(context.Background(), Request{
		UserID:  "u1",
		Topic:   "Go concurrency",
		Message: "When should I use a buffered channel?",
		History: history,
	})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if reply.Mode != ModeTeach || reply.Content != "**Channels** connect goroutines." || reply.Quiz != nil {
		t.Errorf("reply = %+v", reply)
	}

	req := mock.Requests()[0]
	if req.Schema != nil || req.TemperatureOr(-1) != 0.2 || req.MaxTokens != 2000 {
		t.Errorf("request = %+v", req)
	}
	if req.Messages[0].Content != "When should I use a buffered channel?" {
		t.Errorf("user message = %q", req.Messages[0].Content)
	}
	for _, want := range []string{"Go concurrency", "Student: message 3", "Mentor: message 8"} {
		if !strings.Contains(req.System, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
	if strings.Contains(req.System, "message 2\n") {
		t.Error("history beyond the window leaked into the prompt")
	}
}

func TestAsk_TeachRequiresMessage(t *testing.T) {
	svc := New(llm.NewMockProvider(), DefaultConfig())
	if _, err := svc.Ask(context.Background(), Request{Topic: "Go"}); !apperr.IsValidation(err) {
		t.Errorf("err = %v, want validation", err)
	}
	if _, err := svc.Ask(context.Background(), Request{Mode: "explain", Topic: "  "}); !apperr.IsValidation(err) {
		t.Errorf("blank topic err = %v, want validation", err)
	}
}

func TestAsk_Explain(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage("### The Core Concept\nA mutex guards state.")})
	reply, err := New(mock, DefaultConfig()).Ask(context.Background(), Request{Mode: "explain", Topic: "sync.Mutex"})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if reply.Mode != ModeExplain || !strings.HasPrefix(reply.Content, "### The Core Concept") {
		t.Errorf("reply = %+v", reply)
	}
	req := mock.Requests()[0]
	if !strings.Contains(req.System, "### Key Takeaway") || !strings.Contains(req.System, "sync.Mutex") {
		t.Errorf("system prompt = %q", req.System)
	}
}

func TestAsk_DelegateFailure(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{}},
		llm.MockResponse{Content: json.RawMessage("   ")},
	)
	svc := New(mock, DefaultConfig())
	for i := 0; i < 2; i++ {
		_, err := svc.Ask(context.Background(), Request{Topic: "Go", Message: "why?"})
		if !apperr.IsDelegate(err) {
			t.Errorf("call %d err = %v, want delegate", i+1, err)
		}
	}
}

func TestAsk_Quiz(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(
		`{"question":" What does close(ch) do? ","options":["a","b","c","d"],"correctIndex":2,"explanation":"Receivers see the zero value."}`)})
	reply, err := New(mock, DefaultConfig()).Ask(context.Background(), Request{Mode: "quiz", Topic: "Go channels"})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if reply.Fallback || reply.Quiz == nil || reply.Quiz.CorrectIndex != 2 || reply.Quiz.Question != "What does close(ch) do?" {
		t.Errorf("reply = %+v", reply)
	}
	if req := mock.Requests()[0]; req.Schema != QuizSchema || req.MaxTokens != 512 {
		t.Errorf("request = %+v", req)
	}
}

func TestAsk_QuizFallback(t *testing.T) {
	tests := []struct {
		name string
		resp llm.MockResponse
	}{
		{"three options", llm.MockResponse{Content: json.RawMessage(`{"question":"Q?","options":["a","b","c"],"correctIndex":0,"explanation":"x"}`)}},
		{"not json", llm.MockResponse{Content: json.RawMessage(`Here is your quiz!`)}},
		{"backend down", llm.MockResponse{Err: &llm.ErrProviderUnavailable{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := New(llm.NewMockProvider(tt.resp), DefaultConfig())
			reply, err := svc.Ask(context.Background(), Request{Mode: "quiz", Topic: "Rust ownership"})
			if err != nil {
				t.Fatalf("Ask: %v", err)
			}
			want := FallbackQuiz("Rust ownership")
			if !reply.Fallback || reply.Quiz == nil || reply.Quiz.Question != want.Question || len(reply.Quiz.Options) != 4 {
				t.Errorf("reply = %+v", reply)
			}
		})
	}
}

func TestCheckQuiz(t *testing.T) {
	ok := Quiz{Question: "Q?", Options: []string{"a", "b", "c", "d"}, CorrectIndex: 3}
	if err := checkQuiz(ok); err != nil {
		t.Errorf("valid quiz rejected: %v", err)
	}
	bad := ok
	bad.CorrectIndex = 4
	if err := checkQuiz(bad); err == nil {
		t.Error("out of range index accepted")
	}
	bad = ok
	bad.Options = append(bad.Options, "e")
	if err := checkQuiz(bad); err == nil {
		t.Error("five options accepted")
	}
}

func TestFormatHistory(t *testing.T) {
	if got := formatHistory(nil); got != "This is the start of the conversation." {
		t.Errorf("empty history = %q", got)
	}
	got := formatHistory([]Message{{Role: SpeakerUser, Text: "hi "}, {Role: SpeakerMentor, Text: "hello"}})
	if got != "Student: hi\nMentor: hello" {
		t.Errorf("history = %q", got)
	}
}
