package llm

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/abhisek/careerpilot/internal/store"
)

func TestLoggingProvider_RecordsEvents(t *testing.T) {
	s, err := store.OpenSQLite("file:llm_logging?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"ok":true}`), Usage: Usage{InputTokens: 12, OutputTokens: 4}},
		MockResponse{Err: &ErrProviderUnavailable{}},
	)
	p := WithLogging(mock, s.EventRepo())

	ctx := WithPurpose(context.Background(), "interview-hint")
	if _, err := p.Generate(ctx, Request{System: "sys", Messages: []Message{{Role: RoleUser, Content: "hi"}}}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := p.Generate(ctx, Request{}); err == nil {
		t.Fatal("expected error from second call")
	}

	events, err := s.EventRepo().QueryLLMEvents(context.Background(), store.QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}

	failed, ok := events[0], events[1]
	if failed.Success || failed.ErrorMessage == "" {
		t.Errorf("failed event = %+v", failed)
	}
	if !ok.Success || ok.InputTokens != 12 || ok.Purpose != "interview-hint" || ok.Provider != "mock" {
		t.Errorf("ok event = %+v", ok)
	}
	if !strings.Contains(ok.RequestBody, "[system]\nsys") || ok.ResponseBody != `{"ok":true}` {
		t.Errorf("bodies = %q / %q", ok.RequestBody, ok.ResponseBody)
	}
}

func TestSerializeRequest_Sampling(t *testing.T) {
	got := serializeRequest(Prompt("sys", "resume text", testSchema(), 512, 0))
	if !strings.Contains(got, "[sampling] temperature=0 maxTokens=512") {
		t.Errorf("sampling line missing:\n%s", got)
	}
	if !strings.Contains(got, "[schema: "+testSchema().Name+"]") {
		t.Errorf("schema missing:\n%s", got)
	}

	got = serializeRequest(Request{MaxTokens: 64})
	if !strings.Contains(got, "temperature=default maxTokens=64") {
		t.Errorf("unset temperature:\n%s", got)
	}
}
