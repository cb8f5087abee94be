package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// anthropicBackend serves one canned reply and keeps the decoded request.
type anthropicBackend struct {
	status int
	header http.Header
	reply  map[string]any
	got    map[string]any
}

func (b *anthropicBackend) provider(t *testing.T) *AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&b.got)
		for k, v := range b.header {
			w.Header()[k] = v
		}
		w.Header().Set("Content-Type", "application/json")
		if b.status != 0 {
			w.WriteHeader(b.status)
		}
		_ = json.NewEncoder(w).Encode(b.reply)
	}))
	t.Cleanup(server.Close)

	client := anthropic.NewClient(
		option.WithAPIKey("test-key"),
		option.WithBaseURL(server.URL),
		option.WithMaxRetries(0),
	)
	return &AnthropicProvider{client: &client, model: "claude-haiku-4-5-20251001"}
}

func anthropicMessage(stop string, texts ...string) map[string]any {
	blocks := make([]map[string]any, 0, len(texts))
	for _, t := range texts {
		blocks = append(blocks, map[string]any{"type": "text", "text": t})
	}
	return map[string]any{
		"id":          "msg_test",
		"type":        "message",
		"role":        "assistant",
		"content":     blocks,
		"model":       "claude-haiku-4-5-20251001",
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": 120, "output_tokens": 40},
	}
}

func TestAnthropicProvider_ResumeParseAtZeroTemperature(t *testing.T) {
	b := &anthropicBackend{reply: anthropicMessage("end_turn", `{"name":"Ada Lovelace","age":36}`)}
	p := b.provider(t)

	resp, err := p.Generate(context.Background(), Prompt("You parse resumes.", "resume text", testSchema(), 512, 0))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.StopReason != StopEnd || resp.Usage.TotalTokens != 160 {
		t.Errorf("response = %+v", resp)
	}

	temp, ok := b.got["temperature"]
	if !ok {
		t.Fatal("temperature missing from request body")
	}
	if temp.(float64) != 0 {
		t.Errorf("temperature = %v, want 0", temp)
	}
	if b.got["system"] == nil || b.got["output_config"] == nil {
		t.Errorf("system or output_config missing: %v", b.got)
	}
}

func TestAnthropicProvider_DefaultTemperatureOmitted(t *testing.T) {
	b := &anthropicBackend{reply: anthropicMessage("end_turn", "plain text")}
	p := b.provider(t)

	_, err := p.Generate(context.Background(), Request{
		Messages:  []Message{{Role: RoleUser, Content: "hi"}},
		MaxTokens: 64,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, ok := b.got["temperature"]; ok {
		t.Errorf("temperature sent without being set: %v", b.got["temperature"])
	}
}

func TestAnthropicProvider_JoinsTextBlocks(t *testing.T) {
	b := &anthropicBackend{reply: anthropicMessage("end_turn", `{"name":"Ada",`, `"age":36}`)}
	resp, err := b.provider(t).Generate(context.Background(), Prompt("", "q", testSchema(), 64, 0.6))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if string(resp.Content) != `{"name":"Ada","age":36}` {
		t.Errorf("content = %s", resp.Content)
	}
}

func TestAnthropicProvider_TruncatedSchemaOutput(t *testing.T) {
	b := &anthropicBackend{reply: anthropicMessage("max_tokens", `{"name":"Ad`)}
	_, err := b.provider(t).Generate(context.Background(), Prompt("", "q", testSchema(), 8, 0.6))
	var mt *ErrMaxTokensExceeded
	if !errors.As(err, &mt) {
		t.Fatalf("err = %T (%v), want ErrMaxTokensExceeded", err, err)
	}
}

func TestAnthropicProvider_RateLimitCarriesRetryAfter(t *testing.T) {
	b := &anthropicBackend{
		status: http.StatusTooManyRequests,
		header: http.Header{"Retry-After": []string{"7"}},
		reply: map[string]any{
			"type":  "error",
			"error": map[string]any{"type": "rate_limit_error", "message": "slow down"},
		},
	}
	_, err := b.provider(t).Generate(context.Background(), Prompt("", "q", nil, 64, 0))
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("err = %T (%v), want ErrRateLimit", err, err)
	}
	if rl.RetryAfter != 7*time.Second {
		t.Errorf("RetryAfter = %v, want 7s", rl.RetryAfter)
	}
}

func TestAnthropicProvider_ServerError(t *testing.T) {
	b := &anthropicBackend{
		status: http.StatusInternalServerError,
		reply: map[string]any{
			"type":  "error",
			"error": map[string]any{"type": "api_error", "message": "boom"},
		},
	}
	_, err := b.provider(t).Generate(context.Background(), Prompt("", "q", nil, 64, 0))
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("err = %T (%v), want ErrProviderUnavailable", err, err)
	}
}

func TestAnthropicParams_Roles(t *testing.T) {
	params := anthropicParams("m", Request{Messages: []Message{
		{Role: RoleUser, Content: "question"},
		{Role: RoleAssistant, Content: "answer"},
	}})
	if len(params.Messages) != 2 ||
		params.Messages[0].Role != anthropic.MessageParamRoleUser ||
		params.Messages[1].Role != anthropic.MessageParamRoleAssistant {
		t.Errorf("messages = %+v", params.Messages)
	}
	if params.Temperature.Valid() {
		t.Error("temperature should be unset")
	}
}

func TestAnthropicModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"claude-sonnet", "claude-sonnet-4-20250514"},
		{"claude-haiku", "claude-haiku-4-5-20251001"},
		{"claude-sonnet-4-20250514", "claude-sonnet-4-20250514"},
	}
	for _, tt := range tests {
		if got := resolveModel(tt.input, anthropicModels); got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
