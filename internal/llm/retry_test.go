package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

var (
	evaluation    = json.RawMessage(`{"name":"evaluation","age":1}`)
	unavailable   = MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503 from backend")}}
	notJSON       = MockResponse{Content: json.RawMessage(`Sure! Here is the evaluation.`)}
	truncated     = MockResponse{Err: &ErrMaxTokensExceeded{Content: json.RawMessage(`{"name":"eval`)}}
	rateLimited   = MockResponse{Err: &ErrRateLimit{RetryAfter: time.Millisecond, Err: errors.New("429")}}
	validResponse = MockResponse{Content: evaluation}
)

func TestRetry_Attempts(t *testing.T) {
	tests := []struct {
		name      string
		responses []MockResponse
		wantCalls int
		wantErr   bool
	}{
		{"first attempt", []MockResponse{validResponse}, 1, false},
		{"backend outage then answer", []MockResponse{unavailable, validResponse}, 2, false},
		{"rate limited then answer", []MockResponse{rateLimited, validResponse}, 2, false},
		{"outage on every attempt", []MockResponse{unavailable, unavailable, unavailable, validResponse}, 3, true},
		{"truncated output is final", []MockResponse{truncated, validResponse}, 1, true},
		{"schema miss retried once", []MockResponse{notJSON, validResponse}, 2, false},
		{"schema miss twice gives up", []MockResponse{notJSON, notJSON, validResponse}, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.responses...)
			p := WithRetry(mock, fastRetry())

			resp, err := p.Generate(context.Background(), Prompt("You evaluate answers.", "answer", testSchema(), 256, 0.6))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && string(resp.Content) != string(evaluation) {
				t.Errorf("content = %s", resp.Content)
			}
			if mock.CallCount() != tt.wantCalls {
				t.Errorf("calls = %d, want %d", mock.CallCount(), tt.wantCalls)
			}
		})
	}
}

func TestRetry_ResendsSameRequest(t *testing.T) {
	mock := NewMockProvider(unavailable, validResponse)
	p := WithRetry(mock, fastRetry())

	if _, err := p.Generate(context.Background(), Prompt("sys", "answer", testSchema(), 256, 0)); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	reqs := mock.Requests()
	if len(reqs) != 2 {
		t.Fatalf("requests = %d", len(reqs))
	}
	for i, r := range reqs {
		if r.TemperatureOr(-1) != 0 || r.Schema == nil || r.MaxTokens != 256 {
			t.Errorf("attempt %d request = %+v", i+1, r)
		}
	}
}

func TestRetry_CancelledContext(t *testing.T) {
	mock := NewMockProvider(unavailable, unavailable, validResponse)
	p := WithRetry(mock, RetryConfig{MaxAttempts: 3, InitialWait: time.Hour, MaxWait: time.Hour, Multiplier: 1})

	ctx, cancel := context.WithCancel(WithPurpose(context.Background(), "roadmap-plan"))
	cancel()

	_, err := p.Generate(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if mock.CallCount() != 1 {
		t.Errorf("calls = %d, want 1", mock.CallCount())
	}
}

func TestRetry_ZeroAttemptsStillCallsOnce(t *testing.T) {
	mock := NewMockProvider(validResponse)
	p := WithRetry(mock, RetryConfig{})

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if mock.CallCount() != 1 || p.ModelID() != "mock" {
		t.Errorf("calls = %d, model = %q", mock.CallCount(), p.ModelID())
	}
}

func TestRetry_Backoff(t *testing.T) {
	r := &RetryProvider{config: RetryConfig{InitialWait: 100 * time.Millisecond, MaxWait: 300 * time.Millisecond, Multiplier: 2}}

	if got := r.backoff(0, &ErrRateLimit{RetryAfter: 7 * time.Second}); got != 7*time.Second {
		t.Errorf("Retry-After ignored: %v", got)
	}
	for attempt, base := range []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 300 * time.Millisecond, 300 * time.Millisecond} {
		got := r.backoff(attempt, unavailable.Err)
		lo, hi := time.Duration(float64(base)*0.8), time.Duration(float64(base)*1.2)
		if got < lo || got > hi {
			t.Errorf("attempt %d wait = %v, want within [%v, %v]", attempt, got, lo, hi)
		}
	}
}
