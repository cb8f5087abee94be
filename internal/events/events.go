// Package events publishes domain events to a message broker.
package events

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/zeromicro/go-zero/core/logx"
)

// Routing keys for published domain events.
const (
	InterviewCompleted  = "interview.completed"
	RoadmapGenerated    = "roadmap.generated"
	AchievementUnlocked = "achievement.unlocked"
	ResumeAnalyzed      = "resume.analyzed"
)

// Publisher sends a JSON-encoded payload under a routing key.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }

// Emit publishes and logs failures instead of returning them. Business
// operations call this so a broker outage never fails a request.
func Emit(ctx context.Context, p Publisher, routingKey string, payload any) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, routingKey, payload); err != nil {
		logx.WithContext(ctx).Errorw("publish event failed",
			logx.Field("routingKey", routingKey), logx.Field("error", err.Error()))
	}
}

// Event is one message captured by a Recorder.
type Event struct {
	RoutingKey string
	Body       json.RawMessage
}

// Recorder keeps published events in memory for tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	Err    error
}

func (r *Recorder) Publish(_ context.Context, routingKey string, payload any) error {
	if r.Err != nil {
		return r.Err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{RoutingKey: routingKey, Body: body})
	return nil
}

// Events returns a snapshot of everything published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Keys returns the routing keys in publish order.
func (r *Recorder) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, len(r.events))
	for i, e := range r.events {
		keys[i] = e.RoutingKey
	}
	return keys
}
