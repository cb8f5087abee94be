package llm

import (
	"context"
	"encoding/json"
)

// Provider is a delegate backend. Services call Generate with a prompt and
// a schema for one purpose (an interview evaluation, a roadmap plan, a
// resume parse) and get back JSON that already passed schema validation.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the model requests are sent to.
	ModelID() string
}

// Backend is implemented by providers that report a backend name for
// request events ("anthropic", "groq", ...).
type Backend interface {
	Name() string
}

// Request is one delegate call.
type Request struct {
	System   string
	Messages []Message

	// Schema, when set, makes the provider return JSON conforming to it.
	// Without a schema Content carries the raw text.
	Schema *Schema

	MaxTokens int

	// Temperature is sent as given, zero included. Nil leaves the
	// backend default.
	Temperature *float64
}

// Temp returns v as a Request temperature.
func Temp(v float64) *float64 { return &v }

// Prompt builds the single-turn request every service sends: a system
// prompt, one user message, a schema and sampling settings.
func Prompt(system, user string, schema *Schema, maxTokens int, temperature float64) Request {
	return Request{
		System:      system,
		Messages:    []Message{{Role: RoleUser, Content: user}},
		Schema:      schema,
		MaxTokens:   maxTokens,
		Temperature: Temp(temperature),
	}
}

// TemperatureOr returns the request temperature, or def when unset.
func (r Request) TemperatureOr(def float64) float64 {
	if r.Temperature == nil {
		return def
	}
	return *r.Temperature
}

// Message is one conversation entry.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema names the JSON shape a purpose expects.
type Schema struct {
	// Name is kebab-case, e.g. "interview-evaluation". It is the OpenAI
	// schema name and the validator cache key.
	Name        string
	Description string
	Definition  map[string]any
}

// Normalized stop reasons.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// Response is the validated delegate output.
type Response struct {
	// Content is the validated JSON, fences stripped, when the request had
	// a schema, and the raw text otherwise.
	Content    json.RawMessage
	Usage      Usage
	Model      string // the model that served the request
	StopReason string // StopEnd or StopMaxTokens
}

// Usage is the token count of one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
