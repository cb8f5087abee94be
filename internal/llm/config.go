package llm

import (
	"fmt"
	"os"
	"time"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "groq", "anthropic", "openai", "gemini", "openrouter", "mock"
	Provider string `json:",optional"`

	Anthropic  AnthropicConfig  `json:",optional"`
	OpenAI     OpenAIConfig     `json:",optional"`
	Gemini     GeminiConfig     `json:",optional"`
	OpenRouter OpenRouterConfig `json:",optional"`
	Groq       GroqConfig       `json:",optional"`
	Retry      RetryConfig      `json:",optional"`

	// Timeout is the maximum duration for a single LLM request
	// (including retries). Default: 60s.
	Timeout time.Duration `json:",optional"`
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string `json:",optional"`
	Model  string `json:",optional"` // Default: "claude-haiku"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string `json:",optional"`
	Model   string `json:",optional"` // Default: "gpt-4o-mini"
	BaseURL string `json:",optional"` // Override for compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string `json:",optional"`
	Model  string `json:",optional"` // Default: "gemini-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string `json:",optional"`
	Model   string `json:",optional"` // Default: "google/gemini-2.0-flash-exp"
	BaseURL string `json:",optional"` // Default: "https://openrouter.ai/api/v1"
}

// GroqConfig holds Groq-specific configuration.
type GroqConfig struct {
	APIKey  string `json:",optional"`
	Model   string `json:",optional"` // Default: "llama-3.3-70b-versatile"
	BaseURL string `json:",optional"` // Default: "https://api.groq.com/openai/v1"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int           `json:",optional"`
	InitialWait time.Duration `json:",optional"`
	MaxWait     time.Duration `json:",optional"`
	Multiplier  float64       `json:",optional"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "groq",
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.0-flash-exp",
		},
		Groq: GroqConfig{
			Model: "llama-3.3-70b-versatile",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 60 * time.Second,
	}
}

// WithDefaults fills every unset field of c from DefaultConfig.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.Provider == "" {
		c.Provider = d.Provider
	}
	if c.Anthropic.Model == "" {
		c.Anthropic.Model = d.Anthropic.Model
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = d.OpenAI.Model
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = d.Gemini.Model
	}
	if c.OpenRouter.Model == "" {
		c.OpenRouter.Model = d.OpenRouter.Model
	}
	if c.Groq.Model == "" {
		c.Groq.Model = d.Groq.Model
	}
	if c.Retry.MaxAttempts == 0 {
		c.Retry = d.Retry
	}
	if c.Timeout == 0 {
		c.Timeout = d.Timeout
	}
	return c
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() Config {
	return DefaultConfig().ApplyEnv()
}

// ApplyEnv overlays CAREERPILOT_* environment variables onto c.
func (c Config) ApplyEnv() Config {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	set(&c.Provider, "CAREERPILOT_LLM_PROVIDER")

	set(&c.Anthropic.APIKey, "CAREERPILOT_ANTHROPIC_API_KEY")
	set(&c.Anthropic.Model, "CAREERPILOT_ANTHROPIC_MODEL")

	set(&c.OpenAI.APIKey, "CAREERPILOT_OPENAI_API_KEY")
	set(&c.OpenAI.Model, "CAREERPILOT_OPENAI_MODEL")
	set(&c.OpenAI.BaseURL, "CAREERPILOT_OPENAI_BASE_URL")

	set(&c.Gemini.APIKey, "CAREERPILOT_GEMINI_API_KEY")
	set(&c.Gemini.Model, "CAREERPILOT_GEMINI_MODEL")

	set(&c.OpenRouter.APIKey, "CAREERPILOT_OPENROUTER_API_KEY")
	set(&c.OpenRouter.Model, "CAREERPILOT_OPENROUTER_MODEL")

	set(&c.Groq.APIKey, "CAREERPILOT_GROQ_API_KEY")
	set(&c.Groq.Model, "CAREERPILOT_GROQ_MODEL")

	if v := os.Getenv("CAREERPILOT_LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Timeout = d
		}
	}

	return c
}

// DiscoverConfig checks standard API key env vars in priority order
// (Groq → Gemini → OpenAI → Anthropic → OpenRouter) and returns a Config
// for the first provider whose key is found. Returns (Config{}, false) if
// none found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	if k := os.Getenv("GROQ_API_KEY"); k != "" {
		cfg.Provider = "groq"
		cfg.Groq.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = "gemini"
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = "openai"
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = "anthropic"
		cfg.Anthropic.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = "openrouter"
		cfg.OpenRouter.APIKey = k
		return cfg, true
	}

	return Config{}, false
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case "groq":
		if c.Groq.APIKey == "" {
			return fmt.Errorf("CAREERPILOT_GROQ_API_KEY is required for the groq provider")
		}
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("CAREERPILOT_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("CAREERPILOT_OPENAI_API_KEY is required for the openai provider")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("CAREERPILOT_GEMINI_API_KEY is required for the gemini provider")
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("CAREERPILOT_OPENROUTER_API_KEY is required for the openrouter provider")
		}
	case "mock":
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
