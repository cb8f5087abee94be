package llm

const defaultGroqBaseURL = "https://api.groq.com/openai/v1"

// NewGroqProvider creates a provider targeting Groq's OpenAI-compatible
// endpoint.
func NewGroqProvider(cfg GroqConfig) (*OpenAIProvider, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultGroqBaseURL
	}
	return newCompatibleProvider("groq", cfg.APIKey, cfg.Model, baseURL)
}
