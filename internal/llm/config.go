// Package llm provides the text-generation client abstraction and its
// configuration. It currently wraps Google Gemini; the Provider indirection
// exists so another backend can be dropped in without touching callers.
package llm

// Provider represents a text-generation provider
type Provider string

// Provider constants define supported providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI is the OpenAI provider (future)
	ProviderOpenAI Provider = "openai"
)

// DefaultModel is the model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// DefaultTemperature keeps generation close to deterministic; annotation
// output feeds a fixed line-trimming step downstream, so variance is unwelcome.
const DefaultTemperature = 0.2

// Config holds the generation settings for one run
type Config struct {
	Provider    Provider
	Model       string
	Temperature float32
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return &Config{
		Provider:    ProviderGemini,
		Model:       DefaultModel,
		Temperature: DefaultTemperature,
	}
}

// WithModel returns a copy of the config with a different model name
func (c *Config) WithModel(model string) *Config {
	out := *c
	if model != "" {
		out.Model = model
	}
	return &out
}
