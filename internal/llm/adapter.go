package llm

import (
	"context"

	"github.com/invopop/jsonschema"
)

// Provider identifiers accepted by --llm and the config file.
const (
	ProviderAuto      = "auto"
	ProviderGemini    = "gemini-api"
	ProviderAnthropic = "anthropic-api"
	ProviderOpenAI    = "openai-api"
	ProviderClaudeCLI = "claude-cli"
	ProviderCodexCLI  = "codex-cli"
)

// Providers lists every concrete provider in detection order.
var Providers = []string{
	ProviderGemini,
	ProviderAnthropic,
	ProviderOpenAI,
	ProviderClaudeCLI,
	ProviderCodexCLI,
}

// Adapter is the interface all LLM adapters must implement.
type Adapter interface {
	// Name returns the adapter identifier for logging.
	Name() string

	// Model returns the model the adapter sends requests to.
	Model() string

	// IsAvailable checks if this adapter can be used (CLI installed, API key set, etc.)
	IsAvailable() bool

	// Generate sends one schema-constrained request and returns the raw
	// response text. Adapters never retry.
	Generate(ctx context.Context, systemInstruction, userMessage string, schema *jsonschema.Schema) (string, error)
}

// Config holds configuration for LLM adapters.
type Config struct {
	// Provider selects the adapter; "auto" picks the first available.
	Provider string

	// Model specifies which model to use (optional, adapter chooses default).
	Model string

	// MaxTokens limits response length.
	MaxTokens int

	// BaseURL overrides the provider endpoint (proxies, tests).
	BaseURL string
}

// Credentials carries API keys read once at startup. Empty keys are passed
// through; the provider rejects the request at call time.
type Credentials struct {
	Gemini    string
	Anthropic string
	OpenAI    string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:  ProviderAuto,
		MaxTokens: 8192,
	}
}

func maxTokensOrDefault(n int) int {
	if n <= 0 {
		return DefaultConfig().MaxTokens
	}
	return n
}
