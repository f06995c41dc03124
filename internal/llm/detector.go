package llm

import "fmt"

// ModelInfo describes an available model.
type ModelInfo struct {
	ID          string // Model identifier (e.g., "gemini-3-flash-preview")
	Name        string // Human-readable name (e.g., "Gemini 3 Flash")
	Description string // Brief description
	Provider    string // Provider identifier (e.g., "gemini-api")
}

// geminiModels lists Gemini models with structured output support.
var geminiModels = []ModelInfo{
	{ID: "gemini-3-flash-preview", Name: "Gemini 3 Flash (preview)", Description: "Fast structured output, default", Provider: ProviderGemini},
	{ID: "gemini-2.5-pro", Name: "Gemini 2.5 Pro", Description: "Highest quality reasoning", Provider: ProviderGemini},
	{ID: "gemini-2.5-flash", Name: "Gemini 2.5 Flash", Description: "Balanced speed and quality", Provider: ProviderGemini},
	{ID: "gemini-2.5-flash-lite", Name: "Gemini 2.5 Flash Lite", Description: "Lowest cost", Provider: ProviderGemini},
}

// claudeModels lists Claude models usable via the API or the CLI.
var claudeModels = []ModelInfo{
	{ID: "claude-sonnet-4-5-20250929", Name: "Claude Sonnet 4.5", Description: "Best balance of speed and capability", Provider: ProviderAnthropic},
	{ID: "claude-opus-4-5-20251101", Name: "Claude Opus 4.5", Description: "Premium model, maximum intelligence", Provider: ProviderAnthropic},
	{ID: "claude-haiku-4-5-20251001", Name: "Claude Haiku 4.5", Description: "Fastest, most cost-effective", Provider: ProviderAnthropic},
}

// openaiModels lists OpenAI models with JSON schema response format support.
var openaiModels = []ModelInfo{
	{ID: "gpt-4o", Name: "GPT-4o", Description: "Fast multimodal model", Provider: ProviderOpenAI},
	{ID: "gpt-4o-mini", Name: "GPT-4o Mini", Description: "Most cost-effective", Provider: ProviderOpenAI},
	{ID: "o3", Name: "O3", Description: "Most capable reasoning model", Provider: ProviderOpenAI},
}

var defaultModels = map[string]string{
	ProviderGemini:    "gemini-3-flash-preview",
	ProviderAnthropic: "claude-sonnet-4-5-20250929",
	ProviderOpenAI:    "gpt-4o",
	ProviderClaudeCLI: "claude-sonnet-4-5-20250929",
	ProviderCodexCLI:  "o3",
}

// DefaultModel returns the model used when none is configured.
func DefaultModel(provider string) string {
	return defaultModels[provider]
}

// ModelsForProvider returns the selectable models of one provider.
// CLI providers share the model list of their API counterpart.
func ModelsForProvider(provider string) []ModelInfo {
	var models []ModelInfo
	switch provider {
	case ProviderGemini:
		models = geminiModels
	case ProviderAnthropic, ProviderClaudeCLI:
		models = claudeModels
	case ProviderOpenAI, ProviderCodexCLI:
		models = openaiModels
	default:
		return nil
	}
	out := make([]ModelInfo, len(models))
	for i, m := range models {
		m.Provider = provider
		out[i] = m
	}
	return out
}

// NewAdapter builds the adapter for config.Provider. "auto" (or empty)
// defers to DetectBestAdapter.
func NewAdapter(config Config, creds Credentials) (Adapter, error) {
	switch config.Provider {
	case "", ProviderAuto:
		return DetectBestAdapter(config, creds), nil
	case ProviderGemini:
		return NewGeminiAPIAdapter(config, creds.Gemini), nil
	case ProviderAnthropic:
		return NewAnthropicAPIAdapter(config, creds.Anthropic), nil
	case ProviderOpenAI:
		return NewOpenAIAPIAdapter(config, creds.OpenAI), nil
	case ProviderClaudeCLI:
		adapter := NewClaudeCLIAdapter(config)
		if !adapter.IsAvailable() {
			return nil, fmt.Errorf("Claude CLI not available - install Claude Code")
		}
		return adapter, nil
	case ProviderCodexCLI:
		adapter := NewCodexCLIAdapter(config)
		if !adapter.IsAvailable() {
			return nil, fmt.Errorf("Codex CLI not available - install Codex")
		}
		return adapter, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", config.Provider)
	}
}

// DetectBestAdapter finds the best available LLM adapter.
// Priority: Gemini API > Anthropic API > OpenAI API > Claude CLI > Codex CLI.
// With nothing available it returns the Gemini adapter with an empty key,
// which fails at request time like any other provider error.
func DetectBestAdapter(config Config, creds Credentials) Adapter {
	for _, adapter := range candidates(config, creds) {
		if adapter.IsAvailable() {
			return adapter
		}
	}
	return NewGeminiAPIAdapter(config, creds.Gemini)
}

func candidates(config Config, creds Credentials) []Adapter {
	return []Adapter{
		NewGeminiAPIAdapter(config, creds.Gemini),
		NewAnthropicAPIAdapter(config, creds.Anthropic),
		NewOpenAIAPIAdapter(config, creds.OpenAI),
		NewClaudeCLIAdapter(config),
		NewCodexCLIAdapter(config),
	}
}

// AvailableProviders lists providers that have a key or an installed CLI,
// in detection order.
func AvailableProviders(creds Credentials) []string {
	available := []string{}
	for _, adapter := range candidates(DefaultConfig(), creds) {
		if adapter.IsAvailable() {
			available = append(available, adapter.Name())
		}
	}
	return available
}
