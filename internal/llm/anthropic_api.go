package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/invopop/jsonschema"

	"github.com/dhabedank/nexus/internal/core"
)

// AnthropicAPIAdapter uses the Anthropic API directly.
// The schema is stated in the system prompt; the API has no response format.
type AnthropicAPIAdapter struct {
	client    anthropic.Client
	apiKey    string
	model     string
	maxTokens int
}

// NewAnthropicAPIAdapter creates an Anthropic API adapter.
func NewAnthropicAPIAdapter(config Config, apiKey string) *AnthropicAPIAdapter {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	model := config.Model
	if model == "" {
		model = DefaultModel(ProviderAnthropic)
	}

	return &AnthropicAPIAdapter{
		client:    anthropic.NewClient(opts...),
		apiKey:    apiKey,
		model:     model,
		maxTokens: maxTokensOrDefault(config.MaxTokens),
	}
}

func (a *AnthropicAPIAdapter) Name() string {
	return ProviderAnthropic
}

func (a *AnthropicAPIAdapter) Model() string {
	return a.model
}

func (a *AnthropicAPIAdapter) IsAvailable() bool {
	return a.apiKey != ""
}

func (a *AnthropicAPIAdapter) Generate(ctx context.Context, systemInstruction, userMessage string, schema *jsonschema.Schema) (string, error) {
	system, err := core.SchemaInstruction(systemInstruction, schema)
	if err != nil {
		return "", err
	}

	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: int64(a.maxTokens),
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMessage)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	// Extract text from response
	var output string
	for _, block := range resp.Content {
		if block.Type == "text" {
			output += block.Text
		}
	}
	return output, nil
}
