package llm

import (
	"context"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/dhabedank/nexus/internal/core"
)

// OpenAIAPIAdapter uses Chat Completions with a strict JSON schema response format.
type OpenAIAPIAdapter struct {
	client    openai.Client
	apiKey    string
	model     string
	maxTokens int
}

// NewOpenAIAPIAdapter creates an OpenAI API adapter.
func NewOpenAIAPIAdapter(config Config, apiKey string) *OpenAIAPIAdapter {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	model := config.Model
	if model == "" {
		model = DefaultModel(ProviderOpenAI)
	}

	return &OpenAIAPIAdapter{
		client:    openai.NewClient(opts...),
		apiKey:    apiKey,
		model:     model,
		maxTokens: maxTokensOrDefault(config.MaxTokens),
	}
}

func (a *OpenAIAPIAdapter) Name() string {
	return ProviderOpenAI
}

func (a *OpenAIAPIAdapter) Model() string {
	return a.model
}

func (a *OpenAIAPIAdapter) IsAvailable() bool {
	return a.apiKey != ""
}

func (a *OpenAIAPIAdapter) Generate(ctx context.Context, systemInstruction, userMessage string, schema *jsonschema.Schema) (string, error) {
	schemaMap, err := core.SchemaMap(schema)
	if err != nil {
		return "", err
	}

	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(a.model),
		MaxCompletionTokens: openai.Int(int64(a.maxTokens)),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemInstruction),
			openai.UserMessage(userMessage),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "synthesis_result",
					Schema: schemaMap,
					Strict: openai.Bool(true),
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("OpenAI API returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
