package llm

import (
	"context"
	"fmt"
	"sync"

	"github.com/invopop/jsonschema"
	"google.golang.org/genai"

	"github.com/dhabedank/nexus/internal/core"
)

// GeminiAPIAdapter calls the Gemini API with a native response schema.
type GeminiAPIAdapter struct {
	apiKey    string
	model     string
	maxTokens int
	baseURL   string

	mu     sync.Mutex
	client *genai.Client
}

// NewGeminiAPIAdapter creates a Gemini adapter. The client itself is built
// on first use, so a missing key only fails when a request is made.
func NewGeminiAPIAdapter(config Config, apiKey string) *GeminiAPIAdapter {
	model := config.Model
	if model == "" {
		model = DefaultModel(ProviderGemini)
	}
	return &GeminiAPIAdapter{
		apiKey:    apiKey,
		model:     model,
		maxTokens: maxTokensOrDefault(config.MaxTokens),
		baseURL:   config.BaseURL,
	}
}

func (a *GeminiAPIAdapter) Name() string {
	return ProviderGemini
}

func (a *GeminiAPIAdapter) Model() string {
	return a.model
}

func (a *GeminiAPIAdapter) IsAvailable() bool {
	return a.apiKey != ""
}

func (a *GeminiAPIAdapter) getClient(ctx context.Context) (*genai.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.client != nil {
		return a.client, nil
	}
	cfg := &genai.ClientConfig{
		APIKey:  a.apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if a.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: a.baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	a.client = client
	return client, nil
}

func (a *GeminiAPIAdapter) Generate(ctx context.Context, systemInstruction, userMessage string, schema *jsonschema.Schema) (string, error) {
	client, err := a.getClient(ctx)
	if err != nil {
		return "", err
	}

	//nolint:gosec // maxTokens is bounded by config validation
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
		ResponseMIMEType: "application/json",
		ResponseSchema:   geminiSchema(schema),
		MaxOutputTokens:  int32(a.maxTokens),
	}

	result, err := client.Models.GenerateContent(ctx, a.model, genai.Text(userMessage), config)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}
	if result == nil {
		return "", fmt.Errorf("empty response from Gemini API")
	}
	return result.Text(), nil
}

// geminiSchema converts a JSON schema into Gemini's schema type,
// keeping property order.
func geminiSchema(s *jsonschema.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        geminiType(s.Type),
		Description: s.Description,
		Required:    s.Required,
	}
	if s.Properties != nil && s.Properties.Len() > 0 {
		out.Properties = make(map[string]*genai.Schema, s.Properties.Len())
		for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
			out.Properties[pair.Key] = geminiSchema(pair.Value)
		}
		out.PropertyOrdering = core.SchemaProperties(s)
	}
	if s.Items != nil {
		out.Items = geminiSchema(s.Items)
	}
	return out
}

func geminiType(t string) genai.Type {
	switch t {
	case "object":
		return genai.TypeObject
	case "string":
		return genai.TypeString
	case "array":
		return genai.TypeArray
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	default:
		return genai.TypeUnspecified
	}
}
