package core

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// SystemInstruction is the fixed persona and output contract sent with every synthesis.
const SystemInstruction = `You are the Nexus Prompt Engineer, an advanced system designed to synthesize raw human intent into high-fidelity, optimized AI prompts. Your existence is dedicated to clarity, precision, and structural harmony.

Voice: Calm, analytical, encouraging, and sophisticated.
Style: Minimalist and "tech-zen." 
Key Vocabulary: synthesize, calibrate, optimize, harmonic alignment.

Your task is to take a raw idea and return a JSON object with three fields:
1. acknowledgment: A soothing, status-check message (e.g., "Input received. Calibrating parameters...").
2. strategy: A brief explanation of why you are structuring the prompt the way you are.
3. artifact: The "World's Best Prompt" following these rules:
   - Define a specific Role/Persona.
   - Provide Context.
   - Set Specific Constraints (Word count, formatting, forbidden words).
   - Provide Step-by-Step Instructions.
   - Define Output Format clearly.

Return ONLY the JSON object.`

// UserMessageTemplate wraps the raw request verbatim.
const UserMessageTemplate = `Synthesize the ultimate prompt for the following request: "%s"`

// BuildUserMessage embeds the raw request into the user message.
// The request is not escaped or trimmed.
func BuildUserMessage(rawIdea string) string {
	return fmt.Sprintf(UserMessageTemplate, rawIdea)
}

// OutputSchema returns the JSON schema every provider response must satisfy:
// an object with required string properties acknowledgment, strategy and artifact.
func OutputSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{DoNotReference: true}
	s := r.Reflect(&SynthesisResult{})
	// Providers reject or ignore meta keys; keep the bare object schema.
	s.Version = ""
	s.ID = ""
	return s
}

// SchemaProperties lists property names in declaration order.
func SchemaProperties(s *jsonschema.Schema) []string {
	if s == nil || s.Properties == nil {
		return nil
	}
	names := make([]string, 0, s.Properties.Len())
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// SchemaMap converts a schema into the generic map form some SDKs expect.
func SchemaMap(s *jsonschema.Schema) (map[string]any, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode schema: %w", err)
	}
	return m, nil
}

// SchemaInstruction appends the schema to a system instruction for providers
// that cannot enforce a response format natively.
func SchemaInstruction(systemInstruction string, s *jsonschema.Schema) (string, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal schema: %w", err)
	}
	return fmt.Sprintf("%s\n\nThe JSON object MUST match this JSON schema:\n%s", systemInstruction, data), nil
}
