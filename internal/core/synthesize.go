package core

import (
	"context"
	"log/slog"

	"github.com/invopop/jsonschema"

	"github.com/dhabedank/nexus/internal/logging"
)

// Generator is the narrow capability a provider must offer: one
// schema-constrained generation returning the raw response text.
// This matches llm.Adapter but is defined here to avoid import cycles.
type Generator interface {
	// Name returns the adapter identifier for logging.
	Name() string

	// Generate sends one request and returns the raw response body.
	Generate(ctx context.Context, systemInstruction, userMessage string, schema *jsonschema.Schema) (string, error)
}

// Synthesizer turns a raw request into a SynthesisResult with exactly one
// provider call.
type Synthesizer struct {
	generator Generator
	schema    *jsonschema.Schema
	logger    *slog.Logger
}

// NewSynthesizer creates a Synthesizer. A nil logger uses slog.Default.
func NewSynthesizer(generator Generator, logger *slog.Logger) *Synthesizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Synthesizer{
		generator: generator,
		schema:    OutputSchema(),
		logger:    logger,
	}
}

// Synthesize issues one generation for rawIdea. The caller rejects blank
// input; it is not re-checked here. Every failure is logged with its cause
// and returned as ErrSynthesisFailed.
func (s *Synthesizer) Synthesize(ctx context.Context, rawIdea string) (*SynthesisResult, error) {
	log := s.logger.With("provider", s.generator.Name())
	if id := logging.Attempt(ctx); id != "" {
		log = log.With("attempt", id)
	}

	log.Debug("synthesis request", "input_chars", len(rawIdea))

	output, err := s.generator.Generate(ctx, SystemInstruction, BuildUserMessage(rawIdea), s.schema)
	if err != nil {
		log.Error("Synthesis failed", "stage", "generate", "error", err)
		return nil, ErrSynthesisFailed
	}

	result, err := ParseResult(output)
	if err != nil {
		log.Error("Synthesis failed", "stage", "parse", "error", err, "output_chars", len(output))
		return nil, ErrSynthesisFailed
	}

	log.Debug("synthesis complete", "artifact_chars", len(result.Artifact))
	return result, nil
}
