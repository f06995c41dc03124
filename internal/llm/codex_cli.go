package llm

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/dhabedank/nexus/internal/core"
)

// CodexCLIAdapter uses the Codex CLI for generation.
type CodexCLIAdapter struct {
	binary string
	model  string
}

// NewCodexCLIAdapter creates a Codex CLI adapter.
func NewCodexCLIAdapter(config Config) *CodexCLIAdapter {
	model := config.Model
	if model == "" {
		model = DefaultModel(ProviderCodexCLI)
	}
	return &CodexCLIAdapter{binary: "codex", model: model}
}

func (a *CodexCLIAdapter) Name() string {
	return ProviderCodexCLI
}

func (a *CodexCLIAdapter) Model() string {
	return a.model
}

// IsAvailable checks if the codex CLI is installed.
func (a *CodexCLIAdapter) IsAvailable() bool {
	_, err := exec.LookPath(a.binary)
	return err == nil
}

func (a *CodexCLIAdapter) Generate(ctx context.Context, systemInstruction, userMessage string, schema *jsonschema.Schema) (string, error) {
	system, err := core.SchemaInstruction(systemInstruction, schema)
	if err != nil {
		return "", err
	}

	// Codex has no separate system prompt; both go in one message.
	combined := fmt.Sprintf("SYSTEM INSTRUCTIONS:\n%s\n\nUSER REQUEST:\n%s", system, userMessage)

	cmd := exec.CommandContext(ctx, a.binary,
		"--model", a.model,
		"--quiet",
	)
	cmd.Stdin = strings.NewReader(combined)

	return runCLI(cmd, "codex")
}
