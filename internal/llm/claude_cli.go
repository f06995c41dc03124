package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/dhabedank/nexus/internal/core"
)

// ClaudeCLIAdapter uses the Claude Code CLI for generation.
// Useful when the user already has it authenticated and no API key is set.
type ClaudeCLIAdapter struct {
	binary string
	model  string
}

// NewClaudeCLIAdapter creates a Claude CLI adapter.
func NewClaudeCLIAdapter(config Config) *ClaudeCLIAdapter {
	model := config.Model
	if model == "" {
		model = DefaultModel(ProviderClaudeCLI)
	}
	return &ClaudeCLIAdapter{binary: "claude", model: model}
}

func (a *ClaudeCLIAdapter) Name() string {
	return ProviderClaudeCLI
}

func (a *ClaudeCLIAdapter) Model() string {
	return a.model
}

// IsAvailable checks if the claude CLI is installed.
func (a *ClaudeCLIAdapter) IsAvailable() bool {
	_, err := exec.LookPath(a.binary)
	return err == nil
}

func (a *ClaudeCLIAdapter) Generate(ctx context.Context, systemInstruction, userMessage string, schema *jsonschema.Schema) (string, error) {
	system, err := core.SchemaInstruction(systemInstruction, schema)
	if err != nil {
		return "", err
	}

	// The system prompt can be long; the CLI reads it from a file.
	systemFile, err := os.CreateTemp("", "nexus-system-*.txt")
	if err != nil {
		return "", fmt.Errorf("failed to create system prompt file: %w", err)
	}
	defer os.Remove(systemFile.Name())

	if _, err := systemFile.WriteString(system); err != nil {
		systemFile.Close()
		return "", fmt.Errorf("failed to write system prompt: %w", err)
	}
	systemFile.Close()

	cmd := exec.CommandContext(ctx, a.binary,
		"--model", a.model,
		"--system-prompt-file", systemFile.Name(),
		"--print",
		"--output-format", "text",
	)
	cmd.Stdin = strings.NewReader(userMessage)

	return runCLI(cmd, "claude")
}

// runCLI runs cmd and returns the JSON object from its stdout, folding
// stderr into the error. CLIs cannot enforce a response format, so fences
// and chatter around the object are dropped here.
func runCLI(cmd *exec.Cmd, name string) (string, error) {
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("%s CLI failed: %s", name, strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("%s CLI failed: %w", name, err)
	}
	return core.ExtractJSON(string(output)), nil
}
