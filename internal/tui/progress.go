package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dhabedank/nexus/internal/core"
)

// Fixed copy shown by both the TUI and the headless command.
const (
	ArtifactTitle    = "WORLD_BEST_PROMPT.md"
	CompletionFooter = "Calibration Complete. Harmonic Alignment Achieved."
	CopiedNotice     = "Artifact copied to clipboard."

	SectionAcknowledgment = "Acknowledgment"
	SectionStrategy       = "Synthesis Strategy"
	SectionArtifact       = "The Artifact"
)

// ButtonLabel returns the submit button text for a status.
func ButtonLabel(s core.Status) string {
	switch {
	case s.InProgress():
		return "Processing..."
	case s == core.StatusCompleted:
		return "Resynthesize"
	default:
		return "Initiate Synthesis"
	}
}

// RenderPhase returns a progress line for an in-progress status
// (non-interactive mode).
func RenderPhase(s core.Status, elapsed time.Duration) string {
	return fmt.Sprintf("%s %s  %s",
		SpinnerStyle.Render("→"),
		StatusStyle.Render(s.Label()),
		HelpStyle.Render(elapsed.Truncate(100*time.Millisecond).String()),
	)
}

// RenderError returns the single error block.
func RenderError(msg string) string {
	return ErrorBoxStyle.Render(msg)
}

// RenderSections renders the acknowledgment and strategy sections.
func RenderSections(r *core.SynthesisResult) string {
	var b strings.Builder
	b.WriteString(SectionStyle.Render(SectionAcknowledgment))
	b.WriteString("\n")
	b.WriteString(BodyStyle.Render(r.Acknowledgment))
	b.WriteString("\n")
	b.WriteString(SectionStyle.Render(SectionStrategy))
	b.WriteString("\n")
	b.WriteString(BodyStyle.Render(r.Strategy))
	return b.String()
}

// RenderResult renders a full result with the artifact inline
// (non-interactive mode).
func RenderResult(r *core.SynthesisResult) string {
	var b strings.Builder
	b.WriteString(RenderSections(r))
	b.WriteString("\n")
	b.WriteString(SectionStyle.Render(SectionArtifact))
	b.WriteString("\n")
	b.WriteString(ArtifactTitleStyle.Render(ArtifactTitle))
	b.WriteString("\n")
	b.WriteString(ArtifactBoxStyle.Render(r.Artifact))
	b.WriteString("\n")
	b.WriteString(FooterStyle.Render(CompletionFooter))
	return b.String()
}

// RenderEstimate renders the token and cost line for a completed call.
func RenderEstimate(model string, e Estimate) string {
	return fmt.Sprintf("%s  %s", ModelStyle.Render(model), CostStyle.Render(e.String()))
}

// EstimateResult estimates a completed synthesis of rawIdea.
func EstimateResult(model, rawIdea string, r *core.SynthesisResult) Estimate {
	input := core.SystemInstruction + core.BuildUserMessage(rawIdea)
	output := r.Acknowledgment + r.Strategy + r.Artifact
	return EstimateCall(model, input, output)
}
