package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/dhabedank/nexus/internal/core"
)

func TestButtonLabel(t *testing.T) {
	tests := []struct {
		status core.Status
		want   string
	}{
		{core.StatusIdle, "Initiate Synthesis"},
		{core.StatusAnalyzing, "Processing..."},
		{core.StatusArchitecting, "Processing..."},
		{core.StatusRefining, "Processing..."},
		{core.StatusCompleted, "Resynthesize"},
		{core.StatusError, "Initiate Synthesis"},
	}
	for _, tt := range tests {
		if got := ButtonLabel(tt.status); got != tt.want {
			t.Errorf("ButtonLabel(%s) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestRenderPhase(t *testing.T) {
	line := RenderPhase(core.StatusRefining, 1650*time.Millisecond)
	if !strings.Contains(line, "Calibrating Constraints...") {
		t.Errorf("phase line missing label: %q", line)
	}
	if !strings.Contains(line, "1.6s") {
		t.Errorf("phase line missing elapsed time: %q", line)
	}
}

func TestRenderResultOrder(t *testing.T) {
	out := RenderResult(&core.SynthesisResult{
		Acknowledgment: "ack text",
		Strategy:       "strategy text",
		Artifact:       "artifact text",
	})

	order := []string{
		SectionAcknowledgment, "ack text",
		SectionStrategy, "strategy text",
		SectionArtifact, ArtifactTitle, "artifact text",
		CompletionFooter,
	}
	pos := 0
	for _, s := range order {
		i := strings.Index(out[pos:], s)
		if i < 0 {
			t.Fatalf("%q missing or out of order in:\n%s", s, out)
		}
		pos += i + len(s)
	}
}

func TestEstimateResultCountsPromptAndOutput(t *testing.T) {
	r := &core.SynthesisResult{Acknowledgment: "a", Strategy: "b", Artifact: strings.Repeat("c", 398)}
	e := EstimateResult("gpt-4o", "idea", r)

	wantIn := EstimateTokens(len(core.SystemInstruction) + len(core.BuildUserMessage("idea")))
	if e.InputTokens != wantIn {
		t.Errorf("InputTokens = %d, want %d", e.InputTokens, wantIn)
	}
	if e.OutputTokens != 100 {
		t.Errorf("OutputTokens = %d, want 100", e.OutputTokens)
	}
}
