package core

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/invopop/jsonschema"

	"github.com/dhabedank/nexus/internal/logging"
)

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusIdle, "IDLE"},
		{StatusAnalyzing, "ANALYZING"},
		{StatusArchitecting, "ARCHITECTING"},
		{StatusRefining, "REFINING"},
		{StatusCompleted, "COMPLETED"},
		{StatusError, "ERROR"},
		{Status(42), "Status(42)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.status.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatusLabelAndPhase(t *testing.T) {
	tests := []struct {
		status     Status
		label      string
		inProgress bool
		terminal   bool
	}{
		{StatusIdle, "", false, false},
		{StatusAnalyzing, "Synthesizing Intent...", true, false},
		{StatusArchitecting, "Architecting Logic Flow...", true, false},
		{StatusRefining, "Calibrating Constraints...", true, false},
		{StatusCompleted, "", false, true},
		{StatusError, "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			if got := tt.status.Label(); got != tt.label {
				t.Errorf("Label() = %q, want %q", got, tt.label)
			}
			if got := tt.status.InProgress(); got != tt.inProgress {
				t.Errorf("InProgress() = %v, want %v", got, tt.inProgress)
			}
			if got := tt.status.Terminal(); got != tt.terminal {
				t.Errorf("Terminal() = %v, want %v", got, tt.terminal)
			}
		})
	}
}

func TestBuildUserMessage(t *testing.T) {
	got := BuildUserMessage("a prompt for clear MERN docs")
	want := `Synthesize the ultimate prompt for the following request: "a prompt for clear MERN docs"`
	if got != want {
		t.Errorf("BuildUserMessage() = %q, want %q", got, want)
	}

	// Raw input is embedded verbatim, quotes and whitespace included.
	raw := "  say \"hi\"\n"
	if got := BuildUserMessage(raw); !strings.Contains(got, raw) {
		t.Errorf("BuildUserMessage() did not embed input verbatim: %q", got)
	}
}

func TestSystemInstructionNamesFields(t *testing.T) {
	for _, field := range []string{"acknowledgment:", "strategy:", "artifact:", "Return ONLY the JSON object."} {
		if !strings.Contains(SystemInstruction, field) {
			t.Errorf("SystemInstruction missing %q", field)
		}
	}
}

func TestOutputSchema(t *testing.T) {
	s := OutputSchema()

	if s.Type != "object" {
		t.Errorf("Type = %q, want object", s.Type)
	}
	if s.Version != "" {
		t.Errorf("Version = %q, want empty", s.Version)
	}

	wantProps := []string{"acknowledgment", "strategy", "artifact"}
	props := SchemaProperties(s)
	if strings.Join(props, ",") != strings.Join(wantProps, ",") {
		t.Errorf("properties = %v, want %v", props, wantProps)
	}
	for _, name := range wantProps {
		prop, ok := s.Properties.Get(name)
		if !ok || prop.Type != "string" {
			t.Errorf("property %s missing or not a string", name)
		}
	}
	if strings.Join(s.Required, ",") != strings.Join(wantProps, ",") {
		t.Errorf("required = %v, want %v", s.Required, wantProps)
	}
}

func TestSchemaMap(t *testing.T) {
	m, err := SchemaMap(OutputSchema())
	if err != nil {
		t.Fatalf("SchemaMap() error = %v", err)
	}
	if m["type"] != "object" {
		t.Errorf("type = %v, want object", m["type"])
	}
	if _, ok := m["$schema"]; ok {
		t.Error("$schema should be stripped")
	}
	props, ok := m["properties"].(map[string]any)
	if !ok || len(props) != 3 {
		t.Errorf("properties = %v, want 3 entries", m["properties"])
	}
}

func TestSchemaInstruction(t *testing.T) {
	got, err := SchemaInstruction("base", OutputSchema())
	if err != nil {
		t.Fatalf("SchemaInstruction() error = %v", err)
	}
	if !strings.HasPrefix(got, "base\n\n") {
		t.Errorf("instruction should start with the base text: %q", got)
	}
	if !strings.Contains(got, `"artifact"`) {
		t.Errorf("instruction should embed the schema: %q", got)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", "{}"},
		{"whitespace", "  \n ", "{}"},
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"chatter", "Here you go: {\"a\":1} done", `{"a":1}`},
		{"no object", "not json", "not json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractJSON(tt.input); got != tt.want {
				t.Errorf("ExtractJSON(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseResult(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		body := `{"acknowledgment":"Input received.","strategy":"Role first.","artifact":"  You are...\n\n- step 1\n"}`
		got, err := ParseResult(body)
		if err != nil {
			t.Fatalf("ParseResult() error = %v", err)
		}
		want := SynthesisResult{
			Acknowledgment: "Input received.",
			Strategy:       "Role first.",
			Artifact:       "  You are...\n\n- step 1\n",
		}
		if *got != want {
			t.Errorf("ParseResult() = %+v, want %+v", *got, want)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		_, err := ParseResult("")
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("ParseResult(\"\") error = %v, want *ValidationError", err)
		}
	})

	t.Run("missing field", func(t *testing.T) {
		_, err := ParseResult(`{"acknowledgment":"ok","strategy":"ok"}`)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("error = %v, want *ValidationError", err)
		}
		if verr.Field != "artifact" {
			t.Errorf("Field = %q, want artifact", verr.Field)
		}
	})

	t.Run("empty field kept", func(t *testing.T) {
		got, err := ParseResult(`{"acknowledgment":"ok","strategy":"","artifact":"p"}`)
		if err != nil {
			t.Fatalf("ParseResult() error = %v", err)
		}
		want := SynthesisResult{Acknowledgment: "ok", Strategy: "", Artifact: "p"}
		if *got != want {
			t.Errorf("ParseResult() = %+v, want %+v", *got, want)
		}
	})

	t.Run("null field", func(t *testing.T) {
		_, err := ParseResult(`{"acknowledgment":"ok","strategy":null,"artifact":"p"}`)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("error = %v, want *ValidationError", err)
		}
		if verr.Field != "strategy" {
			t.Errorf("Field = %q, want strategy", verr.Field)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		if _, err := ParseResult(`{"acknowledgment":`); err == nil {
			t.Error("ParseResult() should fail on malformed JSON")
		}
	})

	t.Run("surrounding text", func(t *testing.T) {
		bodies := []string{
			`Sure, here you go: {"acknowledgment":"a","strategy":"s","artifact":"p"} hope it helps`,
			"```json\n{\"acknowledgment\":\"a\",\"strategy\":\"s\",\"artifact\":\"p\"}\n```",
		}
		for _, body := range bodies {
			if got, err := ParseResult(body); err == nil {
				t.Errorf("ParseResult(%q) = %+v, want error", body, got)
			}
		}
	})
}

type fakeGenerator struct {
	calls     int
	output    string
	err       error
	gotSystem string
	gotUser   string
	gotSchema *jsonschema.Schema
}

func (f *fakeGenerator) Name() string { return "fake" }

func (f *fakeGenerator) Generate(ctx context.Context, systemInstruction, userMessage string, schema *jsonschema.Schema) (string, error) {
	f.calls++
	f.gotSystem = systemInstruction
	f.gotUser = userMessage
	f.gotSchema = schema
	return f.output, f.err
}

func TestSynthesizeSuccess(t *testing.T) {
	gen := &fakeGenerator{output: `{"acknowledgment":"A","strategy":"S","artifact":"X\n  Y"}`}
	s := NewSynthesizer(gen, logging.Discard())

	got, err := s.Synthesize(context.Background(), "write docs")
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if gen.calls != 1 {
		t.Errorf("calls = %d, want 1", gen.calls)
	}
	if gen.gotSystem != SystemInstruction {
		t.Error("system instruction not passed verbatim")
	}
	if gen.gotUser != BuildUserMessage("write docs") {
		t.Errorf("user message = %q", gen.gotUser)
	}
	if gen.gotSchema == nil {
		t.Error("schema not passed")
	}
	if got.Acknowledgment != "A" || got.Strategy != "S" || got.Artifact != "X\n  Y" {
		t.Errorf("result = %+v", got)
	}
}

func TestSynthesizeKeepsEmptyFields(t *testing.T) {
	gen := &fakeGenerator{output: `{"acknowledgment":"ok","strategy":"","artifact":"prompt"}`}
	s := NewSynthesizer(gen, logging.Discard())

	got, err := s.Synthesize(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	want := SynthesisResult{Acknowledgment: "ok", Strategy: "", Artifact: "prompt"}
	if *got != want {
		t.Errorf("result = %+v, want %+v", *got, want)
	}
}

func TestSynthesizeFailuresAreOpaque(t *testing.T) {
	tests := []struct {
		name   string
		output string
		err    error
		cause  string
	}{
		{"provider error", "", errors.New("401 unauthorized"), "401 unauthorized"},
		{"malformed json", `{"acknowledgment":`, nil, "failed to parse JSON"},
		{"missing field", `{"acknowledgment":"A","strategy":"S"}`, nil, "artifact"},
		{"empty body", "", nil, "acknowledgment"},
		{"prose around object", `Here: {"acknowledgment":"A","strategy":"S","artifact":"X"} done`, nil, "failed to parse JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))
			gen := &fakeGenerator{output: tt.output, err: tt.err}
			s := NewSynthesizer(gen, logger)

			ctx := logging.WithAttempt(context.Background(), "attempt-7")
			result, err := s.Synthesize(ctx, "anything")
			if result != nil {
				t.Errorf("result = %+v, want nil", result)
			}
			if !errors.Is(err, ErrSynthesisFailed) {
				t.Fatalf("error = %v, want ErrSynthesisFailed", err)
			}
			if err.Error() != SynthesisFailedMessage {
				t.Errorf("message = %q, want fixed message", err.Error())
			}
			if gen.calls != 1 {
				t.Errorf("calls = %d, want 1", gen.calls)
			}

			logged := buf.String()
			if !strings.Contains(logged, tt.cause) {
				t.Errorf("cause %q not logged: %s", tt.cause, logged)
			}
			if !strings.Contains(logged, "attempt=attempt-7") {
				t.Errorf("attempt not logged: %s", logged)
			}
		})
	}
}
