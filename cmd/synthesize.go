package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/dhabedank/nexus/internal/core"
	"github.com/dhabedank/nexus/internal/output"
	"github.com/dhabedank/nexus/internal/session"
	"github.com/dhabedank/nexus/internal/tui"
)

var (
	copyArtifact bool
	outputFormat string
	outputPath   string
	dryRun       bool
)

// clipboardWriter is replaced in tests.
var clipboardWriter tui.Clipboard = tui.SystemClipboard{}

// SynthesizeCmd runs one synthesis without the interactive screen.
var SynthesizeCmd = &cobra.Command{
	Use:   "synthesize [request...]",
	Short: "Synthesize a prompt from arguments or stdin",
	Long: `Synthesize a prompt without the interactive screen.

The request is taken from the arguments, or from stdin when none are given:

  nexus synthesize "a code reviewer that focuses on concurrency bugs"
  cat idea.txt | nexus synthesize --output markdown

Progress goes to stderr; the result goes to stdout.`,
	RunE: runSynthesize,
}

func init() {
	SynthesizeCmd.Flags().BoolVarP(&copyArtifact, "copy", "c", false, "Copy the artifact to the clipboard")
	SynthesizeCmd.Flags().StringVarP(&outputFormat, "output", "o", "", "Export the result (markdown/json)")
	SynthesizeCmd.Flags().StringVar(&outputPath, "output-path", "", "Export path, '-' for stdout (default: WORLD_BEST_PROMPT.md or synthesis.json)")
	SynthesizeCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview the export without writing it")
}

func runSynthesize(cmd *cobra.Command, args []string) error {
	request, err := readRequest(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(request) == "" {
		return fmt.Errorf("%w: pass it as arguments or on stdin", core.ErrEmptyInput)
	}

	// Resolve the exporter before spending a provider call.
	var exporter output.Adapter
	if outputFormat != "" {
		if exporter, err = output.New(outputFormat); err != nil {
			return err
		}
	}

	env, err := prepare(cmd, true)
	if err != nil {
		return err
	}
	defer env.Close()

	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	start := time.Now()
	runner := session.NewRunner(env.synth, env.cfg.Timings)
	result, err := runner.Run(cmd.Context(), request, func(s core.Status) {
		if s.InProgress() {
			fmt.Fprintln(stderr, tui.RenderPhase(s, time.Since(start)))
		}
	})
	if err != nil {
		return err
	}

	toStdout := exporter != nil && outputPath == "-"
	if !toStdout {
		fmt.Fprintln(stdout, tui.RenderResult(result))
		fmt.Fprintln(stderr, tui.RenderEstimate(env.adapter.Model(), tui.EstimateResult(env.adapter.Model(), request, result)))
	}

	if copyArtifact {
		if err := clipboardWriter.WriteAll(result.Artifact); err != nil {
			return fmt.Errorf("failed to copy artifact: %w", err)
		}
		fmt.Fprintln(stderr, tui.NoticeStyle.Render(tui.CopiedNotice))
	}

	if exporter != nil {
		written, err := exporter.Write(output.Export{
			Request:   request,
			Provider:  env.adapter.Name(),
			Model:     env.adapter.Model(),
			CreatedAt: time.Now(),
			Result:    result,
		}, output.Config{Path: outputPath, DryRun: dryRun, Stdout: stdout})
		if err != nil {
			return fmt.Errorf("failed to export result: %w", err)
		}
		if written.Path != "-" && !dryRun {
			fmt.Fprintf(stderr, "%s Written to %s\n", tui.SuccessStyle.Render("✓"), written.Path)
		}
	}

	// Last, since the release check may block for seconds.
	greet(cmd)
	return nil
}

// readRequest joins args, or reads stdin when there are none and stdin is
// not a terminal.
func readRequest(in io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if f, ok := in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return "", nil
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}
