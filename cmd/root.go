package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dhabedank/nexus/internal/config"
	"github.com/dhabedank/nexus/internal/core"
	"github.com/dhabedank/nexus/internal/llm"
	"github.com/dhabedank/nexus/internal/logging"
	"github.com/dhabedank/nexus/internal/tui"
	"github.com/dhabedank/nexus/internal/version"
)

var (
	configFile  string
	llmProvider string
	llmModel    string
	logFile     string
	verbose     bool
	noUpdate    bool
)

// RootCmd runs the interactive synthesis screen.
var RootCmd = &cobra.Command{
	Use:   "nexus",
	Short: "Turn a rough idea into a production-grade prompt",
	Long: `Nexus takes a rough description of what you want an AI to do and
synthesizes a structured, ready-to-use prompt.

Run without arguments for the interactive screen, or use 'nexus synthesize'
for scripts and pipes.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runInteractive,
}

func init() {
	flags := RootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Config file (default: ./.nexus.yaml, then ~/.nexus.yaml)")
	flags.StringVarP(&llmProvider, "llm", "l", llm.ProviderAuto, "LLM provider (auto/gemini-api/anthropic-api/openai-api/claude-cli/codex-cli)")
	flags.StringVarP(&llmModel, "model", "m", "", "Model to use (provider-specific)")
	flags.StringVar(&logFile, "log-file", "", "Log file (default: ~/.nexus/nexus.log)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	flags.BoolVar(&noUpdate, "no-update-check", false, "Skip the release check")

	RootCmd.AddCommand(SynthesizeCmd, SetupCmd)
}

// environment is everything a command needs to run a synthesis.
type environment struct {
	cfg     config.Config
	adapter llm.Adapter
	synth   *core.Synthesizer
	logger  *slog.Logger
	closer  io.Closer
}

func (e *environment) Close() error {
	return e.closer.Close()
}

// loadSettings reads .env and the config file, then applies explicit flags.
func loadSettings(cmd *cobra.Command) (config.Config, error) {
	if err := config.LoadEnv(); err != nil {
		return config.Config{}, err
	}

	cfg, err := config.Load(config.Find(configFile))
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}

	// Flags override config file values only when set explicitly.
	if cmd.Flags().Changed("llm") {
		cfg.Provider = llmProvider
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = llmModel
	}
	if cmd.Flags().Changed("log-file") {
		cfg.LogFile = logFile
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// prepare loads settings, sets up logging and builds the provider adapter.
// headless mirrors verbose logs to stderr.
func prepare(cmd *cobra.Command, headless bool) (*environment, error) {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}

	file := cfg.LogFile
	if file == "" {
		file = logging.DefaultFile()
	}
	logger, closer, err := logging.Setup(logging.Options{File: file, Verbose: verbose, Stderr: headless})
	if err != nil {
		return nil, err
	}

	adapter, err := llm.NewAdapter(cfg.LLM(), config.CredentialsFromEnv())
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("failed to create LLM adapter: %w", err)
	}
	logger.Info("nexus starting",
		"provider", adapter.Name(),
		"model", adapter.Model(),
		"config", cfg.Path,
		"headless", headless,
	)

	return &environment{
		cfg:     cfg,
		adapter: adapter,
		synth:   core.NewSynthesizer(adapter, logger),
		logger:  logger,
		closer:  closer,
	}, nil
}

// greet prints the first-run hint or, on later runs, an update notice.
func greet(cmd *cobra.Command) {
	out := cmd.ErrOrStderr()
	home, _ := os.UserHomeDir()
	state := version.StateDir()
	if version.IsFirstRun(home, state) {
		version.PrintFirstRunNotice(out, state)
		return
	}
	if noUpdate {
		return
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), 3*time.Second)
	defer cancel()
	version.PrintUpdateNotice(out, version.NewChecker().Check(ctx, cmd.Root().Version))
}

func runInteractive(cmd *cobra.Command, args []string) error {
	env, err := prepare(cmd, false)
	if err != nil {
		return err
	}
	defer env.Close()

	app := tui.NewApp(tui.Options{
		Synth:     env.synth,
		Timings:   env.cfg.Timings,
		Model:     env.adapter.Model(),
		Clipboard: tui.SystemClipboard{},
	})

	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("interface failed: %w", err)
	}

	// The alternate screen hides anything printed earlier.
	greet(cmd)
	return nil
}
