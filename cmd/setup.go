package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dhabedank/nexus/internal/config"
	"github.com/dhabedank/nexus/internal/llm"
	"github.com/dhabedank/nexus/internal/tui"
)

var resetConfig bool

// SetupCmd represents the setup command.
var SetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive configuration wizard",
	Long: `Choose the provider and model nexus uses.

Providers with an API key in the environment (or .env) or an installed CLI
are marked as available. Configuration is saved to ~/.nexus.yaml`,
	RunE: runSetup,
}

func init() {
	SetupCmd.Flags().BoolVar(&resetConfig, "reset", false, "Reset configuration to defaults")
}

func runSetup(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	configPath := config.DefaultPath()

	if resetConfig {
		if err := os.Remove(configPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove config: %w", err)
		}
		fmt.Fprintln(out, tui.SuccessStyle.Render("✓")+" Configuration reset to defaults")
		fmt.Fprintf(out, "  Removed: %s\n", configPath)
		return nil
	}

	if err := config.LoadEnv(); err != nil {
		return err
	}
	available := llm.AvailableProviders(config.CredentialsFromEnv())

	m, err := tea.NewProgram(newSetupModel(available)).Run()
	if err != nil {
		return fmt.Errorf("wizard failed: %w", err)
	}
	final := m.(setupModel)
	if final.cancelled {
		fmt.Fprintln(out, "Setup cancelled")
		return nil
	}

	// Keep any other settings already in the file.
	existing := ""
	if _, err := os.Stat(configPath); err == nil {
		existing = configPath
	}
	cfg, err := config.Load(existing)
	if err != nil {
		fmt.Fprintf(out, "%s %v, starting from defaults\n", tui.ErrorStyle.Render("!"), err)
		cfg = config.Default()
	}
	cfg.Provider = final.provider
	cfg.Model = final.model

	if err := config.Save(configPath, cfg); err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, tui.SuccessStyle.Render("✓")+" Configuration saved to "+configPath)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Provider: %s\n", tui.ModelStyle.Render(cfg.Provider))
	fmt.Fprintf(out, "  Model:    %s\n", tui.ModelStyle.Render(cfg.Model))
	if !slices.Contains(available, cfg.Provider) {
		fmt.Fprintln(out)
		fmt.Fprintln(out, tui.ErrorStyle.Render("  !")+" "+missingHint(cfg.Provider))
	}
	return nil
}

// missingHint tells the user what the chosen provider still needs.
func missingHint(provider string) string {
	switch provider {
	case llm.ProviderGemini:
		return "Set GEMINI_API_KEY (or API_KEY) before synthesizing"
	case llm.ProviderAnthropic:
		return "Set ANTHROPIC_API_KEY before synthesizing"
	case llm.ProviderOpenAI:
		return "Set OPENAI_API_KEY before synthesizing"
	case llm.ProviderClaudeCLI:
		return "Install Claude Code so the claude CLI is on PATH"
	case llm.ProviderCodexCLI:
		return "Install Codex so the codex CLI is on PATH"
	default:
		return "Provider is not available"
	}
}

// Bubble Tea model for the setup wizard

const (
	stepProvider = iota
	stepModel
)

type setupModel struct {
	step      int
	providers list.Model
	models    list.Model
	provider  string
	model     string
	cancelled bool
	width     int
	height    int
}

type providerItem struct {
	id        string
	available bool
}

func (p providerItem) Title() string { return p.id }
func (p providerItem) Description() string {
	if p.available {
		return "available"
	}
	return "not configured"
}
func (p providerItem) FilterValue() string { return p.id }

type modelItem struct {
	info llm.ModelInfo
}

func (m modelItem) Title() string       { return m.info.Name }
func (m modelItem) Description() string { return m.info.ID + " · " + m.info.Description }
func (m modelItem) FilterValue() string { return m.info.Name }

func newList(items []list.Item, title string) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(tui.ColorPrimary).BorderForeground(tui.ColorPrimary)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(tui.ColorAccent).BorderForeground(tui.ColorPrimary)

	l := list.New(items, delegate, 60, 14)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.Styles.Title = tui.TitleStyle
	return l
}

// newSetupModel lists available providers first, in detection order.
func newSetupModel(available []string) setupModel {
	var items []list.Item
	for _, p := range available {
		items = append(items, providerItem{id: p, available: true})
	}
	for _, p := range llm.Providers {
		if !slices.Contains(available, p) {
			items = append(items, providerItem{id: p})
		}
	}
	return setupModel{
		step:      stepProvider,
		providers: newList(items, "Select Provider"),
	}
}

func (m setupModel) modelsFor(provider string) list.Model {
	models := llm.ModelsForProvider(provider)
	items := make([]list.Item, len(models))
	for i, info := range models {
		items[i] = modelItem{info: info}
	}
	l := newList(items, "Select Model ("+provider+")")
	if m.width > 0 {
		l.SetSize(m.width, m.height-4)
	}
	return l
}

func (m setupModel) Init() tea.Cmd {
	return nil
}

func (m setupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.providers.SetSize(msg.Width, msg.Height-4)
		if m.step == stepModel {
			m.models.SetSize(msg.Width, msg.Height-4)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.cancelled = true
			return m, tea.Quit

		case "enter":
			if m.step == stepProvider {
				if item, ok := m.providers.SelectedItem().(providerItem); ok {
					m.provider = item.id
					m.models = m.modelsFor(item.id)
					m.step = stepModel
				}
				return m, nil
			}
			if item, ok := m.models.SelectedItem().(modelItem); ok {
				m.model = item.info.ID
				return m, tea.Quit
			}
			return m, nil

		case "left", "h", "backspace":
			if m.step == stepModel {
				m.step = stepProvider
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.step == stepProvider {
		m.providers, cmd = m.providers.Update(msg)
	} else {
		m.models, cmd = m.models.Update(msg)
	}
	return m, cmd
}

func (m setupModel) View() string {
	if m.cancelled {
		return ""
	}

	steps := []string{"Provider", "Model"}
	progress := "\n  "
	for i, s := range steps {
		switch {
		case i == m.step:
			progress += tui.SelectedStyle.Render(fmt.Sprintf("[%s]", s))
		case i < m.step:
			progress += tui.SuccessStyle.Render(fmt.Sprintf("✓ %s", s))
		default:
			progress += tui.UnselectedStyle.Render(fmt.Sprintf("○ %s", s))
		}
		if i < len(steps)-1 {
			progress += " → "
		}
	}
	progress += "\n\n"

	help := tui.HelpStyle.Render("\n  ↑/↓: navigate • enter: select • ←: back • q: quit")

	if m.step == stepProvider {
		return progress + m.providers.View() + help
	}
	return progress + m.models.View() + help
}
