package tui

import "github.com/charmbracelet/lipgloss"

// Color palette for TUI components.
var (
	ColorPrimary = lipgloss.Color("#818cf8") // Indigo
	ColorAccent  = lipgloss.Color("#2dd4bf") // Teal
	ColorMuted   = lipgloss.Color("#64748b") // Slate
	ColorText    = lipgloss.Color("#e2e8f0")
	ColorError   = lipgloss.Color("#f87171") // Red
	ColorSuccess = lipgloss.Color("#34d399") // Emerald
)

// Text styles.
var (
	// TitleStyle for the app header.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// TaglineStyle sits under the title.
	TaglineStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)

	// SectionStyle for result section headings.
	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent).
			MarginTop(1)

	BodyStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	// StatusStyle for the in-progress phase label.
	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary)

	// NoticeStyle for transient confirmations such as a clipboard copy.
	NoticeStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Italic(true)

	// FooterStyle for the completion line.
	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Italic(true).
			MarginTop(1)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)

	// SelectedStyle and UnselectedStyle mark wizard steps.
	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)
	UnselectedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	ModelStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary)

	CostStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

// Buttons.
var (
	ButtonStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0f172a")).
			Background(ColorPrimary).
			Padding(0, 2)

	ButtonDisabledStyle = lipgloss.NewStyle().
				Foreground(ColorMuted).
				Background(lipgloss.Color("#1e293b")).
				Padding(0, 2)
)

// Box styles for layout.
var (
	// InputBoxStyle frames the request textarea.
	InputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1)

	// ErrorBoxStyle frames the single error block.
	ErrorBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorError).
			Foreground(ColorError).
			Padding(0, 1)

	// ArtifactBoxStyle frames the artifact viewport.
	ArtifactBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary).
				Padding(0, 1)

	// ArtifactTitleStyle renders the artifact's file name above the pane.
	ArtifactTitleStyle = lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Bold(true)
)
