package tui

import (
	"context"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dhabedank/nexus/internal/core"
	"github.com/dhabedank/nexus/internal/logging"
	"github.com/dhabedank/nexus/internal/session"
)

// Clipboard receives the copied artifact.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard writes to the OS clipboard.
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// Options configure the interactive app.
type Options struct {
	Synth     session.Synthesizer
	Timings   session.Timings
	Model     string // shown with the cost estimate
	Clipboard Clipboard
}

// Messages fed back into Update. Each carries the attempt it belongs to so
// events from a superseded attempt are dropped by the machine.
type (
	phaseMsg struct {
		attempt string
		status  core.Status
	}
	floorMsg struct {
		attempt string
	}
	resultMsg struct {
		attempt string
		result  *core.SynthesisResult
		err     error
	}
)

type keyMap struct {
	Submit key.Binding
	Copy   key.Binding
	Scroll key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Copy, k.Scroll, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func newKeyMap() keyMap {
	k := keyMap{
		Submit: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "synthesize")),
		Copy:   key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy artifact")),
		Scroll: key.NewBinding(key.WithKeys("pgup", "pgdown"), key.WithHelp("pgup/pgdn", "scroll artifact")),
		Quit:   key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	}
	k.Copy.SetEnabled(false)
	k.Scroll.SetEnabled(false)
	return k
}

// App is the Bubble Tea model for the synthesis screen.
type App struct {
	machine   *session.Machine
	synth     session.Synthesizer
	timings   session.Timings
	model     string
	clipboard Clipboard

	input    textarea.Model
	spinner  spinner.Model
	artifact viewport.Model
	help     help.Model
	keys     keyMap

	request  string
	notice   string
	estimate *Estimate
	width    int
}

// NewApp creates the app in the Idle state with the input focused.
func NewApp(opts Options) App {
	ta := textarea.New()
	ta.Placeholder = "Describe the prompt you need..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(76)
	ta.SetHeight(5)
	ta.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	vp := viewport.New(72, 12)
	vp.KeyMap = viewport.KeyMap{
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
	}

	cb := opts.Clipboard
	if cb == nil {
		cb = SystemClipboard{}
	}

	return App{
		machine:   session.NewMachine(),
		synth:     opts.Synth,
		timings:   opts.Timings,
		model:     opts.Model,
		clipboard: cb,
		input:     ta,
		spinner:   s,
		artifact:  vp,
		help:      help.New(),
		keys:      newKeyMap(),
		width:     80,
	}
}

func (a App) Init() tea.Cmd {
	return textarea.Blink
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, a.keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, a.keys.Submit):
			return a.submit()
		case key.Matches(msg, a.keys.Copy):
			return a.copyArtifact(), nil
		case key.Matches(msg, a.keys.Scroll):
			var cmd tea.Cmd
			a.artifact, cmd = a.artifact.Update(msg)
			return a, cmd
		}
		if a.machine.Busy() {
			return a, nil
		}
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd

	case phaseMsg:
		a.machine.Advance(msg.attempt, msg.status)
		return a, nil

	case floorMsg:
		if a.machine.FloorElapsed(msg.attempt) {
			return a.settle()
		}
		return a, nil

	case resultMsg:
		if a.machine.Resolve(msg.attempt, msg.result, msg.err) {
			return a.settle()
		}
		return a, nil

	case spinner.TickMsg:
		if !a.machine.Busy() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	return a, nil
}

// submit starts an attempt. Blank input and submissions while busy are
// silent no-ops.
func (a App) submit() (tea.Model, tea.Cmd) {
	request := a.input.Value()
	attempt, err := a.machine.Submit(request)
	if err != nil {
		return a, nil
	}

	a.request = request
	a.notice = ""
	a.estimate = nil
	a.artifact.SetContent("")
	a.input.Blur()
	a.syncKeys()

	cmds := []tea.Cmd{a.spinner.Tick, a.synthesize(attempt, request)}
	for _, p := range a.timings.Phases() {
		cmds = append(cmds, phaseAfter(attempt, p))
	}
	cmds = append(cmds, tea.Tick(a.timings.Floor, func(time.Time) tea.Msg {
		return floorMsg{attempt: attempt}
	}))
	return a, tea.Batch(cmds...)
}

func phaseAfter(attempt string, p session.Phase) tea.Cmd {
	return tea.Tick(p.After, func(time.Time) tea.Msg {
		return phaseMsg{attempt: attempt, status: p.Status}
	})
}

func (a App) synthesize(attempt, request string) tea.Cmd {
	synth := a.synth
	return func() tea.Msg {
		ctx := logging.WithAttempt(context.Background(), attempt)
		result, err := synth.Synthesize(ctx, request)
		return resultMsg{attempt: attempt, result: result, err: err}
	}
}

// settle updates the view after the attempt reached Completed or Error.
func (a App) settle() (tea.Model, tea.Cmd) {
	if r := a.machine.Result(); r != nil {
		e := EstimateResult(a.model, a.request, r)
		a.estimate = &e
		a.artifact.SetContent(r.Artifact)
		a.artifact.GotoTop()
	}
	a.syncKeys()
	return a, a.input.Focus()
}

func (a App) copyArtifact() App {
	r := a.machine.Result()
	if r == nil {
		return a
	}
	if err := a.clipboard.WriteAll(r.Artifact); err != nil {
		a.notice = ErrorStyle.Render("Copy failed: " + err.Error())
		return a
	}
	a.notice = NoticeStyle.Render(CopiedNotice)
	return a
}

func (a *App) syncKeys() {
	hasResult := a.machine.Result() != nil
	a.keys.Copy.SetEnabled(hasResult)
	a.keys.Scroll.SetEnabled(hasResult)
	a.keys.Submit.SetEnabled(!a.machine.Busy())
}

func (a *App) resize(width, height int) {
	a.width = width
	inner := max(width-4, 20)
	a.input.SetWidth(inner)
	a.artifact.Width = max(inner-4, 16)
	a.artifact.Height = max(height-30, 6)
	a.help.Width = width
}

func (a App) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("NEXUS"))
	b.WriteString("  ")
	b.WriteString(TaglineStyle.Render("prompt synthesis engine"))
	b.WriteString("\n\n")

	b.WriteString(InputBoxStyle.Render(a.input.View()))
	b.WriteString("\n")
	b.WriteString(a.button())
	b.WriteString("\n")

	status := a.machine.Status()
	switch {
	case status.InProgress():
		b.WriteString("\n")
		b.WriteString(a.spinner.View() + " " + StatusStyle.Render(status.Label()))
		b.WriteString("\n")

	case status == core.StatusError:
		b.WriteString("\n")
		b.WriteString(RenderError(a.machine.ErrorMessage()))
		b.WriteString("\n")

	case status == core.StatusCompleted:
		b.WriteString(a.resultView())
	}

	b.WriteString("\n")
	b.WriteString(a.help.View(a.keys))
	return b.String()
}

func (a App) button() string {
	label := ButtonLabel(a.machine.Status())
	if a.machine.Busy() || strings.TrimSpace(a.input.Value()) == "" {
		return ButtonDisabledStyle.Render(label)
	}
	return ButtonStyle.Render(label)
}

func (a App) resultView() string {
	r := a.machine.Result()
	if r == nil {
		return ""
	}

	parts := []string{
		"",
		RenderSections(r),
		SectionStyle.Render(SectionArtifact),
		ArtifactTitleStyle.Render(ArtifactTitle),
		ArtifactBoxStyle.Render(a.artifact.View()),
	}
	if a.notice != "" {
		parts = append(parts, a.notice)
	}
	parts = append(parts, FooterStyle.Render(CompletionFooter))
	if a.estimate != nil {
		parts = append(parts, RenderEstimate(a.model, *a.estimate))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...) + "\n"
}

// Status reports the current synthesis status.
func (a App) Status() core.Status {
	return a.machine.Status()
}
