package version

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dhabedank/nexus/internal/tui"
)

// IsFirstRun reports whether neither a config file in home nor the
// initialized marker in stateDir exists.
func IsFirstRun(home, stateDir string) bool {
	if home == "" || stateDir == "" {
		return false
	}
	if _, err := os.Stat(filepath.Join(home, ".nexus.yaml")); err == nil {
		return false
	}
	if _, err := os.Stat(filepath.Join(stateDir, ".initialized")); err == nil {
		return false
	}
	return true
}

// MarkInitialized creates the first-run marker.
func MarkInitialized(stateDir string) {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return
	}
	_ = os.WriteFile(filepath.Join(stateDir, ".initialized"), nil, 0o644)
}

// PrintFirstRunNotice welcomes a new user and marks stateDir initialized.
func PrintFirstRunNotice(w io.Writer, stateDir string) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s Welcome to nexus!\n", tui.TitleStyle.Render("*"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Quick start:")
	fmt.Fprintf(w, "    1. Set %s (or ANTHROPIC_API_KEY / OPENAI_API_KEY), or add it to .env\n", tui.ModelStyle.Render("GEMINI_API_KEY"))
	fmt.Fprintf(w, "    2. Run %s to pick a provider and model\n", tui.ModelStyle.Render("nexus setup"))
	fmt.Fprintf(w, "    3. Run %s and describe the prompt you need\n", tui.ModelStyle.Render("nexus"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s\n", tui.HelpStyle.Render("Run 'nexus --help' for all options"))
	fmt.Fprintln(w)

	MarkInitialized(stateDir)
}
