// Package version checks GitHub for newer nexus releases and greets
// first-time users.
package version

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/mod/semver"

	"github.com/dhabedank/nexus/internal/tui"
)

const (
	// GitHubRepo is the repository for version checks.
	GitHubRepo = "dhabedank/nexus"

	// CheckInterval is how often to check for updates.
	CheckInterval = 24 * time.Hour
)

// Release is the subset of a GitHub release we read.
type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// CheckResult holds the result of a version check.
type CheckResult struct {
	CurrentVersion string
	LatestVersion  string
	ReleaseURL     string
}

// Checker looks up the latest release at most once per Interval.
type Checker struct {
	APIBase  string
	Client   *http.Client
	StateDir string
	Interval time.Duration
	Logger   *slog.Logger
}

// StateDir returns ~/.nexus, which holds markers and the log file.
func StateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".nexus")
}

// NewChecker returns a Checker against the GitHub API.
func NewChecker() *Checker {
	return &Checker{
		APIBase:  "https://api.github.com",
		Client:   &http.Client{Timeout: 5 * time.Second},
		StateDir: StateDir(),
		Interval: CheckInterval,
		Logger:   slog.Default(),
	}
}

// Check returns a result only when a newer release exists. Dev builds,
// recent checks and lookup failures all return nil; failures are logged.
func (c *Checker) Check(ctx context.Context, current string) *CheckResult {
	if current == "dev" || current == "" {
		return nil
	}
	if c.checkedRecently() {
		return nil
	}
	c.markChecked()

	latest, err := c.fetchLatest(ctx)
	if err != nil {
		c.Logger.Debug("update check failed", "error", err)
		return nil
	}
	if !isNewerVersion(latest.TagName, current) {
		return nil
	}
	return &CheckResult{
		CurrentVersion: current,
		LatestVersion:  latest.TagName,
		ReleaseURL:     latest.HTMLURL,
	}
}

// PrintUpdateNotice writes a notice for an available update.
func PrintUpdateNotice(w io.Writer, result *CheckResult) {
	if result == nil {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s A new version of nexus is available: %s (you have %s)\n",
		tui.NoticeStyle.Render("!"),
		tui.SuccessStyle.Render(result.LatestVersion),
		result.CurrentVersion,
	)
	fmt.Fprintf(w, "  Update: %s\n", tui.HelpStyle.Render("go install github.com/"+GitHubRepo+"@latest"))
	if result.ReleaseURL != "" {
		fmt.Fprintf(w, "  Notes:  %s\n", tui.HelpStyle.Render(result.ReleaseURL))
	}
	fmt.Fprintln(w)
}

func (c *Checker) fetchLatest(ctx context.Context) (*Release, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", strings.TrimSuffix(c.APIBase, "/"), GitHubRepo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub API returned %d", resp.StatusCode)
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("failed to decode release: %w", err)
	}
	return &release, nil
}

func (c *Checker) markerPath() string {
	if c.StateDir == "" {
		return ""
	}
	return filepath.Join(c.StateDir, ".last-update-check")
}

func (c *Checker) checkedRecently() bool {
	path := c.markerPath()
	if path == "" {
		return true
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return time.Since(info.ModTime()) < c.Interval
}

func (c *Checker) markChecked() {
	path := c.markerPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return
	}
	now := time.Now()
	if err := os.Chtimes(path, now, now); err != nil {
		_ = os.WriteFile(path, nil, 0o644)
	}
}

// isNewerVersion compares two release tags, with or without a "v" prefix.
// Tags that are not valid semver never count as newer.
func isNewerVersion(latest, current string) bool {
	l, c := canonical(latest), canonical(current)
	if !semver.IsValid(l) || !semver.IsValid(c) {
		return false
	}
	return semver.Compare(l, c) > 0
}

func canonical(v string) string {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
