package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dhabedank/nexus/internal/core"
)

// Supported export formats.
const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// Export is one completed synthesis and the context it was produced in.
type Export struct {
	Request   string
	Provider  string
	Model     string
	CreatedAt time.Time
	Result    *core.SynthesisResult
}

// Written describes where an export went.
type Written struct {
	Path  string // "-" for stdout
	Bytes int
}

// Adapter is the interface all output adapters must implement.
type Adapter interface {
	// Name returns the adapter identifier for logging.
	Name() string

	// DefaultPath is used when Config.Path is empty.
	DefaultPath() string

	// Write exports one synthesis.
	Write(export Export, config Config) (*Written, error)
}

// Config configures output adapter behavior.
type Config struct {
	// Path is the destination file; "-" writes to Stdout.
	Path string

	// DryRun reports what would be written without touching the filesystem.
	DryRun bool

	// Stdout receives "-" output and dry-run notices.
	Stdout io.Writer
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{Stdout: os.Stdout}
}

// New returns the adapter for format.
func New(format string) (Adapter, error) {
	switch format {
	case FormatMarkdown, "md":
		return &MarkdownAdapter{}, nil
	case FormatJSON:
		return &JSONAdapter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format: %s (use markdown or json)", format)
	}
}

// write sends data to the configured destination.
func write(a Adapter, data []byte, config Config) (*Written, error) {
	out := config.Stdout
	if out == nil {
		out = os.Stdout
	}
	path := config.Path
	if path == "" {
		path = a.DefaultPath()
	}

	switch {
	case config.DryRun:
		fmt.Fprintf(out, "[dry-run] Would write %d bytes to %s\n", len(data), path)
		return &Written{Path: path, Bytes: len(data)}, nil
	case path == "-":
		n, err := out.Write(data)
		if err != nil {
			return nil, fmt.Errorf("failed to write output: %w", err)
		}
		return &Written{Path: path, Bytes: n}, nil
	default:
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write file: %w", err)
		}
		return &Written{Path: path, Bytes: len(data)}, nil
	}
}

func checkExport(export Export) error {
	if export.Result == nil {
		return fmt.Errorf("nothing to export: no synthesis result")
	}
	return nil
}
