package output

// MarkdownAdapter writes the artifact as-is, ready to paste into a prompt.
type MarkdownAdapter struct{}

func (a *MarkdownAdapter) Name() string {
	return FormatMarkdown
}

func (a *MarkdownAdapter) DefaultPath() string {
	return "WORLD_BEST_PROMPT.md"
}

func (a *MarkdownAdapter) Write(export Export, config Config) (*Written, error) {
	if err := checkExport(export); err != nil {
		return nil, err
	}
	return write(a, []byte(export.Result.Artifact), config)
}
