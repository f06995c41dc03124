package output

import (
	"encoding/json"
	"fmt"
	"time"
)

// JSONAdapter outputs the full synthesis with its request and provider.
type JSONAdapter struct{}

type jsonExport struct {
	Request        string    `json:"request"`
	Provider       string    `json:"provider,omitempty"`
	Model          string    `json:"model,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	Acknowledgment string    `json:"acknowledgment"`
	Strategy       string    `json:"strategy"`
	Artifact       string    `json:"artifact"`
}

func (a *JSONAdapter) Name() string {
	return FormatJSON
}

func (a *JSONAdapter) DefaultPath() string {
	return "synthesis.json"
}

func (a *JSONAdapter) Write(export Export, config Config) (*Written, error) {
	if err := checkExport(export); err != nil {
		return nil, err
	}

	created := export.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	data, err := json.MarshalIndent(jsonExport{
		Request:        export.Request,
		Provider:       export.Provider,
		Model:          export.Model,
		CreatedAt:      created.UTC(),
		Acknowledgment: export.Result.Acknowledgment,
		Strategy:       export.Result.Strategy,
		Artifact:       export.Result.Artifact,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return write(a, append(data, '\n'), config)
}
