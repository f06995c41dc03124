package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func resultValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// ExtractJSON pulls the JSON object out of free-form CLI output.
// Markdown fences and surrounding chatter are dropped. Blank output
// becomes "{}" so that an empty body and an empty object fail the same way.
func ExtractJSON(output string) string {
	output = strings.TrimSpace(output)
	if output == "" {
		return "{}"
	}

	// Remove markdown fences if present
	if strings.HasPrefix(output, "```json") {
		output = strings.TrimPrefix(output, "```json")
		output = strings.TrimSuffix(output, "```")
		output = strings.TrimSpace(output)
	} else if strings.HasPrefix(output, "```") {
		output = strings.TrimPrefix(output, "```")
		output = strings.TrimSuffix(output, "```")
		output = strings.TrimSpace(output)
	}

	start := strings.Index(output, "{")
	end := strings.LastIndex(output, "}")
	if start == -1 || end == -1 || end < start {
		return output
	}
	return output[start : end+1]
}

// resultBody mirrors SynthesisResult with pointers so that a missing or
// null field can be told apart from an empty string.
type resultBody struct {
	Acknowledgment *string `json:"acknowledgment" validate:"required"`
	Strategy       *string `json:"strategy" validate:"required"`
	Artifact       *string `json:"artifact" validate:"required"`
}

// ParseResult decodes a provider response body into a SynthesisResult.
// The body must be a single JSON object; a blank body is read as "{}".
// Every field must be present and non-null. Empty strings are kept as is.
func ParseResult(output string) (*SynthesisResult, error) {
	if strings.TrimSpace(output) == "" {
		output = "{}"
	}
	var body resultBody
	if err := json.Unmarshal([]byte(output), &body); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if err := validateBody(&body); err != nil {
		return nil, err
	}
	return &SynthesisResult{
		Acknowledgment: *body.Acknowledgment,
		Strategy:       *body.Strategy,
		Artifact:       *body.Artifact,
	}, nil
}

// validateBody reports the first missing field as a *ValidationError.
func validateBody(b *resultBody) error {
	err := resultValidator().Struct(b)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ValidationError{Field: fe.Field(), Message: fe.Tag()}
	}
	return fmt.Errorf("validation failed: %w", err)
}
