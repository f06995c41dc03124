// Package config loads nexus settings from .nexus.yaml and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dhabedank/nexus/internal/core"
	"github.com/dhabedank/nexus/internal/llm"
	"github.com/dhabedank/nexus/internal/session"
)

// FileName is the config file looked up in the working and home directories.
const FileName = ".nexus.yaml"

// Config is the resolved configuration. Zero values in the file leave the
// defaults in place.
type Config struct {
	Provider  string          `yaml:"provider,omitempty" validate:"omitempty,oneof=auto gemini-api anthropic-api openai-api claude-cli codex-cli"`
	Model     string          `yaml:"model,omitempty"`
	MaxTokens int             `yaml:"max_tokens,omitempty" validate:"gte=0,lte=65536"`
	LogFile   string          `yaml:"log_file,omitempty"`
	Timings   session.Timings `yaml:"timings"`

	// Path is the file the config was read from; empty when none was found.
	Path string `yaml:"-"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	d := llm.DefaultConfig()
	return Config{
		Provider:  d.Provider,
		MaxTokens: d.MaxTokens,
		Timings:   session.DefaultTimings(),
	}
}

// DefaultPath returns ~/.nexus.yaml, where setup saves its choices.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(home, FileName)
}

// Find resolves the config file: explicit path, then ./.nexus.yaml, then
// ~/.nexus.yaml. It returns "" when none exists.
func Find(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}
	if home, err := os.UserHomeDir(); err == nil {
		homePath := filepath.Join(home, FileName)
		if _, err := os.Stat(homePath); err == nil {
			return homePath
		}
	}
	return ""
}

// Load reads path over the defaults. An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.Path = path

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as YAML to path.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate reports the first invalid setting as a *core.ValidationError
// naming its YAML key (e.g. "timings.floor").
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		msg := fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		return &core.ValidationError{Field: field, Message: msg}
	}
	return fmt.Errorf("invalid config: %w", err)
}

// LLM converts the settings into an adapter config.
func (c Config) LLM() llm.Config {
	return llm.Config{
		Provider:  c.Provider,
		Model:     c.Model,
		MaxTokens: c.MaxTokens,
	}
}

// LoadEnv loads KEY=value pairs from the given .env files (default ".env")
// without overriding variables already set. Missing files are ignored.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// geminiKeyVars are checked in order for the Gemini key.
var geminiKeyVars = []string{"API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY"}

// CredentialsFromEnv reads provider keys from the environment. Unset keys
// stay empty.
func CredentialsFromEnv() llm.Credentials {
	var creds llm.Credentials
	for _, name := range geminiKeyVars {
		if v := os.Getenv(name); v != "" {
			creds.Gemini = v
			break
		}
	}
	creds.Anthropic = os.Getenv("ANTHROPIC_API_KEY")
	creds.OpenAI = os.Getenv("OPENAI_API_KEY")
	return creds
}
