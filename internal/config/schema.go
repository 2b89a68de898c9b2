package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/wcforge/contentgen/internal/api"
	"github.com/wcforge/contentgen/internal/content"
)

// Config holds contentgen configuration.
// Stored at: $HOME/.contentgen/config.yaml
type Config struct {
	// BaseURL includes the backend's route prefix, e.g. http://host:5000/ai.
	BaseURL string `mapstructure:"base_url" yaml:"base_url" json:"base_url"`

	// ProductID is the target used when a command gets no --product flag.
	ProductID string `mapstructure:"product_id" yaml:"product_id" json:"product_id"`

	// Timeout is a per-request duration such as "2m".
	Timeout string `mapstructure:"timeout" yaml:"timeout" json:"timeout"`

	LogLevel string     `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Output   string     `mapstructure:"output" yaml:"output" json:"output"`
	Prompts  PromptsCfg `mapstructure:"prompts" yaml:"prompts" json:"prompts"`

	// Headers are added to every request. Values support ${ENV_VAR} syntax.
	Headers map[string]string `mapstructure:"headers" yaml:"headers,omitempty" json:"headers,omitempty"`
}

// PromptsCfg holds the prompt selected for each field when a session starts.
// Empty uses the backend's default prompt.
type PromptsCfg struct {
	Title           string `mapstructure:"title" yaml:"title" json:"title"`
	Description     string `mapstructure:"description" yaml:"description" json:"description"`
	MetaTitle       string `mapstructure:"meta_title" yaml:"meta_title" json:"meta_title"`
	MetaDescription string `mapstructure:"meta_description" yaml:"meta_description" json:"meta_description"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:  "http://localhost:5000/ai",
		Timeout:  api.DefaultTimeout.String(),
		LogLevel: "info",
		Output:   string(api.DefaultOutput),
		Headers:  map[string]string{},
	}
}

// Validate checks values that can't be checked by type alone.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base_url %q: must be an absolute URL", c.BaseURL)
	}
	if _, err := c.RequestTimeout(); err != nil {
		return err
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := api.ParseOutputFormat(c.Output); err != nil {
		return err
	}
	return nil
}

// RequestTimeout parses Timeout. Empty uses the client default.
func (c *Config) RequestTimeout() (time.Duration, error) {
	if strings.TrimSpace(c.Timeout) == "" {
		return api.DefaultTimeout, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid timeout %q: must be positive", c.Timeout)
	}
	return d, nil
}

// ResolvedHeaders returns Headers with ${ENV_VAR} references expanded.
// Headers that resolve to an empty value are dropped.
func (c *Config) ResolvedHeaders() map[string]string {
	out := make(map[string]string, len(c.Headers))
	for k, v := range c.Headers {
		if resolved := ResolveEnvVars(v); resolved != "" {
			out[k] = resolved
		}
	}
	return out
}

// PromptDefaults returns the configured prompt per field, omitting empty ones.
func (c *Config) PromptDefaults() map[content.Field]string {
	out := make(map[content.Field]string)
	for f, id := range map[content.Field]string{
		content.FieldTitle:           c.Prompts.Title,
		content.FieldDescription:     c.Prompts.Description,
		content.FieldMetaTitle:       c.Prompts.MetaTitle,
		content.FieldMetaDescription: c.Prompts.MetaDescription,
	} {
		if id != "" {
			out[f] = id
		}
	}
	return out
}

// ParseLogLevel parses debug, info, warn or error. Empty is info.
func ParseLogLevel(s string) (slog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: want debug, info, warn or error", s)
	}
	return level, nil
}
