package api

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// OutputFormat defines the output format for CLI commands.
type OutputFormat string

const (
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatText OutputFormat = "text"
)

// DefaultOutput is the default output format.
const DefaultOutput = OutputFormatYAML

// ParseOutputFormat validates a --output flag value. Empty selects DefaultOutput.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultOutput, nil
	case OutputFormatYAML:
		return OutputFormatYAML, nil
	case OutputFormatJSON:
		return OutputFormatJSON, nil
	case OutputFormatText:
		return OutputFormatText, nil
	default:
		return "", fmt.Errorf("unknown output format: %s (want yaml, json or text)", s)
	}
}

// Texter is implemented by values with a human-readable rendering for text output.
type Texter interface {
	Text() string
}

// Printer writes command results in one format.
type Printer struct {
	w      io.Writer
	format OutputFormat
}

// NewPrinter creates a Printer for w.
func NewPrinter(w io.Writer, format OutputFormat) *Printer {
	return &Printer{w: w, format: format}
}

// Format returns the printer's output format.
func (p *Printer) Format() OutputFormat {
	return p.format
}

// Print writes data. Text output uses Texter when data implements it and
// falls back to YAML otherwise.
func (p *Printer) Print(data any) error {
	switch p.format {
	case OutputFormatJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case OutputFormatYAML:
		return p.yaml(data)
	case OutputFormatText:
		if t, ok := data.(Texter); ok {
			_, err := io.WriteString(p.w, t.Text())
			return err
		}
		return p.yaml(data)
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

func (p *Printer) yaml(data any) error {
	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(data)
}
