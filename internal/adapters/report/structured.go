package report

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/baditaflorin/go_doc_similarity/internal/core/domain"
)

// Format selects how a report is printed to stdout.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatJSON, FormatYAML:
		return Format(s), nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want text, json or yaml)", s)
	}
}

// JSONWriter exports the whole report as indented JSON.
type JSONWriter struct {
	out io.Writer
}

// NewJSONWriter creates a JSON writer.
func NewJSONWriter(out io.Writer) *JSONWriter {
	return &JSONWriter{out: out}
}

// Write implements ports.ReportWriter.
func (w *JSONWriter) Write(report *domain.Report) error {
	enc := json.NewEncoder(w.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode json report: %w", err)
	}
	return nil
}

// YAMLWriter exports the whole report as YAML.
type YAMLWriter struct {
	out io.Writer
}

// NewYAMLWriter creates a YAML writer.
func NewYAMLWriter(out io.Writer) *YAMLWriter {
	return &YAMLWriter{out: out}
}

// Write implements ports.ReportWriter.
func (w *YAMLWriter) Write(report *domain.Report) error {
	enc := yaml.NewEncoder(w.out)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode yaml report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode yaml report: %w", err)
	}
	return nil
}
