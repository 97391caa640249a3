package ux

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"
)

// Formatter defines the interface for output formatters.
// This enables consistent output formatting across all commands.
type Formatter interface {
	// Format writes the given data to the output writer
	Format(data interface{}) error
}

// FormatterOptions contains configuration for formatters
type FormatterOptions struct {
	// Writer is where output is written (defaults to os.Stdout)
	Writer io.Writer
	// NoColor disables colored output for text formatters
	NoColor bool
	// Compact enables compact output (no indentation for JSON/YAML)
	Compact bool
}

// Formats lists the accepted --format values.
var Formats = []string{"text", "json", "yaml"}

// NewFormatter creates a formatter based on the format string
func NewFormatter(format string, opts *FormatterOptions) (Formatter, error) {
	if opts == nil {
		opts = &FormatterOptions{Writer: os.Stdout}
	}
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	switch strings.ToLower(format) {
	case "json":
		return &JSONFormatter{opts: opts}, nil
	case "yaml":
		return &YAMLFormatter{opts: opts}, nil
	case "text", "":
		return &TextFormatter{opts: opts}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s (supported: %s)", format, strings.Join(Formats, ", "))
	}
}

// Table is a list of records with a text rendering. JSON and YAML output
// encode Records; text output draws Headers and Rows.
type Table struct {
	Headers []string
	Rows    [][]string
	Records any
	// Empty is printed instead of an empty table.
	Empty string
}

func (t Table) MarshalJSON() ([]byte, error) { return json.Marshal(t.Records) }
func (t Table) MarshalYAML() (interface{}, error) { return t.Records, nil }

// Record is a single record shown as "label: value" lines in text output.
type Record struct {
	Fields []Field
	Value  any
}

// Field is one labelled line of a Record.
type Field struct {
	Label string
	Value string
}

func (r Record) MarshalJSON() ([]byte, error) { return json.Marshal(r.Value) }
func (r Record) MarshalYAML() (interface{}, error) { return r.Value, nil }

// Message is a one-line result, encoded as {"message": ...} in JSON and YAML.
type Message string

func (m Message) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"message": string(m)})
}

func (m Message) MarshalYAML() (interface{}, error) {
	return map[string]string{"message": string(m)}, nil
}

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	opts *FormatterOptions
}

// Format writes data as JSON
func (f *JSONFormatter) Format(data interface{}) error {
	encoder := json.NewEncoder(f.opts.Writer)
	if !f.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

// YAMLFormatter formats output as YAML
type YAMLFormatter struct {
	opts *FormatterOptions
}

// Format writes data as YAML
func (f *YAMLFormatter) Format(data interface{}) error {
	encoder := yaml.NewEncoder(f.opts.Writer)
	if !f.opts.Compact {
		encoder.SetIndent(2)
	}
	defer encoder.Close()
	return encoder.Encode(data)
}

// TextFormatter formats output as human-readable text
type TextFormatter struct {
	opts *FormatterOptions
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Bold(true)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Format writes data as formatted text
func (f *TextFormatter) Format(data interface{}) error {
	w := f.opts.Writer

	switch v := data.(type) {
	case Table:
		if len(v.Rows) == 0 && v.Empty != "" {
			_, err := fmt.Fprintln(w, v.Empty)
			return err
		}
		_, err := fmt.Fprintln(w, f.renderTable(v))
		return err
	case Record:
		width := 0
		for _, fl := range v.Fields {
			width = max(width, len(fl.Label))
		}
		for _, fl := range v.Fields {
			label := fmt.Sprintf("%-*s", width+1, fl.Label+":")
			if !f.opts.NoColor {
				label = labelStyle.Render(label)
			}
			if _, err := fmt.Fprintf(w, "%s %s\n", label, fl.Value); err != nil {
				return err
			}
		}
		return nil
	case Message:
		_, err := fmt.Fprintln(w, string(v))
		return err
	case string:
		_, err := fmt.Fprintln(w, v)
		return err
	case fmt.Stringer:
		_, err := fmt.Fprintln(w, v.String())
		return err
	default:
		return fmt.Errorf("text formatter requires a Table, Record, Message or fmt.Stringer, got %T", data)
	}
}

func (f *TextFormatter) renderTable(t Table) string {
	tbl := table.New().
		Headers(t.Headers...).
		Rows(t.Rows...)

	if f.opts.NoColor {
		return tbl.Border(lipgloss.ASCIIBorder()).
			StyleFunc(func(row, col int) lipgloss.Style { return cellStyle }).
			String()
	}

	return tbl.Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}

// Compile-time verification that formatters implement Formatter
var _ Formatter = (*JSONFormatter)(nil)
var _ Formatter = (*YAMLFormatter)(nil)
var _ Formatter = (*TextFormatter)(nil)
