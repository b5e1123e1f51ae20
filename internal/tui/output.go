package tui

import (
	"encoding/json"
	"fmt"
	"io"
)

// Output format names accepted by NewOutput.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Output writes command results.
type Output interface {
	// Success prints a success message.
	Success(msg string)
	// Error prints an error message.
	Error(err error)
	// Warning prints a warning message.
	Warning(msg string)
	// Info prints an informational message.
	Info(msg string)
	// JSON writes v as indented JSON.
	JSON(v any) error
	// Table returns a table bound to the output writer, or nil when the
	// output is machine-readable.
	Table(columns []TableColumn) *Table
}

// TTYOutput writes styled text.
type TTYOutput struct {
	w      io.Writer
	styles *OutputStyles
}

// NewTTYOutput creates a TTYOutput writing to w.
func NewTTYOutput(w io.Writer) *TTYOutput {
	return &TTYOutput{w: w, styles: NewOutputStyles()}
}

// Success prints a success message.
func (o *TTYOutput) Success(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Success.Render("✓ "+msg))
}

// Error prints an error message.
func (o *TTYOutput) Error(err error) {
	_, _ = fmt.Fprintln(o.w, o.styles.Error.Render("✗ "+err.Error()))
}

// Warning prints a warning message.
func (o *TTYOutput) Warning(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Warning.Render("⚠ "+msg))
}

// Info prints an informational message.
func (o *TTYOutput) Info(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Info.Render(msg))
}

// JSON writes v as indented JSON.
func (o *TTYOutput) JSON(v any) error {
	return encodeJSON(o.w, v)
}

// Table returns a styled table.
func (o *TTYOutput) Table(columns []TableColumn) *Table {
	return NewTable(o.w, columns)
}

// JSONOutput writes only machine-readable JSON.
type JSONOutput struct {
	w io.Writer
}

// NewJSONOutput creates a JSONOutput writing to w.
func NewJSONOutput(w io.Writer) *JSONOutput {
	return &JSONOutput{w: w}
}

// Success is a no-op.
func (o *JSONOutput) Success(_ string) {}

// Error writes the error as a JSON object.
func (o *JSONOutput) Error(err error) {
	_ = encodeJSON(o.w, map[string]string{"error": err.Error()})
}

// Warning is a no-op.
func (o *JSONOutput) Warning(_ string) {}

// Info is a no-op.
func (o *JSONOutput) Info(_ string) {}

// JSON writes v as indented JSON.
func (o *JSONOutput) JSON(v any) error {
	return encodeJSON(o.w, v)
}

// Table returns nil; JSON callers encode the rows instead.
func (o *JSONOutput) Table(_ []TableColumn) *Table {
	return nil
}

// NewOutput picks the Output for format. Unknown formats fall back to text.
func NewOutput(w io.Writer, format string) Output {
	if format == FormatJSON {
		return NewJSONOutput(w)
	}
	return NewTTYOutput(w)
}

// ValidFormats lists the accepted output formats.
func ValidFormats() []string {
	return []string{FormatText, FormatJSON}
}

// IsValidFormat reports whether format is accepted by NewOutput.
func IsValidFormat(format string) bool {
	return format == FormatText || format == FormatJSON
}

func encodeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
