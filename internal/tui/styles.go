// Package tui renders olympus results for terminals.
//
// Colors use lipgloss AdaptiveColor so light and dark terminals both read
// well. Call CheckNoColor before printing to honor NO_COLOR and TERM=dumb.
package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/mrz1836/olympus/internal/constants"
)

//nolint:gochecknoglobals // package-level palette
var (
	// ColorPrimary marks active states.
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#00D7FF"}

	// ColorSuccess marks completed work.
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#00FF87"}

	// ColorWarning marks work that needs attention.
	ColorWarning = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD700"}

	// ColorError marks failures.
	ColorError = lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}

	// ColorMuted is used for secondary text.
	ColorMuted = lipgloss.AdaptiveColor{Light: "#585858", Dark: "#6C6C6C"}

	// StyleBold is plain bold text.
	StyleBold = lipgloss.NewStyle().Bold(true)
)

// OutputStyles holds the message styles used by TTYOutput.
type OutputStyles struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Dim     lipgloss.Style
	Header  lipgloss.Style
}

// NewOutputStyles creates the message styles.
func NewOutputStyles() *OutputStyles {
	return &OutputStyles{
		Success: lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true),
		Error:   lipgloss.NewStyle().Foreground(ColorError).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(ColorWarning),
		Info:    lipgloss.NewStyle().Foreground(ColorPrimary),
		Dim:     lipgloss.NewStyle().Foreground(ColorMuted),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#DDDDDD"}),
	}
}

// CheckNoColor switches lipgloss to plain ASCII when colors are unwanted.
func CheckNoColor() {
	if !HasColorSupport() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// HasColorSupport reports false when NO_COLOR is present (any value) or
// TERM is dumb.
func HasColorSupport() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

// TaskStatusIcon returns the glyph shown next to a task status.
func TaskStatusIcon(status constants.TaskStatus) string {
	switch status {
	case constants.TaskStatusReceived, constants.TaskStatusParsed:
		return "○"
	case constants.TaskStatusReady:
		return "◐"
	case constants.TaskStatusExecuting:
		return "●"
	case constants.TaskStatusCompleted, constants.TaskStatusDelivered:
		return "✓"
	default:
		return "?"
	}
}

// SubtaskStatusIcon returns the glyph shown next to a subtask status.
func SubtaskStatusIcon(status constants.SubtaskStatus) string {
	switch status {
	case constants.SubtaskStatusPending:
		return "○"
	case constants.SubtaskStatusCompleted:
		return "✓"
	case constants.SubtaskStatusFailed:
		return "✗"
	default:
		return "?"
	}
}

// SubtaskStatusColor returns the color for a subtask status.
func SubtaskStatusColor(status constants.SubtaskStatus) lipgloss.AdaptiveColor {
	switch status {
	case constants.SubtaskStatusCompleted:
		return ColorSuccess
	case constants.SubtaskStatusFailed:
		return ColorError
	default:
		return ColorMuted
	}
}
