package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Semantic colors for status indication. ANSI codes so the terminal theme
// decides the exact shade.
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "7" // White/default
	ColorSecondary lipgloss.Color = "4" // Blue
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
)

// Accent colors for the header and panels.
const (
	ColorAccent lipgloss.Color = "#F97316" // git orange
	ColorBorder lipgloss.Color = "#585B70"
)

// GradientColors is the spinner's color cycle.
var GradientColors = []lipgloss.Color{
	"#F97316",
	"#F59E0B",
	"#22D3EE",
	"#4ADE80",
}

// DisableColors switches all lipgloss rendering to plain text. Used when
// NO_COLOR is set or stdout is not a terminal.
func DisableColors() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// SuccessStyle renders text in the success color.
func SuccessStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(ColorSuccess) }

// ErrorStyle renders text in the error color.
func ErrorStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(ColorError) }

// WarningStyle renders text in the warning color.
func WarningStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(ColorWarning) }

// InfoStyle renders text in the info color.
func InfoStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(ColorInfo) }

// MutedStyle renders secondary text.
func MutedStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(ColorMuted) }

// StatusStyle picks the style for a pass/warn/fail status string.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case "pass":
		return SuccessStyle()
	case "warn":
		return WarningStyle()
	case "fail":
		return ErrorStyle()
	default:
		return MutedStyle()
	}
}
