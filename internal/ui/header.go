package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HeaderInfo contains information to display in the header.
type HeaderInfo struct {
	Version string // e.g. "v0.2.0"
	Tagline string // optional
}

// HeaderWidth is the width of the header divider.
const HeaderWidth = 50

// RenderHeader renders the program name, version and tagline above a
// divider.
func RenderHeader(info HeaderInfo) string {
	titleStyle := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true)
	versionStyle := lipgloss.NewStyle().Foreground(ColorInfo)
	dividerStyle := lipgloss.NewStyle().Foreground(ColorBorder)

	var output strings.Builder

	output.WriteString(titleStyle.Render("gitsetup"))
	if info.Version != "" {
		output.WriteString(" ")
		output.WriteString(versionStyle.Render(info.Version))
	}
	output.WriteString("\n")

	if info.Tagline != "" {
		output.WriteString(lipgloss.NewStyle().Foreground(ColorSecondary).Render(info.Tagline))
		output.WriteString("\n")
	}

	output.WriteString(dividerStyle.Render(strings.Repeat("━", HeaderWidth)))
	output.WriteString("\n")

	return output.String()
}
