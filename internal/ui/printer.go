package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// DividerWidth is the default width for divider lines.
const DividerWidth = 64

// Printer renders the wizard's status lines to a writer.
type Printer struct {
	w io.Writer
}

// NewPrinter creates a printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.w
}

// Success renders: ✓ msg
func (p *Printer) Success(format string, args ...any) {
	p.line(SuccessStyle(), SymbolSuccess, format, args...)
}

// Info renders: › msg
func (p *Printer) Info(format string, args ...any) {
	p.line(InfoStyle(), SymbolArrow, format, args...)
}

// Warn renders: ! msg
func (p *Printer) Warn(format string, args ...any) {
	p.line(WarningStyle(), SymbolWarning, format, args...)
}

// Fail renders: ✗ msg
func (p *Printer) Fail(format string, args ...any) {
	p.line(ErrorStyle(), SymbolFail, format, args...)
}

// Skip renders: ⊘ msg (reason)
func (p *Printer) Skip(msg, reason string) {
	line := WarningStyle().Render(SymbolSkipped) + " " + msg
	if reason != "" {
		line += " " + MutedStyle().Render("("+reason+")")
	}
	fmt.Fprintln(p.w, line)
}

// Dim renders an indented muted line.
func (p *Printer) Dim(format string, args ...any) {
	fmt.Fprintln(p.w, "  "+MutedStyle().Render(fmt.Sprintf(format, args...)))
}

// Text renders an unstyled line.
func (p *Printer) Text(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

// Newline writes an empty line.
func (p *Printer) Newline() {
	fmt.Fprintln(p.w)
}

// Phase renders a numbered phase heading.
// Shows: [2/5] SSH key
func (p *Printer) Phase(n, total int, title string) {
	counter := MutedStyle().Render(fmt.Sprintf("[%d/%d]", n, total))
	name := lipgloss.NewStyle().Bold(true).Foreground(ColorAccent).Render(title)
	fmt.Fprintf(p.w, "\n%s %s\n", counter, name)
}

// Divider renders a thin horizontal line.
func (p *Printer) Divider() {
	fmt.Fprintf(p.w, "%s\n", FormatDivider(DividerWidth))
}

// Code renders a block of literal text (a public key, a command) indented
// and unwrapped so it can be copied from the terminal.
func (p *Printer) Code(text string) {
	style := lipgloss.NewStyle().Foreground(ColorInfo)
	for _, l := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		fmt.Fprintln(p.w, "    "+style.Render(l))
	}
}

// Panel renders a rounded box with a bold title. status is pass, warn or
// fail and picks the border color.
func (p *Printer) Panel(status, title, body string) {
	fmt.Fprintln(p.w, RenderPanel(status, title, body))
}

// Header renders the program header.
func (p *Printer) Header(info HeaderInfo) {
	fmt.Fprint(p.w, RenderHeader(info))
}

func (p *Printer) line(style lipgloss.Style, symbol, format string, args ...any) {
	fmt.Fprintf(p.w, "%s %s\n", style.Render(symbol), fmt.Sprintf(format, args...))
}

// RenderPanel returns a bordered panel as a string.
func RenderPanel(status, title, body string) string {
	color := ColorBorder
	switch status {
	case "pass":
		color = ColorSuccess
	case "warn":
		color = ColorWarning
	case "fail":
		color = ColorError
	}

	content := lipgloss.NewStyle().Bold(true).Foreground(color).Render(title)
	if body != "" {
		content += "\n\n" + body
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 2).
		Render(content)
}

// FormatDivider returns a divider line as a string.
func FormatDivider(width int) string {
	return MutedStyle().Render(strings.Repeat("─", width))
}
