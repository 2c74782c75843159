package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// TableColumn defines a table column with name and width.
type TableColumn struct {
	Title string
	Width int
}

// NewTable creates a non-focused Bubbles table with default styling.
func NewTable(columns []TableColumn, rows []table.Row) table.Model {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{
			Title: c.Title,
			Width: c.Width,
		}
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(false),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorPrimary)
	s.Cell = s.Cell.
		Foreground(ColorPrimary)
	// Nothing is ever selected in CLI output; keep the first row unhighlighted.
	s.Selected = s.Cell

	t.SetStyles(s)
	// Header plus its bottom border take two lines.
	t.SetHeight(len(rows) + 2)
	return t
}

// RenderSimpleTable renders a non-interactive table string. Columns with a
// zero width are sized to fit their widest cell.
func RenderSimpleTable(columns []TableColumn, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	sized := make([]TableColumn, len(columns))
	copy(sized, columns)
	for i := range sized {
		if sized[i].Width > 0 {
			continue
		}
		w := lipgloss.Width(sized[i].Title)
		for _, row := range rows {
			if i < len(row) && lipgloss.Width(row[i]) > w {
				w = lipgloss.Width(row[i])
			}
		}
		sized[i].Width = w
	}

	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(row)
	}

	return NewTable(sized, tableRows).View()
}

// CheckRow is one line of the verification report.
type CheckRow struct {
	Status     string // "pass", "warn", "fail"
	Label      string
	Value      string
	Suggestion string
}

// RenderCheckTable renders verification results as a table followed by the
// suggestions for anything that did not pass.
func RenderCheckTable(rows []CheckRow) string {
	if len(rows) == 0 {
		return "No checks to display"
	}

	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = []string{StatusSymbol(r.Status), r.Label, r.Value}
	}

	var out strings.Builder
	out.WriteString(RenderSimpleTable([]TableColumn{
		{Title: " "},
		{Title: "Check"},
		{Title: "Value"},
	}, cells))
	out.WriteString("\n")

	for _, r := range rows {
		if r.Status == "pass" || r.Suggestion == "" {
			continue
		}
		out.WriteString("\n")
		out.WriteString(StatusStyle(r.Status).Render(StatusSymbol(r.Status)))
		out.WriteString(" ")
		out.WriteString(r.Label)
		out.WriteString(": ")
		out.WriteString(MutedStyle().Render(r.Suggestion))
	}
	if out.Len() > 0 && !strings.HasSuffix(out.String(), "\n") {
		out.WriteString("\n")
	}

	return out.String()
}

// RenderKeyValues renders aligned "key  value" lines, used for the git
// config read-back.
func RenderKeyValues(pairs [][2]string) string {
	width := 0
	for _, p := range pairs {
		if w := lipgloss.Width(p[0]); w > width {
			width = w
		}
	}

	var out strings.Builder
	for _, p := range pairs {
		out.WriteString("  ")
		out.WriteString(MutedStyle().Render(padRight(p[0], width)))
		out.WriteString("  ")
		out.WriteString(p[1])
		out.WriteString("\n")
	}
	return out.String()
}

// padRight pads a string to the specified visible width.
func padRight(s string, width int) string {
	visibleLen := lipgloss.Width(s)
	if visibleLen >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visibleLen)
}
