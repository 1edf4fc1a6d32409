package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title       lipgloss.Style
	label       lipgloss.Style
	error       lipgloss.Style
	warning     lipgloss.Style
	success     lipgloss.Style
	instruction lipgloss.Style
}

// newStyles binds the palette to w so that colors are only emitted when w
// is a terminal.
func newStyles(w io.Writer) *styles {
	r := lipgloss.NewRenderer(w)
	return &styles{
		title:       r.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		label:       r.NewStyle().Foreground(lipgloss.Color("#999999")),
		error:       r.NewStyle().Foreground(lipgloss.Color("#FF5555")),
		warning:     r.NewStyle().Foreground(lipgloss.Color("#FFB86C")),
		success:     r.NewStyle().Foreground(lipgloss.Color("#55FF55")),
		instruction: r.NewStyle().Foreground(lipgloss.Color("#666666")),
	}
}

// Errorf writes a user-facing failure notice to w.
func Errorf(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, newStyles(w).error.Render(fmt.Sprintf(format, args...)))
}

// Warnf writes a warning to w.
func Warnf(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, newStyles(w).warning.Render(fmt.Sprintf(format, args...)))
}

// Successf writes a confirmation to w.
func Successf(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintln(w, newStyles(w).success.Render(fmt.Sprintf(format, args...)))
}

// Field writes an aligned "label: value" line.
func Field(w io.Writer, label, value string) {
	s := newStyles(w)
	fmt.Fprintf(w, "%s %s\n", s.label.Render(fmt.Sprintf("%-14s", label+":")), value)
}
