package application

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the console styles. Styling is cosmetic only: a plain theme
// renders the same text without escape sequences.
type Theme struct {
	Success   lipgloss.Style
	Failure   lipgloss.Style
	Skipped   lipgloss.Style
	Aborted   lipgloss.Style
	Engine    lipgloss.Style
	Muted     lipgloss.Style
	Highlight lipgloss.Style
}

// NewTheme builds a theme for w. Colors follow the terminal's capabilities
// unless colorDisabled is set.
func NewTheme(w io.Writer, colorDisabled bool) Theme {
	r := lipgloss.NewRenderer(w)
	if colorDisabled {
		r.SetColorProfile(termenv.Ascii)
	}
	return Theme{
		Success:   r.NewStyle().Foreground(lipgloss.Color("42")),
		Failure:   r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		Skipped:   r.NewStyle().Foreground(lipgloss.Color("245")),
		Aborted:   r.NewStyle().Foreground(lipgloss.Color("208")),
		Engine:    r.NewStyle().Bold(true),
		Muted:     r.NewStyle().Foreground(lipgloss.Color("240")),
		Highlight: r.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true),
	}
}

// PlainTheme renders everything unstyled.
func PlainTheme() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Success:   plain,
		Failure:   plain,
		Skipped:   plain,
		Aborted:   plain,
		Engine:    plain,
		Muted:     plain,
		Highlight: plain,
	}
}
