package ui

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Styles colours report lines. The zero value renders plain text.
type Styles struct {
	enabled bool
	bad     lipgloss.Style
	warn    lipgloss.Style
	good    lipgloss.Style
}

// NewStyles enables colour only when out is a terminal.
func NewStyles(out io.Writer) Styles {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return Styles{}
	}
	return Styles{
		enabled: true,
		bad:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		warn:    lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		good:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	}
}

// Bad renders a finding.
func (s Styles) Bad(str string) string { return s.render(s.bad, str) }

// Warn renders a non-fatal finding.
func (s Styles) Warn(str string) string { return s.render(s.warn, str) }

// Good renders a passing check.
func (s Styles) Good(str string) string { return s.render(s.good, str) }

func (s Styles) render(st lipgloss.Style, str string) string {
	if !s.enabled {
		return str
	}
	return st.Render(str)
}
