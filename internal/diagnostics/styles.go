package diagnostics

import "github.com/charmbracelet/lipgloss"

var (
	colorError   = lipgloss.Color("#EF4444")
	colorWarning = lipgloss.Color("#F59E0B")
	colorMuted   = lipgloss.Color("#6B7280")
	colorAccent  = lipgloss.Color("#7C3AED")
)

var (
	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorError)

	warningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWarning)

	messageStyle = lipgloss.NewStyle().
			Bold(true)

	gutterStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	caretStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)
)

func levelStyle(l DiagnosticLevel) lipgloss.Style {
	if l == DiagnosticWarning {
		return warningStyle
	}
	return errorStyle
}

// styles applies lipgloss styles only when colour output is enabled, so
// plain output is byte-for-byte predictable.
type styles struct {
	enabled bool
}

func (s styles) paint(style lipgloss.Style, text string) string {
	if !s.enabled {
		return text
	}
	return style.Render(text)
}
