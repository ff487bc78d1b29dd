package editor

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/inkwell/surface"
)

// Style controls the editor's rendering.
type Style struct {
	Document surface.Style

	// Suggestion box shown under the document for the displayed
	// decoration.
	Box         lipgloss.Style
	Message     lipgloss.Style
	Replacement lipgloss.Style
	Hint        lipgloss.Style
}

func DefaultStyle() Style {
	return DefaultStyleFor(lipgloss.DefaultRenderer())
}

// DefaultStyleFor builds the default style on r.
func DefaultStyleFor(r *lipgloss.Renderer) Style {
	return Style{
		Document:    surface.DefaultStyleFor(r),
		Box:         r.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1),
		Message:     r.NewStyle().Bold(true),
		Replacement: r.NewStyle().Foreground(lipgloss.Color("42")),
		Hint:        r.NewStyle().Foreground(lipgloss.Color("244")),
	}
}
