package surface

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/inkwell/document"
)

// Style controls terminal rendering.
type Style struct {
	Text      lipgloss.Style
	Selection lipgloss.Style
	Cursor    lipgloss.Style
	Void      lipgloss.Style

	// Marks styles characters by mark type. Styles of several marks on one
	// character are layered in mark order.
	Marks map[string]lipgloss.Style
	// Skip, when set, hides marks from styling.
	Skip func(document.Mark) bool
	// Blocks styles whole rows by block type.
	Blocks map[string]lipgloss.Style
}

func DefaultStyle() Style {
	return DefaultStyleFor(lipgloss.DefaultRenderer())
}

// DefaultStyleFor builds the default style on r.
func DefaultStyleFor(r *lipgloss.Renderer) Style {
	return Style{
		Text:      r.NewStyle(),
		Selection: r.NewStyle().Background(lipgloss.Color("237")),
		Cursor:    r.NewStyle().Reverse(true),
		Void:      r.NewStyle().Foreground(lipgloss.Color("244")),
		Marks: map[string]lipgloss.Style{
			"bold":       r.NewStyle().Bold(true),
			"italic":     r.NewStyle().Italic(true),
			"underlined": r.NewStyle().Underline(true),
			"code":       r.NewStyle().Foreground(lipgloss.Color("180")),
			"spelling":   r.NewStyle().Underline(true).Foreground(lipgloss.Color("203")),
		},
		Blocks: map[string]lipgloss.Style{
			"heading-one": r.NewStyle().Bold(true).Foreground(lipgloss.Color("75")),
			"block-quote": r.NewStyle().Faint(true),
		},
	}
}
