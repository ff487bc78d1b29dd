package editor

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"github.com/iw2rmb/inkwell/document"
	"github.com/iw2rmb/inkwell/spellcheck"
)

func (m *Model) renderContent() string {
	if m.surf == nil {
		return ""
	}
	st := m.cfg.Style.Document
	if st.Skip == nil {
		st.Skip = hiddenMark
	}
	return m.surf.View(st, m.state.Value.Selection, m.focused)
}

// hiddenMark hides check bookkeeping and ignored spelling runs.
func hiddenMark(mk document.Mark) bool {
	switch mk.Type {
	case spellcheck.TypeOffset:
		return true
	case spellcheck.TypeSpelling:
		return spellcheck.Ignored(mk)
	}
	return false
}

// suggestionView renders the box describing the displayed decoration.
func (m Model) suggestionView() string {
	d := m.state.Displayed
	if d == nil {
		return ""
	}
	st := m.cfg.Style
	lines := []string{st.Message.Render(spellcheck.Message(*d))}
	repl := spellcheck.Replacements(*d)
	for _, r := range repl {
		lines = append(lines, st.Replacement.Render(r))
	}

	var hints []string
	if len(repl) > 0 && !m.cfg.ReadOnly {
		hints = append(hints, helpText(m.cfg.KeyMap.Accept.Help()))
	}
	if !m.cfg.ReadOnly {
		hints = append(hints, helpText(m.cfg.KeyMap.Ignore.Help()))
	}
	if len(hints) > 0 {
		lines = append(lines, st.Hint.Render(strings.Join(hints, "  ")))
	}
	return st.Box.Render(strings.Join(lines, "\n"))
}

// overlaySuggestion draws box over base next to the start of the displayed
// run: below its row when there is room, above otherwise. It reports false
// when the box does not fit inside the viewport.
func (m Model) overlaySuggestion(base, box string) (string, bool) {
	vs := m.viewport.Style
	width := m.viewport.Width - vs.GetHorizontalFrameSize()
	height := m.viewport.Height - vs.GetVerticalFrameSize()
	boxW, boxH := lipgloss.Width(box), lipgloss.Height(box)
	if boxW > width || boxH >= height {
		return "", false
	}
	x, row, ok := m.surf.Locate(m.state.Value.Selection.Start())
	if !ok {
		return "", false
	}
	row -= m.viewport.YOffset
	if row < 0 || row >= height {
		return "", false
	}

	y := row + 1
	if y+boxH > height {
		y = row - boxH
	}
	y = max(y, 0)
	x = min(max(x, 0), width-boxW)

	left := vs.GetMarginLeft() + vs.GetBorderLeftSize() + vs.GetPaddingLeft()
	top := vs.GetMarginTop() + vs.GetBorderTopSize() + vs.GetPaddingTop()
	return overlay.Composite(box, base, overlay.Left, overlay.Top, left+x, top+y), true
}

func helpText(h key.Help) string { return h.Key + " " + h.Desc }
