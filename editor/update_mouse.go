package editor

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/inkwell/document"
)

func (m Model) updateMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.cfg.ScrollPolicy == ScrollAllowManual || !isManualScrollMouse(msg) {
		m.viewport, cmd = m.viewport.Update(msg)
	}

	if !m.focused {
		return m, cmd
	}

	switch msg.Action { //nolint:exhaustive
	case tea.MouseActionPress:
		if !m.mouseInBounds(msg.X, msg.Y) {
			return m, cmd
		}
		switch msg.Button { //nolint:exhaustive
		case tea.MouseButtonLeft:
			p, ok := m.screenToPoint(msg.X, msg.Y)
			if !ok {
				m.log.Debug("unresolved click", "x", msg.X, "y", msg.Y)
				return m, cmd
			}
			anchor := p
			if msg.Shift {
				anchor = m.state.Value.Selection.Anchor()
			}
			m.dragAnchor = anchor
			m.dragging = true
			var ecmd tea.Cmd
			m, ecmd = m.apply(m.change().Select(selectionBetween(anchor, p)), false)
			return m, tea.Batch(cmd, ecmd)
		case tea.MouseButtonMiddle:
			return m.pasteAt(msg.X, msg.Y, cmd)
		}

	case tea.MouseActionMotion:
		if !m.dragging {
			return m, cmd
		}
		x, y := m.clampMouseToBounds(msg.X, msg.Y)
		p, ok := m.screenToPoint(x, y)
		if !ok {
			return m, cmd
		}
		var ecmd tea.Cmd
		m, ecmd = m.apply(m.change().Select(selectionBetween(m.dragAnchor, p)), false)
		return m, tea.Batch(cmd, ecmd)

	case tea.MouseActionRelease:
		m.dragging = false
	}

	return m, cmd
}

// pasteAt inserts the clipboard where a drop at (x, y) lands.
func (m Model) pasteAt(x, y int, cmd tea.Cmd) (Model, tea.Cmd) {
	if m.cfg.ReadOnly {
		return m, cmd
	}
	p, ok := m.screenToDropPoint(x, y)
	if !ok {
		m.log.Debug("unresolved drop", "x", x, "y", y)
		return m, cmd
	}
	s, ok := m.readClipboard()
	if !ok {
		return m, cmd
	}
	m, ecmd := m.apply(m.change().Select(document.Collapsed(p)).InsertText(s), true)
	return m, tea.Batch(cmd, ecmd)
}

func selectionBetween(anchor, focus document.Point) document.Selection {
	return document.Selection{
		AnchorKey:    anchor.Key,
		AnchorOffset: anchor.Offset,
		FocusKey:     focus.Key,
		FocusOffset:  focus.Offset,
	}
}

func isManualScrollMouse(msg tea.MouseMsg) bool {
	return msg.Action == tea.MouseActionPress &&
		(msg.Button == tea.MouseButtonWheelUp ||
			msg.Button == tea.MouseButtonWheelDown ||
			msg.Button == tea.MouseButtonWheelLeft ||
			msg.Button == tea.MouseButtonWheelRight)
}

func (m Model) mouseInBounds(x, y int) bool {
	if m.viewport.Width <= 0 || m.viewport.Height <= 0 {
		return false
	}
	return x >= 0 && x < m.viewport.Width && y >= 0 && y < m.viewport.Height
}

func (m Model) clampMouseToBounds(x, y int) (int, int) {
	if m.viewport.Width > 0 {
		x = max(0, min(x, m.viewport.Width-1))
	}
	if m.viewport.Height > 0 {
		y = max(0, min(y, m.viewport.Height-1))
	}
	return x, y
}
