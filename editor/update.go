package editor

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/inkwell/document"
	"github.com/iw2rmb/inkwell/spellcheck"
	"github.com/iw2rmb/inkwell/transform"
)

// Node and mark types produced by editor commands.
const (
	HeadingType = "heading-one"
	LinkType    = "link"

	MarkBold       = "bold"
	MarkItalic     = "italic"
	MarkUnderlined = "underlined"
	MarkCode       = "code"
)

// SaveMsg is emitted by the save binding. The document carries no check
// bookkeeping.
type SaveMsg struct {
	Document *document.Document
}

func (m Model) updateKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	// Paste events should always insert literal text and never trigger shortcuts.
	if msg.Type == tea.KeyRunes && msg.Paste && len(msg.Runes) > 0 {
		if m.cfg.ReadOnly {
			return m, nil
		}
		return m.apply(m.change().InsertText(normalizeNewlines(string(msg.Runes))), true)
	}

	km := m.cfg.KeyMap
	if !key.Matches(msg, km.Up, km.Down) {
		m.goalX = -1
	}
	sel := m.state.Value.Selection

	switch {
	case key.Matches(msg, km.Left):
		if sel.IsExpanded() {
			return m.apply(m.change().CollapseToStart(), false)
		}
		return m.apply(m.change().Move(-1), false)
	case key.Matches(msg, km.Right):
		if sel.IsExpanded() {
			return m.apply(m.change().CollapseToEnd(), false)
		}
		return m.apply(m.change().Move(1), false)
	case key.Matches(msg, km.Up):
		return m.moveLine(-1)
	case key.Matches(msg, km.Down):
		return m.moveLine(1)

	case key.Matches(msg, km.ShiftLeft):
		return m.apply(m.change().Extend(-1), false)
	case key.Matches(msg, km.ShiftRight):
		return m.apply(m.change().Extend(1), false)

	case key.Matches(msg, km.Home, km.End):
		p, ok := m.lineEdge(key.Matches(msg, km.End))
		if !ok {
			return m, nil
		}
		return m.apply(m.change().Select(document.Collapsed(p)), false)

	case key.Matches(msg, km.Undo):
		return m.undo()
	case key.Matches(msg, km.Redo):
		return m.redo()

	case key.Matches(msg, km.Copy):
		m.copySelection()
		return m, nil
	case key.Matches(msg, km.Save):
		return m, m.saveCmd()
	}

	if m.cfg.ReadOnly {
		if key.Matches(msg, km.Cut) {
			m.copySelection()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, km.Backspace):
		return m.apply(m.change().DeleteBackward(), true)
	case key.Matches(msg, km.Delete):
		return m.apply(m.change().DeleteForward(), true)
	case key.Matches(msg, km.Enter):
		return m.apply(m.change().SplitBlock(), true)

	case key.Matches(msg, km.Bold):
		return m.apply(m.change().ToggleMark(MarkBold), true)
	case key.Matches(msg, km.Italic):
		return m.apply(m.change().ToggleMark(MarkItalic), true)
	case key.Matches(msg, km.Underlined):
		return m.apply(m.change().ToggleMark(MarkUnderlined), true)
	case key.Matches(msg, km.Code):
		return m.apply(m.change().ToggleMark(MarkCode), true)
	case key.Matches(msg, km.Heading):
		typ := HeadingType
		if m.inBlock(HeadingType) {
			typ = transform.DefaultBlockType
		}
		return m.apply(m.change().SetBlock(typ), true)
	case key.Matches(msg, km.Link):
		return m.toggleLink()

	case key.Matches(msg, km.Accept):
		if m.state.Displayed != nil {
			return m.acceptSuggestion()
		}
		return m.apply(m.change().InsertText("\t"), true)
	case key.Matches(msg, km.Ignore):
		return m.ignoreSuggestion()

	case key.Matches(msg, km.Cut):
		m.copySelection()
		return m.apply(m.change().Delete(), true)
	case key.Matches(msg, km.Paste):
		return m.pasteClipboard()
	}

	if msg.Type == tea.KeyRunes && len(msg.Runes) > 0 && !msg.Alt {
		return m.apply(m.change().InsertText(string(msg.Runes)), true)
	}
	if msg.Type == tea.KeySpace {
		return m.apply(m.change().InsertText(" "), true)
	}
	return m, nil
}

// moveLine moves the cursor dy rows, keeping the column it started from
// across consecutive vertical moves.
func (m Model) moveLine(dy int) (Model, tea.Cmd) {
	p, x, ok := m.lineTarget(m.goalX, dy)
	if !ok {
		return m, nil
	}
	m, cmd := m.apply(m.change().Select(document.Collapsed(p)), false)
	m.goalX = x
	return m, cmd
}

func (m Model) inBlock(typ string) bool {
	b, ok := m.state.Value.Document.ClosestBlock(m.state.Value.Selection.Focus().Key)
	return ok && b.Type() == typ
}

func (m Model) inLink() bool {
	for _, anc := range m.state.Value.Document.Ancestors(m.state.Value.Selection.Focus().Key) {
		if anc.IsInline() && anc.Type() == LinkType {
			return true
		}
	}
	return false
}

// toggleLink unwraps the link under the cursor or wraps the selection in a
// new link whose href is the selected text.
func (m Model) toggleLink() (Model, tea.Cmd) {
	if m.inLink() {
		return m.apply(m.change().UnwrapInline(LinkType).CollapseToEnd().Focus(), true)
	}
	sel := m.state.Value.Selection
	if !sel.IsExpanded() {
		return m, nil
	}
	href := selectedText(m.state.Value.Document, sel)
	c := m.change().WrapInline(LinkType, map[string]any{"href": href})
	return m.apply(c.CollapseToEnd().Focus(), true)
}

func (m Model) undo() (Model, tea.Cmd) {
	h, prev, ok := m.state.History.Undo(m.state.Value)
	if !ok {
		return m, nil
	}
	m.state.History = h
	return m.install(spellcheck.Untag(prev), false)
}

func (m Model) redo() (Model, tea.Cmd) {
	h, next, ok := m.state.History.Redo(m.state.Value)
	if !ok {
		return m, nil
	}
	m.state.History = h
	return m.install(spellcheck.Untag(next), false)
}

// acceptSuggestion replaces the displayed run with its first replacement.
func (m Model) acceptSuggestion() (Model, tea.Cmd) {
	d := m.state.Displayed
	if d == nil {
		return m, nil
	}
	repl := spellcheck.Replacements(*d)
	if len(repl) == 0 {
		return m, nil
	}
	m.state.Displayed = nil
	return m.install(spellcheck.Replace(m.state.Value, repl[0]), true)
}

// ignoreSuggestion flags the displayed run so later checks leave it alone.
func (m Model) ignoreSuggestion() (Model, tea.Cmd) {
	d := m.state.Displayed
	if d == nil {
		return m, nil
	}
	next, err := spellcheck.Ignore(m.state.Value, *d)
	m.state.Displayed = nil
	if err != nil {
		m.log.Debug("ignore suggestion", "err", err)
		return m.install(m.state.Value, false)
	}
	return m.install(next, true)
}

func (m Model) saveCmd() tea.Cmd {
	doc := spellcheck.Untag(m.state.Value).Document
	return func() tea.Msg { return SaveMsg{Document: doc} }
}

func (m Model) copySelection() {
	if m.cfg.Clipboard == nil {
		return
	}
	s := selectedText(m.state.Value.Document, m.state.Value.Selection)
	if s == "" {
		return
	}
	if err := m.cfg.Clipboard.WriteText(s); err != nil {
		m.log.Debug("clipboard write", "err", err)
	}
}

func (m Model) pasteClipboard() (Model, tea.Cmd) {
	s, ok := m.readClipboard()
	if !ok {
		return m, nil
	}
	return m.apply(m.change().InsertText(s), true)
}

func (m Model) readClipboard() (string, bool) {
	if m.cfg.Clipboard == nil {
		return "", false
	}
	s, err := m.cfg.Clipboard.ReadText()
	if err != nil {
		m.log.Debug("clipboard read", "err", err)
		return "", false
	}
	if s == "" {
		return "", false
	}
	return normalizeNewlines(s), true
}

// Normalize newlines from external sources.
func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// selectedText returns the plain text under sel with leaf blocks separated
// by newlines. Voids contribute nothing.
func selectedText(doc *document.Document, sel document.Selection) string {
	if !sel.IsSet() || sel.IsCollapsed() {
		return ""
	}
	start, end := sel.Start(), sel.End()
	i0, ok := doc.TextIndex(start.Key)
	if !ok {
		return ""
	}
	i1, ok := doc.TextIndex(end.Key)
	if !ok || i1 < i0 {
		return ""
	}

	var sb strings.Builder
	var block *document.Node
	for i, t := range doc.Texts()[i0 : i1+1] {
		b, _ := doc.ClosestBlock(t.Key())
		if block != nil && b != block {
			sb.WriteByte('\n')
		}
		block = b
		if _, void := doc.ClosestVoid(t.Key()); void {
			continue
		}
		chars := t.Characters()
		from, to := 0, len(chars)
		if i == 0 {
			from = min(start.Offset, to)
		}
		if i0+i == i1 {
			to = max(from, min(end.Offset, to))
		}
		for _, ch := range chars[from:to] {
			sb.WriteString(ch.Text)
		}
	}
	return sb.String()
}
