package editor

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/inkwell/document"
	"github.com/iw2rmb/inkwell/spellcheck"
	"github.com/iw2rmb/inkwell/transform"
)

type memClipboard struct {
	s string
}

func (c *memClipboard) ReadText() (string, error) { return c.s, nil }
func (c *memClipboard) WriteText(s string) error  { c.s = s; return nil }

func paragraphs(texts ...string) *document.Document {
	blocks := make([]*document.Node, len(texts))
	for i, s := range texts {
		blocks[i] = document.NewBlock(transform.DefaultBlockType, document.NewText(s))
	}
	return document.New(blocks...)
}

func keys(m Model, msgs ...tea.KeyMsg) Model {
	for _, msg := range msgs {
		m, _ = m.Update(msg)
	}
	return m
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	keyLeft       = tea.KeyMsg{Type: tea.KeyLeft}
	keyRight      = tea.KeyMsg{Type: tea.KeyRight}
	keyUp         = tea.KeyMsg{Type: tea.KeyUp}
	keyDown       = tea.KeyMsg{Type: tea.KeyDown}
	keyShiftRight = tea.KeyMsg{Type: tea.KeyShiftRight}
)

func focusOf(m Model) document.Point { return m.Value().Selection.Focus() }

// textAt returns the key of the i-th text in document order.
func textAt(m Model, i int) document.Point {
	return document.Point{Key: m.Value().Document.Texts()[i].Key()}
}

func TestUpdate_TypingMovementAndDelete(t *testing.T) {
	m := New(Config{Document: paragraphs("ab")})

	m = keys(m, keyRight, runes("X"))
	if got, want := m.Value().Document.PlainText(), "aXb"; got != want {
		t.Fatalf("text after insert: got %q, want %q", got, want)
	}
	if got, want := focusOf(m).Offset, 2; got != want {
		t.Fatalf("cursor after insert: got %d, want %d", got, want)
	}

	m = keys(m, tea.KeyMsg{Type: tea.KeyBackspace})
	if got, want := m.Value().Document.PlainText(), "ab"; got != want {
		t.Fatalf("text after backspace: got %q, want %q", got, want)
	}
	if got, want := focusOf(m).Offset, 1; got != want {
		t.Fatalf("cursor after backspace: got %d, want %d", got, want)
	}

	m = keys(m, tea.KeyMsg{Type: tea.KeyDelete})
	if got, want := m.Value().Document.PlainText(), "a"; got != want {
		t.Fatalf("text after delete: got %q, want %q", got, want)
	}
}

func TestUpdate_ReadOnly_IgnoresMutations(t *testing.T) {
	m := New(Config{Document: paragraphs("ab"), ReadOnly: true})

	m = keys(m, keyRight)
	if got, want := focusOf(m).Offset, 1; got != want {
		t.Fatalf("cursor after move: got %d, want %d", got, want)
	}

	m = keys(m, runes("X"), tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyEnter})
	if got, want := m.Value().Document.PlainText(), "ab"; got != want {
		t.Fatalf("text after edits in read-only: got %q, want %q", got, want)
	}
	if m.State().History.CanUndo() {
		t.Fatalf("read-only edits were recorded")
	}
}

func TestUpdate_Blurred_IgnoresKeys(t *testing.T) {
	m := New(Config{Document: paragraphs("ab")}).Blur()
	m = keys(m, runes("X"))
	if got, want := m.Value().Document.PlainText(), "ab"; got != want {
		t.Fatalf("text after typing while blurred: got %q, want %q", got, want)
	}
	if !m.Value().Selection.IsBlurred {
		t.Fatalf("selection not blurred")
	}

	m = m.Focus()
	if m.Value().Selection.IsBlurred {
		t.Fatalf("selection still blurred after focus")
	}
}

func TestUpdate_EnterSplitsBlock(t *testing.T) {
	m := New(Config{Document: paragraphs("ab")})
	m = keys(m, keyRight, tea.KeyMsg{Type: tea.KeyEnter})

	doc := m.Value().Document
	if got, want := doc.PlainText(), "a\nb"; got != want {
		t.Fatalf("text after enter: got %q, want %q", got, want)
	}
	if got, want := len(doc.LeafBlocks()), 2; got != want {
		t.Fatalf("blocks after enter: got %d, want %d", got, want)
	}
	if got, want := focusOf(m), textAt(m, 1); got != want {
		t.Fatalf("cursor after enter: got %v, want %v", got, want)
	}
}

func TestUpdate_UndoRedo(t *testing.T) {
	m := New(Config{Document: paragraphs("ab")})
	m = keys(m, keyRight, runes("X"), runes("Y"))

	m = keys(m, tea.KeyMsg{Type: tea.KeyCtrlZ})
	if got, want := m.Value().Document.PlainText(), "aXb"; got != want {
		t.Fatalf("text after undo: got %q, want %q", got, want)
	}
	m = keys(m, tea.KeyMsg{Type: tea.KeyCtrlZ})
	if got, want := m.Value().Document.PlainText(), "ab"; got != want {
		t.Fatalf("text after second undo: got %q, want %q", got, want)
	}
	m = keys(m, tea.KeyMsg{Type: tea.KeyCtrlY})
	if got, want := m.Value().Document.PlainText(), "aXb"; got != want {
		t.Fatalf("text after redo: got %q, want %q", got, want)
	}
}

func TestUpdate_ShiftExtendsAndLeftCollapses(t *testing.T) {
	m := New(Config{Document: paragraphs("abc")})
	m = keys(m, keyRight, keyShiftRight, keyShiftRight)

	sel := m.Value().Selection
	if got, want := sel.AnchorOffset, 1; got != want {
		t.Fatalf("anchor: got %d, want %d", got, want)
	}
	if got, want := sel.FocusOffset, 3; got != want {
		t.Fatalf("focus: got %d, want %d", got, want)
	}

	m = keys(m, keyLeft)
	if got, want := m.Value().Selection, document.Collapsed(document.Point{Key: sel.AnchorKey, Offset: 1}); got != want {
		t.Fatalf("selection after left: got %+v, want %+v", got, want)
	}
}

func TestUpdate_ToggleBoldOnSelection(t *testing.T) {
	m := New(Config{Document: paragraphs("abc")})
	m = keys(m, keyShiftRight, keyShiftRight, tea.KeyMsg{Type: tea.KeyCtrlB})

	chars := m.Value().Document.Texts()[0].Characters()
	for i, want := range []bool{true, true, false} {
		if got := chars[i].Marks.HasType(MarkBold); got != want {
			t.Fatalf("char %d bold: got %v, want %v", i, got, want)
		}
	}
}

func TestUpdate_ToggleBoldAppliesToNextInsert(t *testing.T) {
	m := New(Config{Document: paragraphs("ab")})
	m = keys(m, keyRight, tea.KeyMsg{Type: tea.KeyCtrlB}, runes("X"))

	ch, ok := m.Value().Document.Texts()[0].Character(1)
	if !ok {
		t.Fatalf("no character at 1")
	}
	if got, want := ch.Text, "X"; got != want {
		t.Fatalf("char 1: got %q, want %q", got, want)
	}
	if !ch.Marks.HasType(MarkBold) {
		t.Fatalf("inserted char not bold")
	}
}

func TestUpdate_HeadingToggles(t *testing.T) {
	m := New(Config{Document: paragraphs("ab")})
	ctrlT := tea.KeyMsg{Type: tea.KeyCtrlT}

	m = keys(m, ctrlT)
	if got, want := m.Value().Document.LeafBlocks()[0].Type(), HeadingType; got != want {
		t.Fatalf("block type: got %q, want %q", got, want)
	}
	m = keys(m, ctrlT)
	if got, want := m.Value().Document.LeafBlocks()[0].Type(), transform.DefaultBlockType; got != want {
		t.Fatalf("block type after second toggle: got %q, want %q", got, want)
	}
}

func TestUpdate_LinkWrapsSelection(t *testing.T) {
	m := New(Config{Document: paragraphs("ab")})
	m = keys(m, keyShiftRight, keyShiftRight, tea.KeyMsg{Type: tea.KeyCtrlL})

	var link *document.Node
	for _, n := range m.Value().Document.LeafBlocks()[0].Nodes() {
		if n.IsInline() && n.Type() == LinkType {
			link = n
		}
	}
	if link == nil {
		t.Fatalf("no link inline after wrap")
	}
	if got, _ := link.Data().Text("href"); got != "ab" {
		t.Fatalf("href: got %q, want %q", got, "ab")
	}
	if got, want := m.Value().Document.PlainText(), "ab"; got != want {
		t.Fatalf("text after wrap: got %q, want %q", got, want)
	}
	if !m.Value().Selection.IsCollapsed() {
		t.Fatalf("selection not collapsed after wrap")
	}
}

func TestUpdate_VerticalMovementKeepsColumn(t *testing.T) {
	m := New(Config{Document: paragraphs("abc", "d", "efg")})
	m = keys(m, keyRight, keyRight, keyRight)

	m = keys(m, keyDown)
	if got, want := focusOf(m), (document.Point{Key: textAt(m, 1).Key, Offset: 1}); got != want {
		t.Fatalf("after first down: got %v, want %v", got, want)
	}
	m = keys(m, keyDown)
	if got, want := focusOf(m), (document.Point{Key: textAt(m, 2).Key, Offset: 3}); got != want {
		t.Fatalf("after second down: got %v, want %v", got, want)
	}
	m = keys(m, keyDown)
	if got, want := focusOf(m), (document.Point{Key: textAt(m, 2).Key, Offset: 3}); got != want {
		t.Fatalf("down on last row: got %v, want %v", got, want)
	}
	m = keys(m, keyUp, keyUp)
	if got, want := focusOf(m), (document.Point{Key: textAt(m, 0).Key, Offset: 3}); got != want {
		t.Fatalf("after up: got %v, want %v", got, want)
	}
}

func TestUpdate_HomeEnd(t *testing.T) {
	m := New(Config{Document: paragraphs("abc")})
	m = keys(m, keyRight, tea.KeyMsg{Type: tea.KeyEnd})
	if got, want := focusOf(m).Offset, 3; got != want {
		t.Fatalf("after end: got %d, want %d", got, want)
	}
	m = keys(m, tea.KeyMsg{Type: tea.KeyHome})
	if got, want := focusOf(m).Offset, 0; got != want {
		t.Fatalf("after home: got %d, want %d", got, want)
	}
}

func TestUpdate_ClipboardCopyCutPaste(t *testing.T) {
	clip := &memClipboard{}
	m := New(Config{Document: paragraphs("abc"), Clipboard: clip})
	m = keys(m, keyShiftRight, keyShiftRight)

	m = keys(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if got, want := clip.s, "ab"; got != want {
		t.Fatalf("clipboard after copy: got %q, want %q", got, want)
	}

	m = keys(m, tea.KeyMsg{Type: tea.KeyCtrlX})
	if got, want := m.Value().Document.PlainText(), "c"; got != want {
		t.Fatalf("text after cut: got %q, want %q", got, want)
	}

	clip.s = "x\r\ny"
	m = keys(m, tea.KeyMsg{Type: tea.KeyCtrlV})
	if got, want := m.Value().Document.PlainText(), "x\nyc"; got != want {
		t.Fatalf("text after paste: got %q, want %q", got, want)
	}
}

func TestUpdate_PasteMsgInsertsLiterally(t *testing.T) {
	m := New(Config{Document: paragraphs("")})
	m = keys(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ctrl+b"), Paste: true})
	if got, want := m.Value().Document.PlainText(), "ctrl+b"; got != want {
		t.Fatalf("text after paste: got %q, want %q", got, want)
	}
}

func TestUpdate_SelectedTextAcrossBlocks(t *testing.T) {
	m := New(Config{Document: paragraphs("ab", "cd")})
	m = keys(m, keyRight, keyShiftRight, keyShiftRight, keyShiftRight)

	if got, want := selectedText(m.Value().Document, m.Value().Selection), "b\nc"; got != want {
		t.Fatalf("selected text: got %q, want %q", got, want)
	}
}

func TestUpdate_SaveEmitsDocument(t *testing.T) {
	m := New(Config{Document: paragraphs("ab")})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatalf("save returned no command")
	}
	msg, ok := cmd().(SaveMsg)
	if !ok {
		t.Fatalf("save command message: got %T, want SaveMsg", cmd())
	}
	if got, want := msg.Document.PlainText(), "ab"; got != want {
		t.Fatalf("saved text: got %q, want %q", got, want)
	}
}

func TestUndoRedo_DropOffsetTagsOfInflightCheck(t *testing.T) {
	m := New(Config{
		Document:  paragraphs(""),
		Checker:   spellcheck.NewDictionary("hello"),
		CheckWait: time.Millisecond,
	})
	m, cmd := m.Update(runes("ab"))
	for _, msg := range drain(cmd) {
		m, _ = m.Update(msg)
	}
	if !m.State().Inflight() {
		t.Fatalf("expected a check in flight")
	}
	if got, want := countMarks(m.Value(), spellcheck.TypeOffset), 2; got != want {
		t.Fatalf("offset tags before edit: got %d, want %d", got, want)
	}

	m = keys(m, runes("c"))
	m = keys(m, tea.KeyMsg{Type: tea.KeyCtrlZ})
	if got, want := m.Value().Document.PlainText(), "ab"; got != want {
		t.Fatalf("after undo: got %q, want %q", got, want)
	}
	if got := countMarks(m.Value(), spellcheck.TypeOffset); got != 0 {
		t.Fatalf("after undo: %d offset tags left", got)
	}

	m = keys(m, tea.KeyMsg{Type: tea.KeyCtrlY})
	if got, want := m.Value().Document.PlainText(), "abc"; got != want {
		t.Fatalf("after redo: got %q, want %q", got, want)
	}
	if got := countMarks(m.Value(), spellcheck.TypeOffset); got != 0 {
		t.Fatalf("after redo: %d offset tags left", got)
	}
}
