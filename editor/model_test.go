package editor

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/iw2rmb/inkwell/document"
	"github.com/iw2rmb/inkwell/spellcheck"
)

func viewLines(m Model) []string {
	got := strings.Split(m.View(), "\n")
	for i := range got {
		got[i] = strings.TrimRight(ansi.Strip(got[i]), " ")
	}
	return got
}

// drain runs cmd and returns the messages it produced, flattening batches.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// settle feeds the messages of cmd back into m until no command is left.
func settle(m Model, cmd tea.Cmd) Model {
	queue := drain(cmd)
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]
		var next tea.Cmd
		m, next = m.Update(msg)
		queue = append(queue, drain(next)...)
	}
	return m
}

func TestModel_SetSizeAffectsViewHeight(t *testing.T) {
	m := New(Config{Document: paragraphs("a", "b", "c")})
	m = m.Blur()

	m = m.SetSize(20, 2)
	if got := lipgloss.Height(m.View()); got != 2 {
		t.Fatalf("height after SetSize(20,2): got %d, want %d", got, 2)
	}

	m = m.SetSize(20, 4)
	if got := lipgloss.Height(m.View()); got != 4 {
		t.Fatalf("height after SetSize(20,4): got %d, want %d", got, 4)
	}
}

func TestView_SnapshotFixedSize(t *testing.T) {
	m := New(Config{Document: paragraphs("one", "two", "three", "four", "five")})
	m = m.Blur()
	m = m.SetSize(8, 3)

	got := viewLines(m)
	want := []string{"one", "two", "three"}
	if fmt.Sprintf("%q", got) != fmt.Sprintf("%q", want) {
		t.Fatalf("unexpected view:\n got: %q\nwant: %q", got, want)
	}
}

func TestView_FollowsCursor(t *testing.T) {
	m := New(Config{Document: paragraphs("one", "two", "three", "four")})
	m = m.SetSize(8, 2)
	m = keys(m, keyDown, keyDown, keyDown)

	got := viewLines(m)
	want := []string{"three", "four"}
	if fmt.Sprintf("%q", got) != fmt.Sprintf("%q", want) {
		t.Fatalf("unexpected view:\n got: %q\nwant: %q", got, want)
	}
}

func TestMouse_ClickAndDragSelect(t *testing.T) {
	m := New(Config{Document: paragraphs("ab", "cd")})
	m = m.SetSize(10, 3)

	m, _ = m.Update(tea.MouseMsg{X: 1, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if got, want := focusOf(m), (document.Point{Key: textAt(m, 1).Key, Offset: 1}); got != want {
		t.Fatalf("cursor after click: got %v, want %v", got, want)
	}

	m, _ = m.Update(tea.MouseMsg{X: 2, Y: 0, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	sel := m.Value().Selection
	if got, want := sel.Anchor(), (document.Point{Key: textAt(m, 1).Key, Offset: 1}); got != want {
		t.Fatalf("anchor after drag: got %v, want %v", got, want)
	}
	if got, want := sel.Focus(), (document.Point{Key: textAt(m, 0).Key, Offset: 2}); got != want {
		t.Fatalf("focus after drag: got %v, want %v", got, want)
	}
	if !sel.IsBackward {
		t.Fatalf("upward drag not backward")
	}

	m, _ = m.Update(tea.MouseMsg{X: 2, Y: 0, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	m, _ = m.Update(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone})
	if got, want := m.Value().Selection.Focus().Offset, 2; got != want {
		t.Fatalf("motion after release moved focus: got %d, want %d", got, want)
	}
}

func TestMouse_ShiftClickExtends(t *testing.T) {
	m := New(Config{Document: paragraphs("abcd")})
	m = m.SetSize(10, 1)
	m = keys(m, keyRight)

	m, _ = m.Update(tea.MouseMsg{X: 3, Y: 0, Shift: true, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if got, want := selectedText(m.Value().Document, m.Value().Selection), "bc"; got != want {
		t.Fatalf("selected text: got %q, want %q", got, want)
	}
}

func TestMouse_MiddleClickPastesAtPointer(t *testing.T) {
	clip := &memClipboard{s: "X"}
	m := New(Config{Document: paragraphs("ab", "cd"), Clipboard: clip})
	m = m.SetSize(10, 2)

	m, _ = m.Update(tea.MouseMsg{X: 1, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonMiddle})
	if got, want := m.Value().Document.PlainText(), "ab\ncXd"; got != want {
		t.Fatalf("text after middle click: got %q, want %q", got, want)
	}
}

func TestMouse_OutOfBoundsIgnored(t *testing.T) {
	m := New(Config{Document: paragraphs("ab")})
	m = m.SetSize(10, 1)

	m, _ = m.Update(tea.MouseMsg{X: 1, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if got, want := focusOf(m).Offset, 0; got != want {
		t.Fatalf("cursor after out-of-bounds click: got %d, want %d", got, want)
	}
}

func spellModel(t *testing.T) Model {
	t.Helper()
	m := New(Config{
		Document:  paragraphs(""),
		Checker:   spellcheck.NewDictionary("hello", "world"),
		CheckWait: time.Millisecond,
	})
	m = m.SetSize(60, 2)

	m, cmd := m.Update(runes("helo world"))
	m = settle(m, cmd)
	if got, want := countMarks(m.Value(), spellcheck.TypeSpelling), 4; got != want {
		t.Fatalf("spelling marks after check: got %d, want %d", got, want)
	}
	if m.State().Inflight() {
		t.Fatalf("check still in flight")
	}

	// Put the cursor inside "helo".
	m = keys(m, tea.KeyMsg{Type: tea.KeyHome}, keyRight)
	if m.State().Displayed == nil {
		t.Fatalf("no suggestion displayed with the cursor on a misspelling")
	}
	return m
}

func TestSpellcheck_SuggestionBox(t *testing.T) {
	m := spellModel(t)

	view := ansi.Strip(m.View())
	for _, want := range []string{`Possible spelling mistake found: "helo"`, "hello", "tab accept suggestion"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
	if got, want := selectedText(m.Value().Document, m.Value().Selection), "helo"; got != want {
		t.Fatalf("selected run: got %q, want %q", got, want)
	}
}

func TestSpellcheck_SuggestionBoxOverlaysBelowRun(t *testing.T) {
	m := spellModel(t).SetSize(60, 10)

	if got, want := lipgloss.Height(m.View()), 10; got != want {
		t.Fatalf("view height: got %d, want %d", got, want)
	}
	lines := viewLines(m)
	if got, want := lines[0], "helo world"; got != want {
		t.Fatalf("row 0: got %q, want %q", got, want)
	}
	if !strings.HasPrefix(lines[1], "┌") {
		t.Fatalf("box border not under the run: %q", lines[1])
	}
	if !strings.Contains(lines[2], `Possible spelling mistake found: "helo"`) {
		t.Fatalf("row 2 missing message: %q", lines[2])
	}
}

func TestSpellcheck_AcceptReplaces(t *testing.T) {
	m := spellModel(t)
	m = keys(m, tea.KeyMsg{Type: tea.KeyTab})

	if got, want := m.Value().Document.PlainText(), "hello world"; got != want {
		t.Fatalf("text after accept: got %q, want %q", got, want)
	}
	if m.State().Displayed != nil {
		t.Fatalf("suggestion still displayed after accept")
	}
	if got, want := focusOf(m).Offset, 5; got != want {
		t.Fatalf("cursor after accept: got %d, want %d", got, want)
	}
	if got := countMarks(m.Value(), spellcheck.TypeSpelling); got != 0 {
		t.Fatalf("spelling marks after accept: got %d, want 0", got)
	}

	m = keys(m, tea.KeyMsg{Type: tea.KeyCtrlZ})
	if got, want := m.Value().Document.PlainText(), "helo world"; got != want {
		t.Fatalf("text after undo: got %q, want %q", got, want)
	}
}

func TestSpellcheck_IgnoreHidesDecoration(t *testing.T) {
	m := spellModel(t)
	m = keys(m, tea.KeyMsg{Type: tea.KeyCtrlG})

	if m.State().Displayed != nil {
		t.Fatalf("suggestion still displayed after ignore")
	}
	ch, _ := m.Value().Document.Texts()[0].Character(0)
	mk, ok := ch.Marks.FirstOfType(spellcheck.TypeSpelling)
	if !ok {
		t.Fatalf("ignored decoration removed")
	}
	if !spellcheck.Ignored(mk) {
		t.Fatalf("decoration not flagged ignored")
	}
	if hiddenMark(mk) != true {
		t.Fatalf("ignored decoration still styled")
	}

	// Stepping back into the run does not display it again.
	m = keys(m, keyLeft)
	if m.State().Displayed != nil {
		t.Fatalf("ignored decoration displayed again")
	}
}

func TestSpellcheck_DeletingInsideRunRemovesIt(t *testing.T) {
	m := spellModel(t)
	m = keys(m, keyRight, tea.KeyMsg{Type: tea.KeyBackspace})

	if got, want := m.Value().Document.PlainText(), "hel world"; got != want {
		t.Fatalf("text after backspace: got %q, want %q", got, want)
	}
	if got := countMarks(m.Value(), spellcheck.TypeSpelling); got != 0 {
		t.Fatalf("spelling marks after breaking the run: got %d, want 0", got)
	}
}

func TestSpellcheck_TypingBeforeRunKeepsIt(t *testing.T) {
	m := spellModel(t)
	m = keys(m, keyLeft, runes("x"))

	if got, want := m.Value().Document.PlainText(), "xhelo world"; got != want {
		t.Fatalf("text after typing: got %q, want %q", got, want)
	}
	if got, want := countMarks(m.Value(), spellcheck.TypeSpelling), 4; got != want {
		t.Fatalf("spelling marks after typing before run: got %d, want %d", got, want)
	}
	if m.State().Displayed == nil {
		t.Fatalf("run under the cursor not displayed")
	}
}

func TestSpellcheck_NoCheckerNeverTags(t *testing.T) {
	m := New(Config{Document: paragraphs(""), CheckWait: time.Millisecond})
	m, cmd := m.Update(runes("helo"))
	if cmd != nil {
		t.Fatalf("edit without checker returned a command")
	}
	if got := countMarks(m.Value(), spellcheck.TypeOffset); got != 0 {
		t.Fatalf("offset tags without checker: %d", got)
	}
}

func TestMouse_WheelRespectsScrollPolicy(t *testing.T) {
	wheel := tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown}
	doc := paragraphs("a", "b", "c", "d", "e", "f")

	m := New(Config{Document: doc}).SetSize(10, 2)
	m, _ = m.Update(wheel)
	if m.viewport.YOffset == 0 {
		t.Fatalf("manual policy: expected wheel to scroll")
	}

	m = New(Config{Document: doc, ScrollPolicy: ScrollFollowCursorOnly}).SetSize(10, 2)
	m, _ = m.Update(wheel)
	if got, want := m.viewport.YOffset, 0; got != want {
		t.Fatalf("follow-cursor policy: YOffset got %d, want %d", got, want)
	}
}
