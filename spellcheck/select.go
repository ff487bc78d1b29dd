package spellcheck

import (
	"errors"
	"fmt"

	"github.com/iw2rmb/inkwell/document"
	"github.com/iw2rmb/inkwell/internal/grapheme"
	"github.com/iw2rmb/inkwell/transform"
)

var (
	// ErrNoSuggestion is returned when the selection is not on a decoration.
	ErrNoSuggestion = errors.New("no spelling suggestion at selection")
	// ErrStaleSuggestion is returned when the displayed decoration no longer
	// covers the selected characters.
	ErrStaleSuggestion = errors.New("spelling suggestion no longer matches the text")
)

// SelectError decides which decoration, if any, to display for the current
// selection, given the one displayed now.
//
// Rules:
//   - blurred or backward selections, selections spanning texts, and a
//     collapsed cursor while a decoration is displayed close the display
//   - a collapsed cursor on an unignored decoration selects the whole run
//     and displays it
//   - an expanded selection keeps the display only when it covers exactly
//     one run
func SelectError(st transform.State, displayed *document.Mark) (transform.State, *document.Mark) {
	sel := st.Selection
	if !sel.IsSet() || sel.IsBlurred || sel.IsBackward || sel.AnchorKey != sel.FocusKey ||
		(displayed != nil && sel.IsCollapsed()) {
		return st, nil
	}
	text, ok := st.Document.Text(sel.AnchorKey)
	if !ok {
		return st, nil
	}
	ch, ok := text.Character(sel.AnchorOffset)
	if !ok {
		return st, nil
	}
	marks := ch.Marks.OfType(TypeSpelling)
	if len(marks) == 0 {
		return st, nil
	}

	length := sel.FocusOffset - sel.AnchorOffset
	if length == 0 {
		m := marks[0]
		if Ignored(m) {
			return st, displayed
		}
		pos, _ := m.Position()
		n, _ := m.Length()
		anchor := sel.AnchorOffset - pos
		next := transform.New(st).MoveOffsetsTo(anchor, anchor+n).Apply(false)
		return next, &m
	}
	for _, m := range marks {
		pos, _ := m.Position()
		n, _ := m.Length()
		if pos == 0 && n == length {
			return st, &m
		}
	}
	return st, nil
}

// Ignore marks the displayed decoration as ignored over the selected run and
// puts the cursor after it. Ignored decorations stay in the document but are
// neither shown nor stamped again.
func Ignore(st transform.State, displayed document.Mark) (transform.State, error) {
	k, base := st.Selection.AnchorKey, st.Selection.AnchorOffset
	text, ok := st.Document.Text(k)
	if !ok {
		return st, fmt.Errorf("ignore at %s: %w", k, ErrNoSuggestion)
	}
	pos, _ := displayed.Position()
	length, _ := displayed.Length()
	c := transform.New(st, Transient())
	for i := 0; i < length; i++ {
		ch, ok := text.Character(base + i)
		if !ok {
			return st, fmt.Errorf("ignore at %s:%d: %w", k, base+i, ErrStaleSuggestion)
		}
		var found *document.Mark
		for _, m := range ch.Marks {
			if document.Matches(displayed, m, document.Shift(i-pos)) {
				found = &m
				break
			}
		}
		if found == nil {
			return st, fmt.Errorf("ignore at %s:%d: %w", k, base+i, ErrStaleSuggestion)
		}
		c.RemoveMarkByKey(k, base+i, 1, *found)
		c.AddMarkByKey(k, base+i, 1, found.WithData(FieldIgnored, true))
	}
	c.Select(document.Collapsed(document.Point{Key: k, Offset: base + length}))
	return c.Apply(true), nil
}

// Replace replaces the selected run with value and puts the cursor after it.
func Replace(st transform.State, value string) transform.State {
	sel := st.Selection
	end := document.Point{Key: sel.AnchorKey, Offset: sel.AnchorOffset + grapheme.Count(value)}
	return transform.New(st, Transient()).
		Delete().
		InsertText(value).
		Select(document.Collapsed(end)).
		Apply(true)
}
