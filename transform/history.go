package transform

// DefaultHistoryLimit bounds the undo stack when no limit is given.
const DefaultHistoryLimit = 1000

// History is a bounded undo/redo stack of States. It is a value: every
// method returns the updated history and never modifies the receiver's
// backing arrays, so an editor state holding a History stays immutable.
type History struct {
	limit int
	undo  []State
	redo  []State
}

// NewHistory returns a history keeping at most limit undo entries. Zero
// selects DefaultHistoryLimit; a negative limit disables recording.
func NewHistory(limit int) History {
	if limit == 0 {
		limit = DefaultHistoryLimit
	}
	return History{limit: limit}
}

func (h History) CanUndo() bool { return len(h.undo) > 0 }

func (h History) CanRedo() bool { return len(h.redo) > 0 }

// Record pushes prev, the state before an undoable change, and clears the
// redo stack.
func (h History) Record(prev State) History {
	if h.limit <= 0 {
		return h
	}
	h.undo = push(h.undo, prev, h.limit)
	h.redo = nil
	return h
}

// Undo returns the state before the last recorded change. cur becomes the
// redo entry.
func (h History) Undo(cur State) (History, State, bool) {
	if len(h.undo) == 0 {
		return h, cur, false
	}
	i := len(h.undo) - 1
	prev := h.undo[i]
	h.undo = h.undo[:i:i]
	h.redo = push(h.redo, cur, 0)
	return h, restore(prev, cur), true
}

// Redo reapplies the last undone change.
func (h History) Redo(cur State) (History, State, bool) {
	if len(h.redo) == 0 {
		return h, cur, false
	}
	i := len(h.redo) - 1
	next := h.redo[i]
	h.redo = h.redo[:i:i]
	if h.limit > 0 {
		h.undo = push(h.undo, cur, h.limit)
	}
	return h, restore(next, cur), true
}

// push appends s to a copy of stack, keeping at most limit entries when
// limit is positive.
func push(stack []State, s State, limit int) []State {
	out := make([]State, 0, len(stack)+1)
	out = append(out, stack...)
	out = append(out, s)
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// restore returns snapshot with the focus state of cur and no pending marks.
func restore(snapshot, cur State) State {
	sel := snapshot.Selection.Normalize(snapshot.Document)
	sel.IsBlurred = cur.Selection.IsBlurred
	return State{Document: snapshot.Document, Selection: sel}
}
