package transform

import (
	"github.com/iw2rmb/inkwell/document"
	"github.com/iw2rmb/inkwell/key"
)

// Operation is one recorded primitive. The set of operations is closed.
type Operation interface {
	Name() string
	apply(a *applier)
}

type (
	// AddMarkOp adds Mark to Length characters starting at Offset.
	AddMarkOp struct {
		Key    key.Key
		Offset int
		Length int
		Mark   document.Mark
	}
	// RemoveMarkOp removes the first mark equal to Mark from Length
	// characters starting at Offset.
	RemoveMarkOp struct {
		Key    key.Key
		Offset int
		Length int
		Mark   document.Mark
	}
	ToggleMarkOp struct{ Type string }
	SetBlockOp   struct{ Type string }
	WrapInlineOp struct {
		Type string
		Data document.Data
	}
	UnwrapInlineOp    struct{ Type string }
	DeleteOp          struct{}
	DeleteBackwardOp  struct{}
	DeleteForwardOp   struct{}
	InsertTextOp      struct{ Text string }
	SplitBlockOp      struct{}
	SelectOp          struct{ Selection document.Selection }
	CollapseToEndOp   struct{}
	CollapseToStartOp struct{}
	MoveOffsetsToOp   struct{ Anchor, Focus int }
	MoveOp            struct{ N int }
	ExtendOp          struct{ N int }
	FocusOp           struct{}
	BlurOp            struct{}
)

func (AddMarkOp) Name() string         { return "add_mark" }
func (RemoveMarkOp) Name() string      { return "remove_mark" }
func (ToggleMarkOp) Name() string      { return "toggle_mark" }
func (SetBlockOp) Name() string        { return "set_block" }
func (WrapInlineOp) Name() string      { return "wrap_inline" }
func (UnwrapInlineOp) Name() string    { return "unwrap_inline" }
func (DeleteOp) Name() string          { return "delete" }
func (DeleteBackwardOp) Name() string  { return "delete_backward" }
func (DeleteForwardOp) Name() string   { return "delete_forward" }
func (InsertTextOp) Name() string      { return "insert_text" }
func (SplitBlockOp) Name() string      { return "split_block" }
func (SelectOp) Name() string          { return "select" }
func (CollapseToEndOp) Name() string   { return "collapse_to_end" }
func (CollapseToStartOp) Name() string { return "collapse_to_start" }
func (MoveOffsetsToOp) Name() string   { return "move_offsets_to" }
func (MoveOp) Name() string            { return "move" }
func (ExtendOp) Name() string          { return "extend" }
func (FocusOp) Name() string           { return "focus" }
func (BlurOp) Name() string            { return "blur" }

func (op AddMarkOp) apply(a *applier) {
	a.updateCharacters(op.Key, op.Offset, op.Offset+op.Length, func(c document.Character) (document.Character, bool) {
		return c.WithMarks(c.Marks.Add(op.Mark)), true
	})
}

func (op RemoveMarkOp) apply(a *applier) {
	a.updateCharacters(op.Key, op.Offset, op.Offset+op.Length, func(c document.Character) (document.Character, bool) {
		marks, ok := c.Marks.Remove(op.Mark)
		if !ok {
			return c, false
		}
		return c.WithMarks(marks), true
	})
}

func (op ToggleMarkOp) apply(a *applier)   { a.toggleMark(op.Type) }
func (op SetBlockOp) apply(a *applier)     { a.setBlock(op.Type) }
func (op WrapInlineOp) apply(a *applier)   { a.wrapInline(op.Type, op.Data) }
func (op UnwrapInlineOp) apply(a *applier) { a.unwrapInline(op.Type) }
func (DeleteOp) apply(a *applier)          { a.deleteSelection() }
func (DeleteBackwardOp) apply(a *applier)  { a.deleteBackward() }
func (DeleteForwardOp) apply(a *applier)   { a.deleteForward() }
func (op InsertTextOp) apply(a *applier)   { a.insertText(op.Text) }
func (SplitBlockOp) apply(a *applier)      { a.splitBlock() }

func (op SelectOp) apply(a *applier) {
	a.sel = op.Selection
	a.marks = nil
}

func (CollapseToEndOp) apply(a *applier) {
	a.sel = a.sel.CollapseToEnd()
	a.marks = nil
}

func (CollapseToStartOp) apply(a *applier) {
	a.sel = a.sel.CollapseToStart()
	a.marks = nil
}

func (op MoveOffsetsToOp) apply(a *applier) {
	a.sel = a.sel.MoveOffsetsTo(op.Anchor, op.Focus)
	if a.sel.AnchorKey == a.sel.FocusKey {
		a.sel.IsBackward = op.Focus < op.Anchor
	}
	a.marks = nil
}

func (op MoveOp) apply(a *applier) { a.move(op.N) }

func (op ExtendOp) apply(a *applier) { a.extend(op.N) }

func (FocusOp) apply(a *applier) {
	if a.normalize {
		a.sel.IsBlurred = false
	}
}

func (BlurOp) apply(a *applier) { a.sel.IsBlurred = true }
