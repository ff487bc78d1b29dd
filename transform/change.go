package transform

import (
	"github.com/iw2rmb/inkwell/document"
	"github.com/iw2rmb/inkwell/key"
)

// Change is a mutable builder bound to one State. Builder methods record
// operations and return the receiver so calls can be chained; nothing is
// evaluated until Apply.
type Change struct {
	base State
	opt  options
	ops  []Operation
}

// New returns an empty change bound to s.
func New(s State, opts ...Option) *Change {
	c := &Change{base: s}
	for _, o := range opts {
		o(&c.opt)
	}
	return c
}

// Base returns the state the change is bound to.
func (c *Change) Base() State { return c.base }

// Ops returns a copy of the recorded operations in insertion order.
func (c *Change) Ops() []Operation { return append([]Operation(nil), c.ops...) }

// Changed reports whether any operation was recorded.
func (c *Change) Changed() bool { return len(c.ops) > 0 }

func (c *Change) record(op Operation) *Change {
	c.ops = append(c.ops, op)
	return c
}

func (c *Change) AddMarkByKey(k key.Key, offset, length int, m document.Mark) *Change {
	return c.record(AddMarkOp{Key: k, Offset: offset, Length: length, Mark: m})
}

func (c *Change) RemoveMarkByKey(k key.Key, offset, length int, m document.Mark) *Change {
	return c.record(RemoveMarkOp{Key: k, Offset: offset, Length: length, Mark: m})
}

// ToggleMark adds a mark of typ to every selected character, or removes it
// when all of them already carry one. On a collapsed selection it toggles
// the marks of the next insertion.
func (c *Change) ToggleMark(typ string) *Change { return c.record(ToggleMarkOp{Type: typ}) }

// SetBlock retypes every leaf block touched by the selection.
func (c *Change) SetBlock(typ string) *Change { return c.record(SetBlockOp{Type: typ}) }

// WrapInline wraps the selected content of each touched block in a new
// inline of typ carrying data. The selection ends up spanning the wrapped
// content.
func (c *Change) WrapInline(typ string, data map[string]any) *Change {
	return c.record(WrapInlineOp{Type: typ, Data: document.NewData(data)})
}

// UnwrapInline replaces every inline of typ touched by the selection with its
// children.
func (c *Change) UnwrapInline(typ string) *Change { return c.record(UnwrapInlineOp{Type: typ}) }

// Delete removes the selected content.
func (c *Change) Delete() *Change { return c.record(DeleteOp{}) }

func (c *Change) DeleteBackward() *Change { return c.record(DeleteBackwardOp{}) }

func (c *Change) DeleteForward() *Change { return c.record(DeleteForwardOp{}) }

// InsertText replaces the selection with text. Newlines split the block.
func (c *Change) InsertText(text string) *Change { return c.record(InsertTextOp{Text: text}) }

func (c *Change) SplitBlock() *Change { return c.record(SplitBlockOp{}) }

func (c *Change) Select(sel document.Selection) *Change { return c.record(SelectOp{Selection: sel}) }

func (c *Change) CollapseToEnd() *Change { return c.record(CollapseToEndOp{}) }

func (c *Change) CollapseToStart() *Change { return c.record(CollapseToStartOp{}) }

// MoveOffsetsTo keeps the selection keys and replaces both offsets.
func (c *Change) MoveOffsetsTo(anchor, focus int) *Change {
	return c.record(MoveOffsetsToOp{Anchor: anchor, Focus: focus})
}

// Move collapses the selection onto its focus moved by n characters. Block
// boundaries count as one character.
func (c *Change) Move(n int) *Change { return c.record(MoveOp{N: n}) }

// Extend moves the focus n characters, keeping the anchor.
func (c *Change) Extend(n int) *Change { return c.record(ExtendOp{N: n}) }

func (c *Change) Focus() *Change { return c.record(FocusOp{}) }

func (c *Change) Blur() *Change { return c.record(BlurOp{}) }

// Apply replays the recorded operations in order against the bound state
// and returns the resulting state.
//
// Semantics:
//   - The bound state is never modified; Apply may be called repeatedly.
//   - With normalize, the final selection is clamped into the resulting
//     document and Focus operations take effect.
//   - Without normalize, the selection is left exactly as the operations
//     set it. Bookkeeping passes that must not move the cursor use this.
func (c *Change) Apply(normalize bool) State {
	a := &applier{
		doc:       c.base.Document,
		sel:       c.base.Selection,
		marks:     c.base.Marks,
		opt:       c.opt,
		normalize: normalize,
	}
	for _, op := range c.ops {
		switch op.(type) {
		case AddMarkOp, RemoveMarkOp:
		default:
			a.flush()
		}
		op.apply(a)
	}
	a.flush()
	if normalize {
		a.sel = a.sel.Normalize(a.doc)
	}
	return State{Document: a.doc, Selection: a.sel, Marks: a.marks}
}
