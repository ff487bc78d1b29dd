package transform

import (
	"github.com/iw2rmb/inkwell/document"
	"github.com/iw2rmb/inkwell/key"
)

// DefaultBlockType is the type given to blocks created by the editor itself,
// such as the paragraph inserted after a void block.
const DefaultBlockType = "paragraph"

// applier is the working state of one Apply call.
type applier struct {
	doc       *document.Document
	sel       document.Selection
	marks     document.MarkSet
	opt       options
	normalize bool

	// pending holds texts whose characters were edited by mark operations
	// and not yet written back to doc.
	pending map[key.Key][]document.Character
}

// updateCharacters replaces the characters of text k in [from, to) by fn's
// result. Consecutive mark operations share one copy per text; flush writes
// them back in a single tree rebuild. Characters fn leaves unchanged do not
// dirty the text.
func (a *applier) updateCharacters(k key.Key, from, to int, fn func(document.Character) (document.Character, bool)) {
	cs, owned := a.pending[k]
	if !owned {
		t, ok := a.doc.Text(k)
		if !ok {
			return
		}
		cs = t.Characters()
	}
	from = max(from, 0)
	to = min(to, len(cs))
	for i := from; i < to; i++ {
		c, changed := fn(cs[i])
		if !changed {
			continue
		}
		if !owned {
			cs = append([]document.Character(nil), cs...)
			owned = true
			if a.pending == nil {
				a.pending = make(map[key.Key][]document.Character)
			}
			a.pending[k] = cs
		}
		cs[i] = c
	}
}

func (a *applier) flush() {
	if len(a.pending) == 0 {
		return
	}
	a.doc = a.doc.ReplaceCharacters(a.pending)
	a.pending = nil
}

func (a *applier) collapse(p document.Point) {
	blurred := a.sel.IsBlurred
	a.sel = document.Collapsed(p)
	a.sel.IsBlurred = blurred
}

// leafBlock returns the leaf block holding text k and its index among the
// document's leaf blocks.
func (a *applier) leafBlock(k key.Key) (*document.Node, int, bool) {
	block, ok := a.doc.ClosestBlock(k)
	if !ok {
		return nil, 0, false
	}
	for i, b := range a.doc.LeafBlocks() {
		if b.Key() == block.Key() {
			return b, i, true
		}
	}
	return nil, 0, false
}

// inVoid reports whether text k is the anchor of a void node.
func (a *applier) inVoid(k key.Key) bool {
	_, ok := a.doc.ClosestVoid(k)
	return ok
}

// blockOffset returns p as a character offset from the start of its leaf
// block.
func (a *applier) blockOffset(p document.Point) (*document.Node, int, int, bool) {
	block, idx, ok := a.leafBlock(p.Key)
	if !ok {
		return nil, 0, 0, false
	}
	acc := 0
	for _, t := range block.Texts() {
		if t.Key() == p.Key {
			return block, idx, acc + clamp(p.Offset, 0, t.Len()), true
		}
		acc += t.Len()
	}
	return block, idx, acc, true
}

// pointAt maps a block offset back to a point. At a boundary between two
// texts the earlier text wins; void anchors are never chosen unless the
// block itself is void.
func (a *applier) pointAt(block *document.Node, off int) document.Point {
	texts := block.Texts()
	if block.IsVoid() {
		return document.Point{Key: texts[0].Key()}
	}
	acc := 0
	var last *document.Node
	for _, t := range texts {
		if a.inVoid(t.Key()) {
			continue
		}
		if off <= acc+t.Len() {
			return document.Point{Key: t.Key(), Offset: off - acc}
		}
		acc += t.Len()
		last = t
	}
	if last == nil {
		return document.Point{Key: texts[0].Key()}
	}
	return document.Point{Key: last.Key(), Offset: last.Len()}
}

// insertMarks returns the marks inserted text at p carries: the pending
// marks when set, otherwise those of the preceding character minus
// transient types.
func (a *applier) insertMarks(p document.Point) document.MarkSet {
	if a.marks != nil {
		return a.marks
	}
	text, ok := a.doc.Text(p.Key)
	if !ok {
		return nil
	}
	at := p.Offset - 1
	if at < 0 {
		at = 0
	}
	c, ok := text.Character(at)
	if !ok {
		return nil
	}
	return c.Marks.Without(a.opt.transient...)
}

// replaceChars replaces characters [from, to) of text k with ins.
func (a *applier) replaceChars(k key.Key, from, to int, ins []document.Character) {
	text, ok := a.doc.Text(k)
	if !ok {
		return
	}
	chars := text.Characters()
	from = clamp(from, 0, len(chars))
	to = clamp(to, from, len(chars))
	if from == to && len(ins) == 0 {
		return
	}
	next := make([]document.Character, 0, len(chars)-(to-from)+len(ins))
	next = append(next, chars[:from]...)
	next = append(next, ins...)
	next = append(next, chars[to:]...)
	a.doc = a.doc.ReplaceNode(text.WithCharacters(next))
}

// remove drops the node keyed k and every ancestor it leaves empty. A
// document left without blocks gets an empty default block.
func (a *applier) remove(k key.Key) {
	for {
		parent, ok := a.doc.Parent(k)
		if !ok {
			return
		}
		a.doc = a.doc.RemoveNode(k)
		if parent.Key() == a.doc.Key() || len(parent.Nodes()) > 1 {
			break
		}
		k = parent.Key()
	}
	if len(a.doc.Nodes()) == 0 {
		a.doc = a.doc.InsertNodes(a.doc.Key(), 0, document.NewBlock(DefaultBlockType))
	}
}

// remapPoints rewrites anchor and focus through fn.
func (a *applier) remapPoints(fn func(document.Point) (document.Point, bool)) {
	if p, ok := fn(a.sel.Anchor()); ok {
		a.sel.AnchorKey, a.sel.AnchorOffset = p.Key, p.Offset
	}
	if p, ok := fn(a.sel.Focus()); ok {
		a.sel.FocusKey, a.sel.FocusOffset = p.Key, p.Offset
	}
}

// normalizeInlines enforces the inline structure rule: non-void inlines
// without content are removed, every inline has a text on each side and
// adjacent texts are joined. Selection points follow the texts they were on.
func (a *applier) normalizeInlines() {
	for {
		empty := a.findEmptyInline()
		if empty == nil {
			break
		}
		a.dropInline(empty)
	}
	for _, b := range a.doc.Nodes() {
		if fixed := a.fix(b); fixed != b {
			a.doc = a.doc.ReplaceNode(fixed)
		}
	}
}

func (a *applier) findEmptyInline() *document.Node {
	var found *document.Node
	var visit func(n *document.Node)
	visit = func(n *document.Node) {
		for _, c := range n.Nodes() {
			if found != nil {
				return
			}
			if c.IsInline() && !c.IsVoid() && c.Len() == 0 && !hasVoid(c) {
				found = c
				return
			}
			if !c.IsVoid() {
				visit(c)
			}
		}
	}
	visit(a.doc.Root())
	return found
}

func hasVoid(n *document.Node) bool {
	for _, c := range n.Nodes() {
		if c.IsVoid() || hasVoid(c) {
			return true
		}
	}
	return false
}

func (a *applier) dropInline(n *document.Node) {
	var target document.Point
	found := false
	if prev, ok := a.doc.PreviousSibling(n.Key()); ok && prev.IsText() {
		target, found = document.Point{Key: prev.Key(), Offset: prev.Len()}, true
	} else if next, ok := a.doc.NextSibling(n.Key()); ok && next.IsText() {
		target, found = document.Point{Key: next.Key()}, true
	}
	inside := make(map[key.Key]bool)
	for _, t := range n.Texts() {
		inside[t.Key()] = true
	}
	if found {
		a.remapPoints(func(p document.Point) (document.Point, bool) {
			return target, inside[p.Key]
		})
	}
	parent, _ := a.doc.Parent(n.Key())
	a.doc = a.doc.RemoveNode(n.Key())
	if len(parent.Nodes()) == 1 {
		empty := document.NewText("")
		a.doc = a.doc.InsertNodes(parent.Key(), 0, empty)
		if !found {
			target = document.Point{Key: empty.Key()}
			a.remapPoints(func(p document.Point) (document.Point, bool) {
				return target, inside[p.Key]
			})
		}
	}
}

// fix returns n with its inline content normalized, or n itself when
// nothing changed.
func (a *applier) fix(n *document.Node) *document.Node {
	if n.IsText() || n.IsVoid() {
		return n
	}
	changed := false
	kids := make([]*document.Node, 0, len(n.Nodes()))
	hasBlock := false
	for _, c := range n.Nodes() {
		fc := a.fix(c)
		if fc != c {
			changed = true
		}
		if fc.IsBlock() {
			hasBlock = true
		}
		kids = append(kids, fc)
	}
	if !hasBlock {
		out := make([]*document.Node, 0, len(kids)+2)
		for _, c := range kids {
			last := len(out) - 1
			switch {
			case c.IsInline():
				if last < 0 || !out[last].IsText() {
					out = append(out, document.NewText(""))
					changed = true
				}
				out = append(out, c)
			case c.IsText() && last >= 0 && out[last].IsText():
				out[last] = a.join(out[last], c)
				changed = true
			default:
				out = append(out, c)
			}
		}
		if len(out) > 0 && out[len(out)-1].IsInline() {
			out = append(out, document.NewText(""))
			changed = true
		}
		kids = out
	}
	if !changed {
		return n
	}
	return n.WithNodes(kids)
}

// join appends next's characters to prev, keeping prev's key.
func (a *applier) join(prev, next *document.Node) *document.Node {
	shift := prev.Len()
	a.remapPoints(func(p document.Point) (document.Point, bool) {
		if p.Key != next.Key() {
			return p, false
		}
		return document.Point{Key: prev.Key(), Offset: shift + p.Offset}, true
	})
	chars := append(append([]document.Character(nil), prev.Characters()...), next.Characters()...)
	return prev.WithCharacters(chars)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
