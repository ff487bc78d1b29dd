package transform

import (
	"github.com/iw2rmb/inkwell/document"
	"github.com/iw2rmb/inkwell/key"
)

// rangeBlocks returns the leaf blocks from the selection start to its end.
func (a *applier) rangeBlocks() []*document.Node {
	if !a.sel.IsSet() {
		return nil
	}
	_, si, ok := a.leafBlock(a.sel.Start().Key)
	if !ok {
		return nil
	}
	_, ei, ok := a.leafBlock(a.sel.End().Key)
	if !ok || ei < si {
		return nil
	}
	return append([]*document.Node(nil), a.doc.LeafBlocks()[si:ei+1]...)
}

// rangeTexts calls fn for every text overlapping the selection with the
// selected character span of that text.
func (a *applier) rangeTexts(fn func(text *document.Node, from, to int)) {
	start, end := a.sel.Start(), a.sel.End()
	i0, ok := a.doc.TextIndex(start.Key)
	if !ok {
		return
	}
	i1, ok := a.doc.TextIndex(end.Key)
	if !ok || i1 < i0 {
		return
	}
	for i, t := range a.doc.Texts()[i0 : i1+1] {
		from, to := 0, t.Len()
		if i == 0 {
			from = clamp(start.Offset, 0, t.Len())
		}
		if i0+i == i1 {
			to = clamp(end.Offset, from, t.Len())
		}
		fn(t, from, to)
	}
}

func (a *applier) toggleMark(typ string) {
	if !a.sel.IsSet() {
		return
	}
	if a.sel.IsCollapsed() {
		marks := a.insertMarks(a.sel.Focus())
		if marks.HasType(typ) {
			marks = marks.Without(typ)
		} else {
			marks = marks.Add(document.NewMark(typ, nil))
		}
		if marks == nil {
			marks = document.MarkSet{}
		}
		a.marks = marks
		return
	}

	type span struct {
		k        key.Key
		from, to int
	}
	var spans []span
	all := true
	a.rangeTexts(func(t *document.Node, from, to int) {
		spans = append(spans, span{k: t.Key(), from: from, to: to})
		for _, c := range t.Characters()[from:to] {
			if !c.Marks.HasType(typ) {
				all = false
			}
		}
	})
	mark := document.NewMark(typ, nil)
	for _, s := range spans {
		a.updateCharacters(s.k, s.from, s.to, func(c document.Character) (document.Character, bool) {
			if !all {
				if c.Marks.HasType(typ) {
					return c, false
				}
				return c.WithMarks(c.Marks.Add(mark)), true
			}
			marks := c.Marks
			for _, m := range c.Marks.OfType(typ) {
				marks, _ = marks.Remove(m)
			}
			return c.WithMarks(marks), true
		})
	}
	a.flush()
}

func (a *applier) setBlock(typ string) {
	for _, b := range a.rangeBlocks() {
		if b.IsVoid() || b.Type() == typ {
			continue
		}
		a.doc = a.doc.ReplaceNode(b.WithType(typ))
	}
}

// wrapInline wraps the selected children of each touched leaf block in a
// new inline. Texts on the selection edges are split first.
func (a *applier) wrapInline(typ string, data document.Data) {
	if !a.sel.IsSet() || a.sel.IsCollapsed() {
		return
	}
	start, end := a.sel.Start(), a.sel.End()
	blocks := a.rangeBlocks()
	var first, last *document.Node
	for i, b := range blocks {
		if b.IsVoid() {
			continue
		}
		var lead, mid, tail []*document.Node
		mid = b.Nodes()
		if i == len(blocks)-1 {
			mid, tail = splitChildren(b, mid, end)
		}
		if i == 0 {
			lead, mid = splitChildren(b, mid, start)
		}
		if len(mid) == 0 || (sumLen(mid) == 0 && !anyVoid(mid)) {
			continue
		}
		inline := document.NewInline(typ, mid...)
		if len(data) > 0 {
			inline = inline.WithData(data)
		}
		nodes := make([]*document.Node, 0, len(lead)+len(tail)+1)
		nodes = append(nodes, lead...)
		nodes = append(nodes, inline)
		nodes = append(nodes, tail...)
		a.doc = a.doc.ReplaceNode(b.WithNodes(nodes))
		if first == nil {
			first = inline
		}
		last = inline
	}
	if first == nil {
		return
	}
	from, _ := first.FirstText()
	to, _ := last.LastText()
	s := document.Point{Key: from.Key()}
	e := document.Point{Key: to.Key(), Offset: to.Len()}
	if a.sel.IsBackward {
		a.sel.AnchorKey, a.sel.AnchorOffset = e.Key, e.Offset
		a.sel.FocusKey, a.sel.FocusOffset = s.Key, s.Offset
	} else {
		a.sel.AnchorKey, a.sel.AnchorOffset = s.Key, s.Offset
		a.sel.FocusKey, a.sel.FocusOffset = e.Key, e.Offset
	}
	a.normalizeInlines()
}

// splitChildren splits the children of block at p. Children are returned
// unchanged on the left when p is not among them.
func splitChildren(block *document.Node, children []*document.Node, p document.Point) ([]*document.Node, []*document.Node) {
	tmp := block.WithNodes(children)
	left, right := splitNode(tmp, p)
	if right == nil {
		return children, nil
	}
	return left.Nodes(), right.Nodes()
}

func sumLen(nodes []*document.Node) int {
	n := 0
	for _, c := range nodes {
		n += c.Len()
	}
	return n
}

func anyVoid(nodes []*document.Node) bool {
	for _, c := range nodes {
		if c.IsVoid() || hasVoid(c) {
			return true
		}
	}
	return false
}

// unwrapInline lifts the children of every inline of typ touched by the
// selection into the inline's parent.
func (a *applier) unwrapInline(typ string) {
	if !a.sel.IsSet() {
		return
	}
	seen := make(map[key.Key]bool)
	var targets []key.Key
	a.rangeTexts(func(t *document.Node, _, _ int) {
		for _, anc := range a.doc.Ancestors(t.Key()) {
			if anc.IsInline() && anc.Type() == typ && !seen[anc.Key()] {
				seen[anc.Key()] = true
				targets = append(targets, anc.Key())
			}
		}
	})
	if len(targets) == 0 {
		return
	}
	for _, k := range targets {
		n, ok := a.doc.GetDescendant(k)
		if !ok {
			continue
		}
		a.doc = a.doc.ReplaceWith(k, n.Nodes()...)
	}
	a.normalizeInlines()
}
