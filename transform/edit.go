package transform

import (
	"strings"

	"github.com/iw2rmb/inkwell/document"
	"github.com/iw2rmb/inkwell/internal/grapheme"
	"github.com/iw2rmb/inkwell/key"
)

// insertText replaces the selection with s. Each newline splits the block.
func (a *applier) insertText(s string) {
	if !a.sel.IsSet() {
		return
	}
	if a.sel.IsExpanded() {
		a.deleteSelection()
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			a.splitBlock()
		}
		a.insertLine(line)
	}
}

func (a *applier) insertLine(line string) {
	if line == "" {
		return
	}
	p, ok := a.editablePoint(a.sel.Focus())
	if !ok {
		return
	}
	marks := a.insertMarks(p)
	clusters := grapheme.Split(line)
	chars := make([]document.Character, len(clusters))
	for i, c := range clusters {
		chars[i] = document.Character{Text: c, Marks: marks}
	}
	a.replaceChars(p.Key, p.Offset, p.Offset, chars)
	a.collapse(document.Point{Key: p.Key, Offset: p.Offset + len(chars)})
}

// editablePoint moves p out of a void node: past an inline void onto the
// following text, or into a new default block after a block void.
func (a *applier) editablePoint(p document.Point) (document.Point, bool) {
	if _, ok := a.doc.Text(p.Key); !ok {
		return p, false
	}
	void, ok := a.doc.ClosestVoid(p.Key)
	if !ok {
		return p, true
	}
	if void.IsInline() {
		next, ok := a.doc.NextSibling(void.Key())
		if !ok || !next.IsText() {
			return p, false
		}
		return document.Point{Key: next.Key()}, true
	}
	block := document.NewBlock(DefaultBlockType)
	a.doc = a.doc.InsertNodeAfter(void.Key(), block)
	text, _ := block.FirstText()
	return document.Point{Key: text.Key()}, true
}

// deleteSelection removes the selected content and collapses onto its start.
func (a *applier) deleteSelection() {
	if !a.sel.IsSet() || a.sel.IsCollapsed() {
		return
	}
	start, end := a.sel.Start(), a.sel.End()
	a.collapse(a.deleteRange(start, end))
	a.marks = nil
}

// deleteRange removes the content between start and end, merging the blocks
// at either end, and returns where the cursor lands.
func (a *applier) deleteRange(start, end document.Point) document.Point {
	if start.Key == end.Key {
		if end.Offset > start.Offset {
			a.replaceChars(start.Key, start.Offset, end.Offset, nil)
		}
		return start
	}
	i0, ok0 := a.doc.TextIndex(start.Key)
	i1, ok1 := a.doc.TextIndex(end.Key)
	if !ok0 || !ok1 || i0 > i1 {
		return start
	}
	startBlock, si, _ := a.leafBlock(start.Key)
	endBlock, ei, _ := a.leafBlock(end.Key)

	texts := a.doc.Texts()
	var voids []key.Key
	for _, t := range texts[i0+1 : i1] {
		b, ok := a.doc.ClosestBlock(t.Key())
		if !ok || (b.Key() != startBlock.Key() && b.Key() != endBlock.Key()) {
			continue
		}
		if v, ok := a.doc.ClosestVoid(t.Key()); ok && v.IsInline() {
			voids = append(voids, v.Key())
			continue
		}
		a.replaceChars(t.Key(), 0, t.Len(), nil)
	}
	for _, k := range voids {
		a.remove(k)
	}
	a.replaceChars(end.Key, 0, end.Offset, nil)
	if t, ok := a.doc.Text(start.Key); ok {
		a.replaceChars(start.Key, start.Offset, t.Len(), nil)
	}

	var between []key.Key
	for _, b := range a.doc.LeafBlocks()[si+1 : ei] {
		between = append(between, b.Key())
	}
	for _, k := range between {
		a.remove(k)
	}

	cursor := start
	switch {
	case si == ei:
	case startBlock.IsVoid():
		a.remove(startBlock.Key())
		cursor = document.Point{Key: end.Key}
	case endBlock.IsVoid():
		a.remove(endBlock.Key())
	default:
		a.mergeBlocks(startBlock.Key(), endBlock.Key())
	}
	a.collapse(cursor)
	a.normalizeInlines()
	return a.sel.Focus()
}

// mergeBlocks moves the children of block into the end of into and removes
// block.
func (a *applier) mergeBlocks(into, block key.Key) {
	dst, ok := a.doc.GetDescendant(into)
	if !ok {
		return
	}
	src, ok := a.doc.GetDescendant(block)
	if !ok {
		return
	}
	nodes := append(append([]*document.Node(nil), dst.Nodes()...), src.Nodes()...)
	a.remove(block)
	a.doc = a.doc.ReplaceNode(dst.WithNodes(nodes))
}

// removeVoid deletes a void node holding the cursor and parks the cursor
// next to where it was.
func (a *applier) removeVoid(void *document.Node) {
	var cursor document.Point
	if void.IsInline() {
		if prev, ok := a.doc.PreviousSibling(void.Key()); ok && prev.IsText() {
			cursor = document.Point{Key: prev.Key(), Offset: prev.Len()}
		}
	} else if prev, ok := a.doc.PreviousBlock(void.Key()); ok {
		cursor = a.pointAt(prev, prev.Len())
	} else if next, ok := a.doc.NextBlock(void.Key()); ok {
		cursor = a.pointAt(next, 0)
	}
	a.remove(void.Key())
	if _, ok := a.doc.Text(cursor.Key); !ok {
		cursor, _ = a.doc.ClampPoint(document.Point{})
	}
	a.collapse(cursor)
	a.normalizeInlines()
}

// adjacentVoid returns the inline void directly before (dir < 0) or after
// (dir > 0) p, when p sits on the edge of its text.
func (a *applier) adjacentVoid(p document.Point, dir int) (*document.Node, bool) {
	text, ok := a.doc.Text(p.Key)
	if !ok {
		return nil, false
	}
	var sib *document.Node
	switch {
	case dir < 0 && p.Offset == 0:
		sib, ok = a.doc.PreviousSibling(p.Key)
	case dir > 0 && p.Offset == text.Len():
		sib, ok = a.doc.NextSibling(p.Key)
	default:
		return nil, false
	}
	if !ok || !sib.IsVoid() {
		return nil, false
	}
	return sib, true
}

func (a *applier) deleteBackward() {
	if !a.sel.IsSet() {
		return
	}
	if a.sel.IsExpanded() {
		a.deleteSelection()
		return
	}
	a.marks = nil
	p := a.sel.Focus()
	if void, ok := a.doc.ClosestVoid(p.Key); ok {
		a.removeVoid(void)
		return
	}
	if void, ok := a.adjacentVoid(p, -1); ok {
		a.removeVoid(void)
		return
	}
	block, idx, off, ok := a.blockOffset(p)
	if !ok {
		return
	}
	if off > 0 {
		a.collapse(a.deleteRange(a.pointAt(block, off-1), p))
		return
	}
	if idx == 0 {
		return
	}
	prev := a.doc.LeafBlocks()[idx-1]
	if prev.IsVoid() {
		a.remove(prev.Key())
		return
	}
	a.collapse(a.deleteRange(a.pointAt(prev, prev.Len()), p))
}

func (a *applier) deleteForward() {
	if !a.sel.IsSet() {
		return
	}
	if a.sel.IsExpanded() {
		a.deleteSelection()
		return
	}
	a.marks = nil
	p := a.sel.Focus()
	if void, ok := a.doc.ClosestVoid(p.Key); ok {
		a.removeVoid(void)
		return
	}
	if void, ok := a.adjacentVoid(p, 1); ok {
		a.remove(void.Key())
		a.normalizeInlines()
		return
	}
	block, idx, off, ok := a.blockOffset(p)
	if !ok {
		return
	}
	if off < block.Len() {
		a.collapse(a.deleteRange(p, a.pointAt(block, off+1)))
		return
	}
	blocks := a.doc.LeafBlocks()
	if idx+1 >= len(blocks) {
		return
	}
	next := blocks[idx+1]
	if next.IsVoid() {
		a.remove(next.Key())
		return
	}
	a.collapse(a.deleteRange(p, a.pointAt(next, 0)))
}

// splitBlock splits the leaf block at the cursor. Inlines holding the cursor
// are split along with it; the right half gets fresh keys.
func (a *applier) splitBlock() {
	if !a.sel.IsSet() {
		return
	}
	if a.sel.IsExpanded() {
		a.deleteSelection()
	}
	a.marks = nil
	p := a.sel.Focus()
	if void, ok := a.doc.ClosestVoid(p.Key); ok {
		if void.IsBlock() {
			if q, ok := a.editablePoint(p); ok {
				a.collapse(q)
			}
			return
		}
		if q, ok := a.editablePoint(p); ok {
			p = q
		}
	}
	block, ok := a.doc.ClosestBlock(p.Key)
	if !ok {
		return
	}
	left, right := splitNode(block, p)
	if right == nil {
		return
	}
	a.doc = a.doc.ReplaceWith(block.Key(), left, right)
	first, _ := right.FirstText()
	a.collapse(document.Point{Key: first.Key()})
	a.normalizeInlines()
}

// splitNode splits n at p. The left half keeps n's key.
func splitNode(n *document.Node, p document.Point) (*document.Node, *document.Node) {
	if n.IsText() {
		chars := n.Characters()
		off := clamp(p.Offset, 0, len(chars))
		return n.WithCharacters(chars[:off]), document.NewTextFromCharacters(chars[off:])
	}
	nodes := n.Nodes()
	for i, c := range nodes {
		if !contains(c, p.Key) {
			continue
		}
		l, r := splitNode(c, p)
		left := append(append([]*document.Node(nil), nodes[:i]...), l)
		right := append([]*document.Node{r}, nodes[i+1:]...)
		return n.WithNodes(left), n.WithKey(key.Generate()).WithNodes(right)
	}
	return n, nil
}

func contains(n *document.Node, k key.Key) bool {
	if n.Key() == k {
		return true
	}
	for _, t := range n.Texts() {
		if t.Key() == k {
			return true
		}
	}
	return false
}

// move collapses the selection onto its focus shifted by n characters.
func (a *applier) move(n int) {
	if !a.sel.IsSet() {
		return
	}
	a.marks = nil
	if p, ok := a.step(a.sel.Focus(), n); ok {
		a.collapse(p)
	}
}

// extend shifts the focus by n characters and keeps the anchor.
func (a *applier) extend(n int) {
	if !a.sel.IsSet() {
		return
	}
	a.marks = nil
	p, ok := a.step(a.sel.Focus(), n)
	if !ok {
		return
	}
	a.sel.FocusKey, a.sel.FocusOffset = p.Key, p.Offset
	a.sel.IsBackward = a.doc.ComparePoints(p, a.sel.Anchor()) < 0
}

// step walks n characters from p, counting a block boundary as one.
func (a *applier) step(p document.Point, n int) (document.Point, bool) {
	block, idx, off, ok := a.blockOffset(p)
	if !ok {
		return document.Point{}, false
	}
	blocks := a.doc.LeafBlocks()
	for ; n > 0; n-- {
		if off < block.Len() {
			off++
		} else if idx+1 < len(blocks) {
			idx++
			block, off = blocks[idx], 0
		} else {
			break
		}
	}
	for ; n < 0; n++ {
		if off > 0 {
			off--
		} else if idx > 0 {
			idx--
			block = blocks[idx]
			off = block.Len()
		} else {
			break
		}
	}
	return a.pointAt(block, off), true
}
