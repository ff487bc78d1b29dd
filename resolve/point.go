package resolve

import (
	"github.com/iw2rmb/inkwell/document"
	"github.com/iw2rmb/inkwell/internal/grapheme"
	"github.com/iw2rmb/inkwell/key"
)

// FindPoint resolves a native position to a document point.
//
// The position is first normalized onto a leaf. If the leaf lies inside an
// offset-key run, the offset is measured from the start of the enclosing
// text container. Otherwise, inside a void, the cursor parks at the end of
// the void's zero-width anchor. The resolved key must still exist in doc: a
// surface left over from another editor resolves to nothing.
//
// A false result is a normal outcome; callers ignore the input.
func FindPoint(s Surface, el Element, offset int, doc *document.Document) (document.Point, bool) {
	leaf, off := Normalize(el, offset)
	if leaf == nil {
		return document.Point{}, false
	}
	parent := leaf.Parent()
	if parent == nil {
		return document.Point{}, false
	}

	var rangeEl Element
	var n int
	if rangeEl = Closest(parent, AttrOffsetKey); rangeEl != nil {
		textEl := Closest(rangeEl, AttrKey)
		if textEl == nil {
			return document.Point{}, false
		}
		n = s.Distance(textEl, leaf, off)
	} else {
		voidEl := Closest(parent, AttrVoid)
		if voidEl == nil {
			return document.Point{}, false
		}
		if rangeEl = First(voidEl, AttrOffsetKey); rangeEl == nil {
			return document.Point{}, false
		}
		n = grapheme.Count(rangeEl.Text())
	}

	raw, _ := rangeEl.Attr(AttrOffsetKey)
	if raw == "" {
		return document.Point{}, false
	}
	okey, err := ParseOffsetKey(raw)
	if err != nil || !doc.HasDescendant(okey.Key) {
		return document.Point{}, false
	}
	return document.Point{Key: okey.Key, Offset: n}, true
}

// FindDropPoint resolves a drop coordinate. Drops over a void never land
// inside it: over an inline void the point goes to the end of the previous
// text or the start of the next one, whichever edge is nearer horizontally;
// over a block void it goes to the end of the previous block or the start of
// the next block's last text, whichever edge is nearer vertically. Other
// drops resolve like FindPoint.
func FindDropPoint(s Surface, x, y float64, doc *document.Document) (document.Point, bool) {
	leaf, off, ok := s.LeafAt(x, y)
	if !ok {
		return document.Point{}, false
	}
	nodeEl := Closest(leaf, AttrKey)
	if nodeEl == nil {
		return document.Point{}, false
	}
	attr, _ := nodeEl.Attr(AttrKey)
	k := key.Key(attr)
	if k != doc.Key() {
		node, ok := doc.GetDescendant(k)
		if !ok {
			return document.Point{}, false
		}
		if node.IsVoid() && node.IsInline() {
			r := nodeEl.Rect()
			if x-r.Left < r.Left+r.Width-x {
				return lastPointOf(doc.PreviousSibling(k))
			}
			return firstPointOf(doc.NextSibling(k))
		}
		if node.IsVoid() {
			r := nodeEl.Rect()
			if y-r.Top < r.Top+r.Height-y {
				return lastPointOf(doc.PreviousBlock(k))
			}
			block, ok := doc.NextBlock(k)
			if !ok {
				return document.Point{}, false
			}
			text, ok := block.LastText()
			if !ok {
				return document.Point{}, false
			}
			return document.Point{Key: text.Key()}, true
		}
	}
	return FindPoint(s, leaf, off, doc)
}

func lastPointOf(n *document.Node, ok bool) (document.Point, bool) {
	if !ok {
		return document.Point{}, false
	}
	text, ok := n.LastText()
	if !ok {
		return document.Point{}, false
	}
	return document.Point{Key: text.Key(), Offset: text.Len()}, true
}

func firstPointOf(n *document.Node, ok bool) (document.Point, bool) {
	if !ok {
		return document.Point{}, false
	}
	text, ok := n.FirstText()
	if !ok {
		return document.Point{}, false
	}
	return document.Point{Key: text.Key()}, true
}
