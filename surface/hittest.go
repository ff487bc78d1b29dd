package surface

import (
	"math"

	"github.com/iw2rmb/inkwell/document"
	"github.com/iw2rmb/inkwell/resolve"
)

// LeafAt resolves a cell coordinate to a native text node and a cluster
// offset within it, the way caretRangeFromPoint does.
//
// Mapping rules:
//   - y is clamped into the rendered rows
//   - x left of the first leaf maps to its start, right of the last leaf to
//     its end
//   - inside a leaf the offset counts the clusters whose centers lie left
//     of x
//   - zero-width leaves are only hit on rows that hold nothing else
func (s *Surface) LeafAt(x, y float64) (resolve.Element, int, bool) {
	if len(s.rows) == 0 {
		return nil, 0, false
	}
	r := int(math.Floor(y))
	if r < 0 {
		r = 0
	}
	if r >= len(s.rows) {
		r = len(s.rows) - 1
	}
	var hits []*leaf
	for _, l := range s.rows[r].leaves {
		if l.width() > 0 {
			hits = append(hits, l)
		}
	}
	if len(hits) == 0 {
		if len(s.rows[r].leaves) == 0 {
			return nil, 0, false
		}
		return s.elem(s.rows[r].leaves[0].node), 0, true
	}
	if x < float64(hits[0].x) {
		return s.elem(hits[0].node), 0, true
	}
	for _, l := range hits {
		if x >= float64(l.x+l.width()) {
			continue
		}
		off := 0
		cell := float64(l.x)
		for _, w := range l.widths {
			if x < cell+float64(w)/2 {
				break
			}
			cell += float64(w)
			off++
		}
		return s.elem(l.node), off, true
	}
	last := hits[len(hits)-1]
	return s.elem(last.node), len(last.clusters), true
}

// Distance counts clusters from the start of container to offset within
// leaf.
func (s *Surface) Distance(container, leaf resolve.Element, offset int) int {
	return resolve.CountDistance(container, leaf, offset)
}

// nativeLeaf returns the leaf holding p and the offset within it. At a
// boundary between two native nodes the earlier one wins.
func (s *Surface) nativeLeaf(p document.Point) (*leaf, int, bool) {
	leaves := s.texts[p.Key]
	if len(leaves) == 0 {
		return nil, 0, false
	}
	for _, l := range leaves {
		if p.Offset <= l.start+len(l.clusters) {
			off := p.Offset - l.start
			if off < 0 {
				off = 0
			}
			return l, off, true
		}
	}
	last := leaves[len(leaves)-1]
	return last, len(last.clusters), true
}

// NativePoint maps a document point to the native text node and offset it
// is rendered at.
func (s *Surface) NativePoint(p document.Point) (resolve.Element, int, bool) {
	l, off, ok := s.nativeLeaf(p)
	if !ok {
		return nil, 0, false
	}
	return s.elem(l.node), off, true
}

// Locate returns the cell where p is drawn.
func (s *Surface) Locate(p document.Point) (x, y int, ok bool) {
	l, off, ok := s.nativeLeaf(p)
	if !ok {
		return 0, 0, false
	}
	return l.cellAt(off), l.row, true
}

// Resolve maps a cell coordinate to a document point.
func (s *Surface) Resolve(x, y float64) (document.Point, bool) {
	el, off, ok := s.LeafAt(x, y)
	if !ok {
		return document.Point{}, false
	}
	return resolve.FindPoint(s, el, off, s.doc)
}
