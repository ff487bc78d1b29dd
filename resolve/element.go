// Package resolve maps positions on a rendering surface back to document
// points.
//
// The surface is reached only through Element and Surface, so any host that
// honors the attribute contract below can be resolved: a browser DOM, an
// HTML tree rendered for a terminal, or a test harness.
package resolve

import "github.com/iw2rmb/inkwell/internal/grapheme"

// Attributes of the rendering contract.
const (
	// AttrKey marks every container rendered for a document node.
	AttrKey = "data-key"
	// AttrOffsetKey marks each leaf run of a text node as "key:index".
	AttrOffsetKey = "data-offset-key"
	// AttrVoid marks void nodes.
	AttrVoid = "data-slate-void"
	// AttrContentEditable set to "false" marks content that never holds the
	// cursor.
	AttrContentEditable = "contenteditable"
)

// Rect is an element's bounding box in surface coordinates.
type Rect struct {
	Left, Top, Width, Height float64
}

// Contains reports whether (x, y) lies inside r. The right and bottom edges
// are exclusive.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.Left && x < r.Left+r.Width && y >= r.Top && y < r.Top+r.Height
}

// Element is a node of the rendered tree. Text leaves have no children and
// carry their content in Text; for elements Text is the concatenated content
// of their descendants. Parent returns a nil interface at the root.
//
// Implementations must be comparable: resolution compares elements with ==.
type Element interface {
	Parent() Element
	Children() []Element
	Attr(name string) (string, bool)
	IsText() bool
	Text() string
	Rect() Rect
}

// Surface is the hit-testing capability of a host.
type Surface interface {
	// LeafAt resolves a coordinate to a native leaf and an offset within it,
	// the way caretRangeFromPoint does in a browser.
	LeafAt(x, y float64) (Element, int, bool)
	// Distance counts the characters between the start of container and
	// offset within leaf.
	Distance(container, leaf Element, offset int) int
}

// Closest returns el or its nearest ancestor carrying attr.
func Closest(el Element, attr string) Element {
	for el != nil {
		if _, ok := el.Attr(attr); ok {
			return el
		}
		el = el.Parent()
	}
	return nil
}

// First returns the first descendant of el, in document order, carrying
// attr.
func First(el Element, attr string) Element {
	for _, c := range el.Children() {
		if _, ok := c.Attr(attr); ok {
			return c
		}
		if found := First(c, attr); found != nil {
			return found
		}
	}
	return nil
}

// CountDistance is a Surface.Distance implementation for surfaces whose
// native offsets count grapheme clusters. It walks the text leaves under
// container in order until it reaches leaf.
func CountDistance(container, leaf Element, offset int) int {
	n, _ := countUntil(container, leaf, offset)
	return n
}

func countUntil(el, leaf Element, offset int) (int, bool) {
	if el == leaf {
		return offset, true
	}
	if el.IsText() {
		return grapheme.Count(el.Text()), false
	}
	total := 0
	for _, c := range el.Children() {
		n, done := countUntil(c, leaf, offset)
		total += n
		if done {
			return total, true
		}
	}
	return total, false
}
