// Package surface renders a document into an HTML element tree laid out on
// a monospace grid. The tree honors the attribute contract resolve expects,
// so the surface can be hit-tested and resolved like a browser DOM, and it
// renders itself for a terminal.
//
// Geometry:
//   - every leaf block is one row; rows are one cell high
//   - cell widths come from go-runewidth with a uniseg fallback
//   - native text offsets count grapheme clusters
package surface

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/iw2rmb/inkwell/document"
	"github.com/iw2rmb/inkwell/internal/grapheme"
	"github.com/iw2rmb/inkwell/key"
	"github.com/iw2rmb/inkwell/resolve"
)

// Config controls rendering.
type Config struct {
	// MaxTextNodeLen splits leaf runs into native text nodes of at most this
	// many clusters, the way browsers subdivide long text nodes. Zero keeps
	// each run in one node.
	MaxTextNodeLen int

	// VoidInlineCells fixes the width of inline void content. Zero uses the
	// label's natural width.
	VoidInlineCells int

	// VoidLabel returns the placeholder content shown for a void node.
	VoidLabel func(n *document.Node) string
}

func (c Config) withDefaults() Config {
	if c.MaxTextNodeLen < 0 {
		c.MaxTextNodeLen = 0
	}
	if c.VoidInlineCells < 0 {
		c.VoidInlineCells = 0
	}
	if c.VoidLabel == nil {
		c.VoidLabel = func(n *document.Node) string { return "[" + n.Type() + "]" }
	}
	return c
}

// Surface is one rendering of one document snapshot.
type Surface struct {
	doc  *document.Document
	cfg  Config
	root *html.Node

	elems  map[*html.Node]*Elem
	byKey  map[key.Key]*html.Node
	leaves map[*html.Node]*leaf
	texts  map[key.Key][]*leaf
	rows   []*row
	cur    *row
}

type row struct {
	block  *document.Node
	leaves []*leaf
	width  int
}

// leaf is one native text node with its geometry.
type leaf struct {
	node     *html.Node
	row      int
	x        int
	clusters []string
	widths   []int
	marks    document.MarkSet
	text     key.Key // document text the leaf renders; empty for void labels
	start    int     // cluster offset of the leaf within that text
	label    bool
}

func (l *leaf) width() int {
	w := 0
	for _, c := range l.widths {
		w += c
	}
	return w
}

// cellAt returns the cell where cluster i starts.
func (l *leaf) cellAt(i int) int {
	x := l.x
	for _, w := range l.widths[:i] {
		x += w
	}
	return x
}

// Render builds the surface for doc.
func Render(doc *document.Document, cfg Config) *Surface {
	s := &Surface{
		doc:    doc,
		cfg:    cfg.withDefaults(),
		elems:  make(map[*html.Node]*Elem),
		byKey:  make(map[key.Key]*html.Node),
		leaves: make(map[*html.Node]*leaf),
		texts:  make(map[key.Key][]*leaf),
	}
	s.root = s.element(atom.Div, doc.Key(), "document", "")
	for _, n := range doc.Nodes() {
		s.root.AppendChild(s.renderNode(n))
	}
	return s
}

func (s *Surface) element(a atom.Atom, k key.Key, kind, typ string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	if k != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: resolve.AttrKey, Val: string(k)})
		s.byKey[k] = n
	}
	if kind != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "data-kind", Val: kind})
	}
	if typ != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "data-type", Val: typ})
	}
	return n
}

func (s *Surface) beginRow(block *document.Node) {
	s.cur = &row{block: block}
	s.rows = append(s.rows, s.cur)
}

func (s *Surface) renderNode(n *document.Node) *html.Node {
	switch {
	case n.IsText():
		return s.renderText(n)
	case n.IsVoid():
		return s.renderVoid(n)
	case n.IsBlock():
		el := s.element(atom.Div, n.Key(), "block", n.Type())
		if isLeafBlock(n) {
			s.beginRow(n)
		}
		for _, c := range n.Nodes() {
			el.AppendChild(s.renderNode(c))
		}
		return el
	default:
		el := s.element(atom.Span, n.Key(), "inline", n.Type())
		for _, c := range n.Nodes() {
			el.AppendChild(s.renderNode(c))
		}
		return el
	}
}

func isLeafBlock(n *document.Node) bool {
	for _, c := range n.Nodes() {
		if c.IsBlock() {
			return false
		}
	}
	return true
}

// renderText emits one offset-key span per run of equally marked
// characters.
func (s *Surface) renderText(t *document.Node) *html.Node {
	el := s.element(atom.Span, t.Key(), "text", "")
	chars := t.Characters()
	if len(chars) == 0 {
		run := s.runElement(t.Key(), 0, nil)
		s.addLeaf(run, nil, nil, t.Key(), 0, false)
		el.AppendChild(run)
		return el
	}
	index := 0
	for from := 0; from < len(chars); {
		to := from + 1
		for to < len(chars) && chars[to].Marks.Equal(chars[from].Marks) {
			to++
		}
		run := s.runElement(t.Key(), index, chars[from].Marks)
		clusters := make([]string, 0, to-from)
		for _, c := range chars[from:to] {
			clusters = append(clusters, c.Text)
		}
		size := len(clusters)
		if s.cfg.MaxTextNodeLen > 0 {
			size = s.cfg.MaxTextNodeLen
		}
		for i := 0; i < len(clusters); i += size {
			j := i + size
			if j > len(clusters) {
				j = len(clusters)
			}
			s.addLeaf(run, clusters[i:j], chars[from].Marks, t.Key(), from+i, false)
		}
		el.AppendChild(run)
		index++
		from = to
	}
	return el
}

func (s *Surface) runElement(k key.Key, index int, marks document.MarkSet) *html.Node {
	run := &html.Node{Type: html.ElementNode, DataAtom: atom.Span, Data: "span"}
	run.Attr = append(run.Attr, html.Attribute{
		Key: resolve.AttrOffsetKey,
		Val: resolve.OffsetKey{Key: k, Index: index}.String(),
	})
	if len(marks) > 0 {
		types := make([]string, len(marks))
		for i, m := range marks {
			types[i] = m.Type
		}
		run.Attr = append(run.Attr, html.Attribute{Key: "data-marks", Val: strings.Join(types, " ")})
	}
	return run
}

// addLeaf appends a native text node under parent and places it at the end
// of the current row.
func (s *Surface) addLeaf(parent *html.Node, clusters []string, marks document.MarkSet, text key.Key, start int, label bool) {
	tn := &html.Node{Type: html.TextNode, Data: strings.Join(clusters, "")}
	parent.AppendChild(tn)
	if s.cur == nil {
		s.beginRow(nil)
	}
	l := &leaf{
		node:     tn,
		row:      len(s.rows) - 1,
		x:        s.cur.width,
		clusters: clusters,
		widths:   make([]int, len(clusters)),
		marks:    marks,
		text:     text,
		start:    start,
		label:    label,
	}
	for i, c := range clusters {
		l.widths[i] = grapheme.Width(c)
	}
	s.cur.width += l.width()
	s.cur.leaves = append(s.cur.leaves, l)
	s.leaves[tn] = l
	if text != "" {
		s.texts[text] = append(s.texts[text], l)
	}
}

// renderVoid emits the void wrapper: a spacer holding the zero-width anchor
// and a non-editable wrapper holding the placeholder label.
func (s *Surface) renderVoid(v *document.Node) *html.Node {
	tag, kind := atom.Span, "inline"
	if v.IsBlock() {
		tag, kind = atom.Div, "block"
		s.beginRow(v)
	}
	el := s.element(tag, v.Key(), kind, v.Type())
	el.Attr = append(el.Attr, html.Attribute{Key: resolve.AttrVoid, Val: "true"})

	spacer := &html.Node{Type: html.ElementNode, DataAtom: atom.Span, Data: "span"}
	for _, c := range v.Nodes() {
		spacer.AppendChild(s.renderNode(c))
	}
	el.AppendChild(spacer)

	content := &html.Node{Type: html.ElementNode, DataAtom: tag, Data: tag.String()}
	content.Attr = append(content.Attr, html.Attribute{Key: resolve.AttrContentEditable, Val: "false"})
	label := s.cfg.VoidLabel(v)
	if v.IsInline() && s.cfg.VoidInlineCells > 0 {
		label = runewidth.FillRight(runewidth.Truncate(label, s.cfg.VoidInlineCells, ""), s.cfg.VoidInlineCells)
	}
	s.addLeaf(content, grapheme.Split(label), nil, "", 0, true)
	el.AppendChild(content)
	return el
}

// Document returns the rendered snapshot.
func (s *Surface) Document() *document.Document { return s.doc }

// Root returns the top element of the tree.
func (s *Surface) Root() resolve.Element { return s.elem(s.root) }

// Find returns the element rendered for the node keyed k.
func (s *Surface) Find(k key.Key) (resolve.Element, bool) {
	n, ok := s.byKey[k]
	if !ok {
		return nil, false
	}
	return s.elem(n), true
}

// Rows returns the number of rendered rows.
func (s *Surface) Rows() int { return len(s.rows) }

// HTML returns the serialized tree.
func (s *Surface) HTML() string {
	var buf bytes.Buffer
	if err := html.Render(&buf, s.root); err != nil {
		return ""
	}
	return buf.String()
}

func (s *Surface) elem(n *html.Node) *Elem {
	if e, ok := s.elems[n]; ok {
		return e
	}
	e := &Elem{s: s, n: n}
	s.elems[n] = e
	return e
}

// Elem is a node of the rendered tree.
type Elem struct {
	s *Surface
	n *html.Node
}

func (e *Elem) Parent() resolve.Element {
	if e.n == e.s.root || e.n.Parent == nil {
		return nil
	}
	return e.s.elem(e.n.Parent)
}

func (e *Elem) Children() []resolve.Element {
	var out []resolve.Element
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, e.s.elem(c))
	}
	return out
}

func (e *Elem) Attr(name string) (string, bool) {
	for _, a := range e.n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (e *Elem) IsText() bool { return e.n.Type == html.TextNode }

func (e *Elem) Text() string {
	if e.IsText() {
		return e.n.Data
	}
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				sb.WriteString(c.Data)
				continue
			}
			walk(c)
		}
	}
	walk(e.n)
	return sb.String()
}

// Rect returns the cell box of the element: the union of its text leaves.
func (e *Elem) Rect() resolve.Rect {
	var r resolve.Rect
	first := true
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if l, ok := e.s.leaves[n]; ok {
			lr := resolve.Rect{Left: float64(l.x), Top: float64(l.row), Width: float64(l.width()), Height: 1}
			if first {
				r, first = lr, false
			} else {
				r = union(r, lr)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.n)
	return r
}

func union(a, b resolve.Rect) resolve.Rect {
	left := min(a.Left, b.Left)
	top := min(a.Top, b.Top)
	right := max(a.Left+a.Width, b.Left+b.Width)
	bottom := max(a.Top+a.Height, b.Top+b.Height)
	return resolve.Rect{Left: left, Top: top, Width: right - left, Height: bottom - top}
}

func (e *Elem) String() string {
	if e.IsText() {
		return strconv.Quote(e.n.Data)
	}
	return "<" + e.n.Data + ">"
}
