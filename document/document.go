// Package document is the immutable rich-text model: a Document owns blocks,
// blocks own inlines and texts, texts own characters and characters carry
// marks. Every change builds a new snapshot; untouched subtrees are shared.
package document

import (
	"strings"
	"sync"

	"github.com/iw2rmb/inkwell/key"
)

// Document is the root of the tree. A Document never changes once built and
// is safe for concurrent readers.
type Document struct {
	root *Node

	once sync.Once
	idx  *index
}

type index struct {
	nodes      map[key.Key]*Node
	parents    map[key.Key]*Node
	paths      map[key.Key][]int
	texts      []*Node
	textOrder  map[key.Key]int
	leafBlocks []*Node
}

// New returns a document owning blocks.
func New(blocks ...*Node) *Document {
	root := &Node{kind: KindDocument, key: key.Generate(), nodes: append([]*Node(nil), blocks...)}
	return &Document{root: root}
}

func fromRoot(root *Node) *Document { return &Document{root: root} }

func (d *Document) Key() key.Key   { return d.root.key }
func (d *Document) Nodes() []*Node { return d.root.nodes }
func (d *Document) Data() Data     { return d.root.data }

// Root returns the document node itself.
func (d *Document) Root() *Node { return d.root }

func (d *Document) index() *index {
	d.once.Do(func() {
		ix := &index{
			nodes:     make(map[key.Key]*Node),
			parents:   make(map[key.Key]*Node),
			paths:     make(map[key.Key][]int),
			textOrder: make(map[key.Key]int),
		}
		var visit func(n *Node, path []int)
		visit = func(n *Node, path []int) {
			for i, c := range n.nodes {
				p := make([]int, len(path)+1)
				copy(p, path)
				p[len(path)] = i
				ix.nodes[c.key] = c
				ix.parents[c.key] = n
				ix.paths[c.key] = p
				if c.kind == KindText {
					ix.textOrder[c.key] = len(ix.texts)
					ix.texts = append(ix.texts, c)
				}
				if c.kind == KindBlock && !hasBlockChild(c) {
					ix.leafBlocks = append(ix.leafBlocks, c)
				}
				visit(c, p)
			}
		}
		visit(d.root, nil)
		d.idx = ix
	})
	return d.idx
}

func hasBlockChild(n *Node) bool {
	for _, c := range n.nodes {
		if c.kind == KindBlock {
			return true
		}
	}
	return false
}

// GetDescendant returns the node with key k, if the document contains one.
func (d *Document) GetDescendant(k key.Key) (*Node, bool) {
	n, ok := d.index().nodes[k]
	return n, ok
}

func (d *Document) HasDescendant(k key.Key) bool {
	_, ok := d.index().nodes[k]
	return ok
}

// Text returns the text node with key k.
func (d *Document) Text(k key.Key) (*Node, bool) {
	n, ok := d.GetDescendant(k)
	if !ok || n.kind != KindText {
		return nil, false
	}
	return n, true
}

// Texts returns every text leaf in document order.
func (d *Document) Texts() []*Node { return d.index().texts }

// LeafBlocks returns the blocks that hold no other blocks, in document order.
func (d *Document) LeafBlocks() []*Node { return d.index().leafBlocks }

// Parent returns the parent of the node with key k. Top-level blocks have
// the document node as parent.
func (d *Document) Parent(k key.Key) (*Node, bool) {
	p, ok := d.index().parents[k]
	return p, ok
}

// Path returns the child indexes leading from the root to k.
func (d *Document) Path(k key.Key) ([]int, bool) {
	p, ok := d.index().paths[k]
	return p, ok
}

// Ancestors returns the ancestors of k from the root down to its parent.
func (d *Document) Ancestors(k key.Key) []*Node {
	path, ok := d.Path(k)
	if !ok {
		return nil
	}
	out := make([]*Node, 0, len(path))
	n := d.root
	for _, i := range path[:len(path)-1] {
		out = append(out, n)
		n = n.nodes[i]
	}
	return append(out, n)
}

func (d *Document) sibling(k key.Key, delta int) (*Node, bool) {
	parent, ok := d.Parent(k)
	if !ok {
		return nil, false
	}
	path, _ := d.Path(k)
	i := path[len(path)-1] + delta
	if i < 0 || i >= len(parent.nodes) {
		return nil, false
	}
	return parent.nodes[i], true
}

// PreviousSibling returns the node just before k under the same parent.
func (d *Document) PreviousSibling(k key.Key) (*Node, bool) { return d.sibling(k, -1) }

// NextSibling returns the node just after k under the same parent.
func (d *Document) NextSibling(k key.Key) (*Node, bool) { return d.sibling(k, 1) }

// ClosestBlock returns the nearest block ancestor of k.
func (d *Document) ClosestBlock(k key.Key) (*Node, bool) {
	return d.closest(k, func(n *Node) bool { return n.kind == KindBlock })
}

// ClosestInline returns the nearest inline ancestor of k.
func (d *Document) ClosestInline(k key.Key) (*Node, bool) {
	return d.closest(k, func(n *Node) bool { return n.kind == KindInline })
}

// ClosestVoid returns k itself or its nearest ancestor flagged void.
func (d *Document) ClosestVoid(k key.Key) (*Node, bool) {
	if n, ok := d.GetDescendant(k); ok && n.void {
		return n, true
	}
	return d.closest(k, func(n *Node) bool { return n.void })
}

func (d *Document) closest(k key.Key, match func(*Node) bool) (*Node, bool) {
	anc := d.Ancestors(k)
	for i := len(anc) - 1; i >= 0; i-- {
		if anc[i].kind != KindDocument && match(anc[i]) {
			return anc[i], true
		}
	}
	return nil, false
}

// leafBlockOf returns the leaf block holding the first text under k.
func (d *Document) leafBlockOf(k key.Key) (*Node, int, bool) {
	n, ok := d.GetDescendant(k)
	if !ok {
		return nil, 0, false
	}
	text, ok := n.FirstText()
	if !ok {
		return nil, 0, false
	}
	block, ok := d.ClosestBlock(text.key)
	if !ok {
		return nil, 0, false
	}
	for i, b := range d.LeafBlocks() {
		if b.key == block.key {
			return b, i, true
		}
	}
	return nil, 0, false
}

// PreviousBlock returns the leaf block before the one holding k.
func (d *Document) PreviousBlock(k key.Key) (*Node, bool) {
	_, i, ok := d.leafBlockOf(k)
	if !ok || i == 0 {
		return nil, false
	}
	return d.LeafBlocks()[i-1], true
}

// NextBlock returns the leaf block after the one holding k.
func (d *Document) NextBlock(k key.Key) (*Node, bool) {
	_, i, ok := d.leafBlockOf(k)
	blocks := d.LeafBlocks()
	if !ok || i+1 >= len(blocks) {
		return nil, false
	}
	return blocks[i+1], true
}

// ComparePoints orders two points by document position. Points on unknown
// keys sort after every known point.
func (d *Document) ComparePoints(a, b Point) int {
	ix := d.index()
	ia, okA := ix.textOrder[a.Key]
	ib, okB := ix.textOrder[b.Key]
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return 1
	case !okB:
		return -1
	}
	if ia != ib {
		if ia < ib {
			return -1
		}
		return 1
	}
	switch {
	case a.Offset < b.Offset:
		return -1
	case a.Offset > b.Offset:
		return 1
	}
	return 0
}

// TextIndex returns the position of text k among Texts.
func (d *Document) TextIndex(k key.Key) (int, bool) {
	i, ok := d.index().textOrder[k]
	return i, ok
}

// PlainText returns the text of each top-level block joined by newlines.
func (d *Document) PlainText() string {
	parts := make([]string, len(d.root.nodes))
	for i, n := range d.root.nodes {
		parts[i] = n.Text()
	}
	return strings.Join(parts, "\n")
}

// Len returns the number of characters in the document.
func (d *Document) Len() int { return d.root.Len() }
