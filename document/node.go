package document

import (
	"strings"

	"github.com/iw2rmb/inkwell/internal/grapheme"
	"github.com/iw2rmb/inkwell/key"
)

// Kind classifies a node.
type Kind uint8

const (
	KindDocument Kind = iota
	KindBlock
	KindInline
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindBlock:
		return "block"
	case KindInline:
		return "inline"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Node is an immutable tree node. Text nodes own characters; every other
// kind owns child nodes. Slices returned by accessors are shared with the
// node and must not be modified.
type Node struct {
	kind  Kind
	key   key.Key
	typ   string
	data  Data
	void  bool
	nodes []*Node
	chars []Character
}

// NewText returns a text node holding text split into characters, each
// carrying marks.
func NewText(text string, marks ...Mark) *Node {
	var set MarkSet
	if len(marks) > 0 {
		set = append(MarkSet(nil), marks...)
	}
	clusters := grapheme.Split(text)
	chars := make([]Character, len(clusters))
	for i, c := range clusters {
		chars[i] = Character{Text: c, Marks: set}
	}
	return &Node{kind: KindText, key: key.Generate(), chars: chars}
}

// NewTextFromCharacters returns a text node owning a copy of chars.
func NewTextFromCharacters(chars []Character) *Node {
	return &Node{kind: KindText, key: key.Generate(), chars: append([]Character(nil), chars...)}
}

// NewBlock returns a block node. A block without children gets an empty text
// so that it stays addressable.
func NewBlock(typ string, nodes ...*Node) *Node {
	return newContainer(KindBlock, typ, nodes)
}

// NewInline returns an inline node.
func NewInline(typ string, nodes ...*Node) *Node {
	return newContainer(KindInline, typ, nodes)
}

// NewVoidBlock returns a void block whose only child is the zero-width text
// anchor used for cursor placement.
func NewVoidBlock(typ string) *Node {
	n := newContainer(KindBlock, typ, nil)
	n.void = true
	return n
}

// NewVoidInline returns a void inline with its zero-width text anchor.
func NewVoidInline(typ string) *Node {
	n := newContainer(KindInline, typ, nil)
	n.void = true
	return n
}

func newContainer(kind Kind, typ string, nodes []*Node) *Node {
	if len(nodes) == 0 {
		nodes = []*Node{NewText("")}
	}
	return &Node{kind: kind, key: key.Generate(), typ: typ, nodes: append([]*Node(nil), nodes...)}
}

func (n *Node) Kind() Kind              { return n.kind }
func (n *Node) Key() key.Key            { return n.key }
func (n *Node) Type() string            { return n.typ }
func (n *Node) Data() Data              { return n.data }
func (n *Node) IsVoid() bool            { return n.void }
func (n *Node) IsText() bool            { return n.kind == KindText }
func (n *Node) IsBlock() bool           { return n.kind == KindBlock }
func (n *Node) IsInline() bool          { return n.kind == KindInline }
func (n *Node) Nodes() []*Node          { return n.nodes }
func (n *Node) Characters() []Character { return n.chars }

// Len returns the number of characters under n.
func (n *Node) Len() int {
	if n.kind == KindText {
		return len(n.chars)
	}
	total := 0
	for _, c := range n.nodes {
		total += c.Len()
	}
	return total
}

// Text returns the concatenated text under n.
func (n *Node) Text() string {
	var sb strings.Builder
	n.writeText(&sb)
	return sb.String()
}

func (n *Node) writeText(sb *strings.Builder) {
	if n.kind == KindText {
		for _, c := range n.chars {
			sb.WriteString(c.Text)
		}
		return
	}
	for _, c := range n.nodes {
		c.writeText(sb)
	}
}

// Character returns the character at offset in a text node.
func (n *Node) Character(offset int) (Character, bool) {
	if n.kind != KindText || offset < 0 || offset >= len(n.chars) {
		return Character{}, false
	}
	return n.chars[offset], true
}

// FirstText returns the first text leaf under n (n itself for text nodes).
func (n *Node) FirstText() (*Node, bool) {
	if n.kind == KindText {
		return n, true
	}
	for _, c := range n.nodes {
		if t, ok := c.FirstText(); ok {
			return t, true
		}
	}
	return nil, false
}

// LastText returns the last text leaf under n.
func (n *Node) LastText() (*Node, bool) {
	if n.kind == KindText {
		return n, true
	}
	for i := len(n.nodes) - 1; i >= 0; i-- {
		if t, ok := n.nodes[i].LastText(); ok {
			return t, true
		}
	}
	return nil, false
}

// Texts returns the text leaves under n in document order.
func (n *Node) Texts() []*Node {
	var out []*Node
	n.walk(func(c *Node) bool {
		if c.kind == KindText {
			out = append(out, c)
		}
		return true
	})
	return out
}

// walk visits n and its descendants depth-first; fn returning false skips
// the children of the visited node.
func (n *Node) walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.nodes {
		c.walk(fn)
	}
}

func (n *Node) clone() *Node {
	cp := *n
	return &cp
}

// WithType returns a copy of n with a different type.
func (n *Node) WithType(typ string) *Node {
	cp := n.clone()
	cp.typ = typ
	return cp
}

// WithData returns a copy of n carrying data.
func (n *Node) WithData(data Data) *Node {
	cp := n.clone()
	cp.data = NewData(data)
	return cp
}

// WithKey returns a copy of n using k. Used when restoring persisted keys.
func (n *Node) WithKey(k key.Key) *Node {
	cp := n.clone()
	cp.key = k
	return cp
}

// WithNodes returns a copy of a container node owning nodes.
func (n *Node) WithNodes(nodes []*Node) *Node {
	cp := n.clone()
	cp.nodes = append([]*Node(nil), nodes...)
	return cp
}

// WithCharacters returns a copy of a text node owning chars.
func (n *Node) WithCharacters(chars []Character) *Node {
	cp := n.clone()
	cp.chars = append([]Character(nil), chars...)
	return cp
}

// AsVoid returns a copy of n flagged void.
func (n *Node) AsVoid() *Node {
	cp := n.clone()
	cp.void = true
	return cp
}
