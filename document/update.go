package document

import "github.com/iw2rmb/inkwell/key"

// splice rebuilds the spine from the root to path, replacing the node at
// path with repl (zero or more nodes). Subtrees off the spine are shared.
func splice(n *Node, path []int, repl []*Node) *Node {
	i := path[0]
	nodes := make([]*Node, 0, len(n.nodes)-1+len(repl))
	nodes = append(nodes, n.nodes[:i]...)
	if len(path) == 1 {
		nodes = append(nodes, repl...)
	} else {
		nodes = append(nodes, splice(n.nodes[i], path[1:], repl))
	}
	nodes = append(nodes, n.nodes[i+1:]...)
	cp := n.clone()
	cp.nodes = nodes
	return cp
}

// ReplaceNode returns a document where the node sharing n's key is replaced
// by n. The receiver is returned when the key is absent.
func (d *Document) ReplaceNode(n *Node) *Document {
	return d.ReplaceWith(n.key, n)
}

// ReplaceWith returns a document where the node with key k is replaced by
// nodes, which may be empty.
func (d *Document) ReplaceWith(k key.Key, nodes ...*Node) *Document {
	path, ok := d.Path(k)
	if !ok {
		return d
	}
	return fromRoot(splice(d.root, path, nodes))
}

// RemoveNode returns a document without the node keyed k.
func (d *Document) RemoveNode(k key.Key) *Document {
	return d.ReplaceWith(k)
}

// InsertNodes returns a document where nodes are inserted into the container
// keyed parent at index. The document key itself addresses the top level.
func (d *Document) InsertNodes(parent key.Key, index int, nodes ...*Node) *Document {
	var p *Node
	if parent == d.root.key {
		p = d.root
	} else {
		n, ok := d.GetDescendant(parent)
		if !ok || n.kind == KindText {
			return d
		}
		p = n
	}
	if index < 0 {
		index = 0
	}
	if index > len(p.nodes) {
		index = len(p.nodes)
	}
	children := make([]*Node, 0, len(p.nodes)+len(nodes))
	children = append(children, p.nodes[:index]...)
	children = append(children, nodes...)
	children = append(children, p.nodes[index:]...)
	if p == d.root {
		cp := d.root.clone()
		cp.nodes = children
		return fromRoot(cp)
	}
	return d.ReplaceNode(p.WithNodes(children))
}

// UpdateCharacter returns a document where the character at (k, offset) is
// replaced by fn's result. Absent keys, non-text nodes and out-of-range
// offsets leave the document unchanged.
func (d *Document) UpdateCharacter(k key.Key, offset int, fn func(Character) Character) *Document {
	text, ok := d.Text(k)
	if !ok {
		return d
	}
	c, ok := text.Character(offset)
	if !ok {
		return d
	}
	chars := append([]Character(nil), text.chars...)
	chars[offset] = fn(c)
	cp := text.clone()
	cp.chars = chars
	return d.ReplaceNode(cp)
}

// AddMarkAt returns a document with mark appended to the character at
// (k, offset). Out-of-range addresses are skipped silently.
func (d *Document) AddMarkAt(k key.Key, offset int, mark Mark) *Document {
	return d.UpdateCharacter(k, offset, func(c Character) Character {
		return c.WithMarks(c.Marks.Add(mark))
	})
}

// RemoveMarkAt returns a document without the first mark equal to mark on
// the character at (k, offset). It is a no-op when no such mark exists.
func (d *Document) RemoveMarkAt(k key.Key, offset int, mark Mark) *Document {
	text, ok := d.Text(k)
	if !ok {
		return d
	}
	c, ok := text.Character(offset)
	if !ok || !c.Marks.Has(mark) {
		return d
	}
	return d.UpdateCharacter(k, offset, func(c Character) Character {
		marks, _ := c.Marks.Remove(mark)
		return c.WithMarks(marks)
	})
}

// ReplaceCharacters returns a document where every text keyed in chars
// holds the given characters. The tree is rebuilt in a single pass and the
// slices are owned by the result. Keys that are absent or not texts are
// ignored.
func (d *Document) ReplaceCharacters(chars map[key.Key][]Character) *Document {
	if len(chars) == 0 {
		return d
	}
	root, ok := replaceCharacters(d.root, chars)
	if !ok {
		return d
	}
	return fromRoot(root)
}

func replaceCharacters(n *Node, chars map[key.Key][]Character) (*Node, bool) {
	if n.kind == KindText {
		cs, ok := chars[n.key]
		if !ok {
			return n, false
		}
		cp := n.clone()
		cp.chars = cs
		return cp, true
	}
	var nodes []*Node
	for i, child := range n.nodes {
		r, ok := replaceCharacters(child, chars)
		if !ok {
			continue
		}
		if nodes == nil {
			nodes = append([]*Node(nil), n.nodes...)
		}
		nodes[i] = r
	}
	if nodes == nil {
		return n, false
	}
	cp := n.clone()
	cp.nodes = nodes
	return cp, true
}

// InsertNodeAfter returns a document where n follows the node keyed k under
// the same parent.
func (d *Document) InsertNodeAfter(k key.Key, n *Node) *Document {
	parent, ok := d.Parent(k)
	if !ok {
		return d
	}
	path, _ := d.Path(k)
	return d.InsertNodes(parent.key, path[len(path)-1]+1, n)
}
