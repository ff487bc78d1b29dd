package spellcheck

import (
	"sort"
	"strings"

	"github.com/iw2rmb/inkwell/transform"
)

// Location is the position handle stamped on a character for one check round
// trip: the top-level block and the character's offset within it.
type Location struct {
	Block  int
	Offset int
}

// Request is what is sent to a checker, plus what is needed to map the
// response back.
type Request struct {
	// Text is the plain text of the document, top-level blocks joined by
	// newlines.
	Text string
	// BlockStarts holds, per top-level block, the offset in Text of its
	// first character.
	BlockStarts []int
}

// Locate maps an offset in r.Text to the block and the offset within it.
func (r Request) Locate(offset int) (Location, bool) {
	if offset < 0 || len(r.BlockStarts) == 0 {
		return Location{}, false
	}
	b := sort.Search(len(r.BlockStarts), func(i int) bool { return r.BlockStarts[i] > offset }) - 1
	if b < 0 {
		return Location{}, false
	}
	return Location{Block: b, Offset: offset - r.BlockStarts[b]}, true
}

// Tag stamps every character with its offset tag, restarting at zero for
// each top-level block, and returns the tagged state with the request
// describing it. Tags left by an earlier round are replaced. The cursor
// does not move.
func Tag(st transform.State) (transform.State, Request) {
	c := transform.New(st)
	untag(c, st)
	blocks := st.Document.Nodes()
	parts := make([]string, len(blocks))
	req := Request{BlockStarts: make([]int, len(blocks))}
	start := 0
	for b, block := range blocks {
		req.BlockStarts[b] = start
		n := 0
		for _, t := range block.Texts() {
			for i := range t.Characters() {
				c.AddMarkByKey(t.Key(), i, 1, offsetMark(b, n))
				n++
			}
		}
		parts[b] = block.Text()
		start += n + 1
	}
	req.Text = strings.Join(parts, "\n")
	return c.Apply(false), req
}

// Offsets reads the offset tags back, per top-level block in document
// order. Untagged characters read as -1.
func Offsets(st transform.State) [][]int {
	blocks := st.Document.Nodes()
	out := make([][]int, len(blocks))
	for b, block := range blocks {
		offs := []int{}
		for _, t := range block.Texts() {
			for _, ch := range t.Characters() {
				tag, ok := tagOf(ch)
				if !ok {
					offs = append(offs, -1)
					continue
				}
				offs = append(offs, tag.Offset)
			}
		}
		out[b] = offs
	}
	return out
}

// Untag removes every offset tag. It is used when a check fails and its
// response will never be applied.
func Untag(st transform.State) transform.State {
	c := transform.New(st)
	untag(c, st)
	if !c.Changed() {
		return st
	}
	return c.Apply(false)
}

func untag(c *transform.Change, st transform.State) {
	for _, t := range st.Document.Texts() {
		for i, ch := range t.Characters() {
			for _, m := range ch.Marks.OfType(TypeOffset) {
				c.RemoveMarkByKey(t.Key(), i, 1, m)
			}
		}
	}
}
