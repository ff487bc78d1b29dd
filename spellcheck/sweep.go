package spellcheck

import (
	"github.com/iw2rmb/inkwell/document"
	"github.com/iw2rmb/inkwell/key"
	"github.com/iw2rmb/inkwell/transform"
)

// SweepStale removes every spelling run an edit has broken. A run is
// broken when some member's neighbour no longer carries the adjacent
// position of the same decoration; broken runs are removed whole, never in
// part. The cursor does not move.
func SweepStale(st transform.State) transform.State {
	c := transform.New(st)
	for _, t := range st.Document.Texts() {
		chars := t.Characters()
		var done []removal
		for off, ch := range chars {
			m, ok := ch.Marks.FirstOfType(TypeSpelling)
			if !ok {
				continue
			}
			pos, _ := m.Position()
			length, _ := m.Length()
			if (pos+1 < length && !continues(chars, off+1, m, document.Shift(1))) ||
				(pos > 0 && !continues(chars, off-1, m, document.Shift(-1))) {
				done = removeRun(c, t.Key(), chars, off, pos, length, m, done)
			}
		}
	}
	if !c.Changed() {
		return st
	}
	return c.Apply(false)
}

type removal struct {
	offset int
	mark   document.Mark
}

func continues(chars []document.Character, off int, m document.Mark, op func(int) int) bool {
	if off < 0 || off >= len(chars) {
		return false
	}
	for _, x := range chars[off].Marks {
		if document.Matches(m, x, op) {
			return true
		}
	}
	return false
}

// removeRun removes each member of the run m belongs to, locating members
// from the run start off-pos.
func removeRun(c *transform.Change, k key.Key, chars []document.Character, off, pos, length int, m document.Mark, done []removal) []removal {
	base := off - pos
	for i := 0; i < length; i++ {
		at := base + i
		if at < 0 || at >= len(chars) {
			continue
		}
		for _, x := range chars[at].Marks {
			if !document.Matches(m, x, document.Shift(i-pos)) {
				continue
			}
			if !removed(done, at, x) {
				c.RemoveMarkByKey(k, at, 1, x)
				done = append(done, removal{at, x})
			}
			break
		}
	}
	return done
}

func removed(done []removal, off int, m document.Mark) bool {
	for _, r := range done {
		if r.offset == off && r.mark.Equal(m) {
			return true
		}
	}
	return false
}
