package document

// Mark is a typed decoration attached to a single character. Marks are value
// objects: two marks are equal iff their types and data are equal.
type Mark struct {
	Type string
	Data Data
}

// Mark data fields shared by run decorations. A decoration applied to a
// contiguous range is stored as one mark per character; each copy carries its
// index within the run and the run length so it describes itself without
// consulting its neighbours.
const (
	FieldPosition = "position"
	FieldLength   = "length"
	FieldMessage  = "message"
)

// NewMark returns a mark with normalized data.
func NewMark(typ string, data map[string]any) Mark {
	return Mark{Type: typ, Data: NewData(data)}
}

func (m Mark) Equal(o Mark) bool {
	return m.Type == o.Type && m.Data.Equal(o.Data)
}

// Position returns the run position carried by m.
func (m Mark) Position() (int, bool) { return m.Data.Int(FieldPosition) }

// Length returns the run length carried by m.
func (m Mark) Length() (int, bool) { return m.Data.Int(FieldLength) }

// WithData returns a copy of m with k set to v.
func (m Mark) WithData(k string, v any) Mark {
	return Mark{Type: m.Type, Data: m.Data.With(k, v)}
}

// Shift returns an offset transform adding n.
func Shift(n int) func(int) int {
	return func(p int) int { return p + n }
}

// Matches reports whether a and b denote the same decoration instance, with
// b sitting where op moves a's run position. Callers ask "does my
// neighbour's mark continue my run" with Shift(1) and Shift(-1).
func Matches(a, b Mark, op func(int) int) bool {
	if a.Type != b.Type {
		return false
	}
	ma, _ := a.Data.Text(FieldMessage)
	mb, _ := b.Data.Text(FieldMessage)
	if ma != mb {
		return false
	}
	pa, ok := a.Position()
	if !ok {
		return false
	}
	pb, ok := b.Position()
	if !ok {
		return false
	}
	return op(pa) == pb
}

// MarkSet is an ordered multiset of marks. It is never mutated in place.
type MarkSet []Mark

// Add returns a new set with m appended.
func (s MarkSet) Add(m Mark) MarkSet {
	out := make(MarkSet, 0, len(s)+1)
	out = append(out, s...)
	return append(out, m)
}

// Remove returns a new set without the first mark equal to m, and whether
// one was found.
func (s MarkSet) Remove(m Mark) (MarkSet, bool) {
	for i, x := range s {
		if !x.Equal(m) {
			continue
		}
		out := make(MarkSet, 0, len(s)-1)
		out = append(out, s[:i]...)
		out = append(out, s[i+1:]...)
		if len(out) == 0 {
			out = nil
		}
		return out, true
	}
	return s, false
}

func (s MarkSet) Has(m Mark) bool {
	for _, x := range s {
		if x.Equal(m) {
			return true
		}
	}
	return false
}

// HasType reports whether any mark in s has type typ.
func (s MarkSet) HasType(typ string) bool {
	_, ok := s.FirstOfType(typ)
	return ok
}

func (s MarkSet) FirstOfType(typ string) (Mark, bool) {
	for _, x := range s {
		if x.Type == typ {
			return x, true
		}
	}
	return Mark{}, false
}

func (s MarkSet) OfType(typ string) MarkSet {
	var out MarkSet
	for _, x := range s {
		if x.Type == typ {
			out = append(out, x)
		}
	}
	return out
}

// Without returns the marks of s whose types are not listed.
func (s MarkSet) Without(types ...string) MarkSet {
	if len(types) == 0 {
		return s
	}
	var out MarkSet
outer:
	for _, x := range s {
		for _, t := range types {
			if x.Type == t {
				continue outer
			}
		}
		out = append(out, x)
	}
	return out
}

// Equal reports multiset equality: insertion order is ignored.
func (s MarkSet) Equal(o MarkSet) bool {
	if len(s) != len(o) {
		return false
	}
	used := make([]bool, len(o))
outer:
	for _, x := range s {
		for j, y := range o {
			if !used[j] && x.Equal(y) {
				used[j] = true
				continue outer
			}
		}
		return false
	}
	return true
}

// Character is the smallest addressable unit of text: one grapheme cluster
// and the marks applied to it.
type Character struct {
	Text  string
	Marks MarkSet
}

// WithMarks returns a copy of c carrying marks.
func (c Character) WithMarks(marks MarkSet) Character {
	return Character{Text: c.Text, Marks: marks}
}
