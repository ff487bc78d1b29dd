package spellcheck

import (
	"github.com/iw2rmb/inkwell/document"
	"github.com/iw2rmb/inkwell/transform"
)

// Mark types owned by this package.
const (
	TypeSpelling = "spelling"
	TypeOffset   = "offset"
)

// Mark data fields.
const (
	FieldShortMessage = "shortMessage"
	FieldReplacements = "replacements"
	FieldRule         = "rule"
	FieldIgnored      = "ignored"
	FieldBlock        = "block"
	FieldOffset       = "offset"
)

// Transient is the change option editors pass so that typed text never
// inherits decorations from its neighbours.
func Transient() transform.Option {
	return transform.WithTransientTypes(TypeSpelling, TypeOffset)
}

// SpellingMark returns the mark stamped on the character at position of a
// run of length characters flagged by s.
func SpellingMark(s Suggestion, position, length int) document.Mark {
	repl := make([]any, len(s.Replacements))
	for i, r := range s.Replacements {
		repl[i] = map[string]any{"value": r.Value}
	}
	return document.NewMark(TypeSpelling, map[string]any{
		document.FieldPosition: position,
		document.FieldLength:   length,
		document.FieldMessage:  s.Message,
		FieldShortMessage:      s.ShortMessage,
		FieldReplacements:      repl,
		FieldRule:              map[string]any{"id": s.Rule.ID, "issueType": s.Rule.IssueType},
		FieldIgnored:           false,
	})
}

// Message returns the message of a spelling mark.
func Message(m document.Mark) string {
	s, _ := m.Data.Text(document.FieldMessage)
	return s
}

// Ignored reports whether the user dismissed the decoration m belongs to.
func Ignored(m document.Mark) bool { return m.Data.Bool(FieldIgnored) }

// Replacements returns the replacement values carried by m.
func Replacements(m document.Mark) []string {
	var out []string
	switch v := m.Data[FieldReplacements].(type) {
	case []any:
		for _, e := range v {
			if d, ok := e.(document.Data); ok {
				if s, ok := d.Text("value"); ok {
					out = append(out, s)
				}
			}
		}
	case []string:
		out = append(out, v...)
	}
	return out
}

// RuleOf returns the rule carried by m.
func RuleOf(m document.Mark) Rule {
	d, _ := m.Data[FieldRule].(document.Data)
	id, _ := d.Text("id")
	typ, _ := d.Text("issueType")
	return Rule{ID: id, IssueType: typ}
}

func offsetMark(block, offset int) document.Mark {
	return document.NewMark(TypeOffset, map[string]any{FieldBlock: block, FieldOffset: offset})
}

// tagOf reads the offset tag of c.
func tagOf(c document.Character) (Location, bool) {
	m, ok := c.Marks.FirstOfType(TypeOffset)
	if !ok {
		return Location{}, false
	}
	b, ok1 := m.Data.Int(FieldBlock)
	o, ok2 := m.Data.Int(FieldOffset)
	if !ok1 || !ok2 {
		return Location{}, false
	}
	return Location{Block: b, Offset: o}, true
}
