package spellcheck

import (
	"slices"

	"github.com/iw2rmb/inkwell/document"
	"github.com/iw2rmb/inkwell/key"
	"github.com/iw2rmb/inkwell/transform"
)

// DefaultIgnoredRules lists rules whose findings are never shown.
var DefaultIgnoredRules = []string{"EN_QUOTES"}

// Option configures Apply.
type Option func(*options)

type options struct {
	ignoredRules []string
}

// IgnoreRules replaces DefaultIgnoredRules.
func IgnoreRules(ids ...string) Option {
	return func(o *options) {
		o.ignoredRules = ids
	}
}

// Apply takes the response to req and decorates the document with it.
//
// Semantics:
//   - Every offset tag and every spelling mark the user has not ignored is
//     removed, whatever the response holds.
//   - A suggestion is stamped only where its first character still carries
//     the tag the request assigned to its offset and each following
//     character carries the next tag. Anything else means the text changed
//     after the request was sent, and the suggestion is dropped.
//   - Suggestions of ignored rules, and suggestions the user already
//     ignored at that place, are skipped.
//
// The cursor does not move.
func Apply(st transform.State, req Request, suggestions []Suggestion, opts ...Option) transform.State {
	o := options{ignoredRules: DefaultIgnoredRules}
	for _, opt := range opts {
		opt(&o)
	}

	type site struct {
		text *document.Node
		at   int
	}
	c := transform.New(st)
	sites := make(map[Location][]site)
	for _, t := range st.Document.Texts() {
		for i, ch := range t.Characters() {
			for _, m := range ch.Marks {
				if m.Type == TypeOffset || (m.Type == TypeSpelling && !Ignored(m)) {
					c.RemoveMarkByKey(t.Key(), i, 1, m)
				}
			}
			if tag, ok := tagOf(ch); ok {
				sites[tag] = append(sites[tag], site{text: t, at: i})
			}
		}
	}

	for _, s := range suggestions {
		if s.Length <= 0 || slices.Contains(o.ignoredRules, s.Rule.ID) {
			continue
		}
		loc, ok := req.Locate(s.Offset)
		if !ok {
			continue
		}
		for _, p := range sites[loc] {
			chars := p.text.Characters()
			if !unchanged(chars, p.at, loc, s.Length) || ignoredAt(chars[p.at], s) {
				continue
			}
			stamp(c, p.text.Key(), s, p.at, len(chars))
		}
	}
	if !c.Changed() {
		return st
	}
	return c.Apply(false)
}

// unchanged reports whether the length-1 characters after at carry the
// tags following loc.
func unchanged(chars []document.Character, at int, loc Location, length int) bool {
	for i := 1; i < length; i++ {
		if at+i >= len(chars) {
			return false
		}
		tag, ok := tagOf(chars[at+i])
		if !ok || tag != (Location{Block: loc.Block, Offset: loc.Offset + i}) {
			return false
		}
	}
	return true
}

func ignoredAt(ch document.Character, s Suggestion) bool {
	for _, m := range ch.Marks.OfType(TypeSpelling) {
		if Message(m) == s.Message && Ignored(m) {
			return true
		}
	}
	return false
}

func stamp(c *transform.Change, k key.Key, s Suggestion, at, size int) {
	length := min(s.Length, size-at)
	for i := 0; i < length; i++ {
		c.AddMarkByKey(k, at+i, 1, SpellingMark(s, i, length))
	}
}
