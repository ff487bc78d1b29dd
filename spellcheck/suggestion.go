package spellcheck

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"

	"github.com/iw2rmb/inkwell/internal/grapheme"
)

// Suggestion is one finding of a checker. Offset and Length count
// characters of the request text.
type Suggestion struct {
	Offset       int           `json:"offset"`
	Length       int           `json:"length"`
	Message      string        `json:"message"`
	ShortMessage string        `json:"shortMessage"`
	Replacements []Replacement `json:"replacements"`
	Rule         Rule          `json:"rule"`
}

type Replacement struct {
	Value string `json:"value"`
}

type Rule struct {
	ID        string `json:"id"`
	IssueType string `json:"issueType"`
}

// Checker checks plain text.
type Checker interface {
	Check(ctx context.Context, text string) ([]Suggestion, error)
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(ctx context.Context, text string) ([]Suggestion, error)

func (f CheckerFunc) Check(ctx context.Context, text string) ([]Suggestion, error) {
	return f(ctx, text)
}

// RuleMisspelling is the rule reported by Dictionary.
const RuleMisspelling = "MORFOLOGIK_RULE_EN_US"

// Dictionary is a word-list checker. Words are compared case-insensitively;
// replacements are the known words within MaxDistance edits. A Dictionary
// is read-only after construction and safe for concurrent checks.
type Dictionary struct {
	MaxDistance     int
	MaxReplacements int

	words map[string]string // folded -> as given
	list  []entry
}

type entry struct {
	word, folded string
}

// NewDictionary returns a checker knowing words.
func NewDictionary(words ...string) *Dictionary {
	d := &Dictionary{
		MaxDistance:     2,
		MaxReplacements: 3,
		words:           make(map[string]string, len(words)),
	}
	fold := cases.Fold()
	for _, w := range words {
		k := fold.String(w)
		if _, ok := d.words[k]; ok {
			continue
		}
		d.words[k] = w
		d.list = append(d.list, entry{word: w, folded: k})
	}
	sort.Slice(d.list, func(i, j int) bool { return d.list[i].word < d.list[j].word })
	return d
}

// Check reports every word of text that the dictionary does not know.
func (d *Dictionary) Check(ctx context.Context, text string) ([]Suggestion, error) {
	// Casers are stateful; checks may run concurrently.
	fold := cases.Fold()
	var out []Suggestion
	for _, w := range grapheme.Words(text) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		folded := fold.String(w.Text)
		if _, ok := d.words[folded]; ok {
			continue
		}
		out = append(out, Suggestion{
			Offset:       w.Offset,
			Length:       w.Length,
			Message:      fmt.Sprintf("Possible spelling mistake found: %q", w.Text),
			ShortMessage: "Spelling mistake",
			Replacements: d.replacements(w.Text, folded),
			Rule:         Rule{ID: RuleMisspelling, IssueType: "misspelling"},
		})
	}
	return out, nil
}

func (d *Dictionary) replacements(word, folded string) []Replacement {
	type cand struct {
		word string
		dist int
	}
	var cands []cand
	for _, e := range d.list {
		if dist := levenshtein.ComputeDistance(folded, e.folded); dist <= d.MaxDistance {
			cands = append(cands, cand{e.word, dist})
		}
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].dist < cands[j].dist })
	if d.MaxReplacements > 0 && len(cands) > d.MaxReplacements {
		cands = cands[:d.MaxReplacements]
	}
	out := make([]Replacement, 0, len(cands))
	for _, c := range cands {
		out = append(out, Replacement{Value: matchCase(word, c.word)})
	}
	return out
}

// matchCase capitalizes repl when word starts with an upper-case letter.
func matchCase(word, repl string) string {
	if word == "" || repl == "" {
		return repl
	}
	if !unicode.IsUpper([]rune(word)[0]) {
		return repl
	}
	r := []rune(repl)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
