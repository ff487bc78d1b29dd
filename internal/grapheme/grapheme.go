// Package grapheme splits text into the clusters a Character holds and
// measures them for monospace layout.
package grapheme

import (
	"unicode"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Split returns grapheme clusters for text in visual order.
func Split(text string) []string {
	if text == "" {
		return nil
	}
	g := uniseg.NewGraphemes(text)
	out := make([]string, 0, len(text))
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// Count returns the number of grapheme clusters in text.
func Count(text string) int {
	if text == "" {
		return 0
	}
	return uniseg.GraphemeClusterCount(text)
}

// Width returns the terminal cell width of a single cluster.
func Width(cluster string) int {
	w := runewidth.StringWidth(cluster)
	if w <= 0 {
		w = uniseg.StringWidth(cluster)
	}
	if w < 0 {
		return 0
	}
	return w
}

// Word is a word segment with its position measured in clusters.
type Word struct {
	Text   string
	Offset int
	Length int
}

// Words returns the segments of text that contain at least one letter,
// positioned by cluster offset.
func Words(text string) []Word {
	var out []Word
	offset := 0
	state := -1
	rest := text
	for len(rest) > 0 {
		var seg string
		seg, rest, state = uniseg.FirstWordInString(rest, state)
		n := Count(seg)
		if hasLetter(seg) {
			out = append(out, Word{Text: seg, Offset: offset, Length: n})
		}
		offset += n
	}
	return out
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
