package grapheme

import "testing"

func TestSplitAndCount_MultiRuneGraphemes(t *testing.T) {
	text := "a" + "é" + "b"
	got := Split(text)
	if len(got) != 3 {
		t.Fatalf("split len=%d, want %d", len(got), 3)
	}
	if got[1] != "é" {
		t.Fatalf("split[1]=%q, want %q", got[1], "é")
	}
	if c := Count(text); c != 3 {
		t.Fatalf("count=%d, want %d", c, 3)
	}
	if Split("") != nil {
		t.Fatalf("split of empty text must be nil")
	}
}

func TestWidth_WideAndNarrow(t *testing.T) {
	if got, want := Width("a"), 1; got != want {
		t.Fatalf("width(a)=%d, want %d", got, want)
	}
	if got, want := Width("世"), 2; got != want {
		t.Fatalf("width(世)=%d, want %d", got, want)
	}
}

func TestWords_OffsetsInClusters(t *testing.T) {
	words := Words("helo, wörld!")
	if got, want := len(words), 2; got != want {
		t.Fatalf("words=%d, want %d (%v)", got, want, words)
	}
	if got, want := words[0], (Word{Text: "helo", Offset: 0, Length: 4}); got != want {
		t.Fatalf("first word=%+v, want %+v", got, want)
	}
	if got, want := words[1], (Word{Text: "wörld", Offset: 6, Length: 5}); got != want {
		t.Fatalf("second word=%+v, want %+v", got, want)
	}
}
