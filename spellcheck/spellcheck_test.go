package spellcheck

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/iw2rmb/inkwell/document"
	"github.com/iw2rmb/inkwell/transform"
)

var helo = Suggestion{
	Offset:       0,
	Length:       4,
	Message:      "Did you mean 'hello'?",
	ShortMessage: "Spelling mistake",
	Replacements: []Replacement{{Value: "hello"}},
	Rule:         Rule{ID: RuleMisspelling, IssueType: "misspelling"},
}

// decorated returns "helo world" with helo stamped over its first word.
func decorated() (transform.State, *document.Node) {
	tx := document.NewText("helo world")
	doc := document.New(document.NewBlock("paragraph", tx))
	for i := 0; i < 4; i++ {
		doc = doc.AddMarkAt(tx.Key(), i, SpellingMark(helo, i, 4))
	}
	return transform.NewState(doc), tx
}

func collapsedAt(st transform.State, p document.Point) transform.State {
	return transform.New(st).Select(document.Collapsed(p)).Apply(true)
}

func spellingCount(st transform.State) int {
	n := 0
	for _, t := range st.Document.Texts() {
		for _, ch := range t.Characters() {
			n += len(ch.Marks.OfType(TypeSpelling))
		}
	}
	return n
}

func TestSweepStale_InsertInsideRunRemovesWholeRun(t *testing.T) {
	st, tx := decorated()
	st = collapsedAt(st, document.Point{Key: tx.Key(), Offset: 1})
	st = transform.New(st, Transient()).InsertText("x").Apply(true)

	if got, want := st.Document.PlainText(), "hxelo world"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
	if got, want := spellingCount(st), 4; got != want {
		t.Fatalf("before sweep: %d spelling marks, want %d", got, want)
	}
	swept := SweepStale(st)
	if got := spellingCount(swept); got != 0 {
		t.Fatalf("after sweep: %d spelling marks, want 0", got)
	}
	if swept.Selection != st.Selection {
		t.Fatalf("sweep moved the selection: %+v -> %+v", st.Selection, swept.Selection)
	}
}

func TestSweepStale_DeleteInsideRunRemovesWholeRun(t *testing.T) {
	st, tx := decorated()
	st = collapsedAt(st, document.Point{Key: tx.Key(), Offset: 2})
	st = transform.New(st).DeleteBackward().Apply(true)

	if got, want := st.Document.PlainText(), "hlo world"; got != want {
		t.Fatalf("text=%q, want %q", got, want)
	}
	if got := spellingCount(SweepStale(st)); got != 0 {
		t.Fatalf("after sweep: %d spelling marks, want 0", got)
	}
}

func TestSweepStale_IntactRunsSurvive(t *testing.T) {
	st, tx := decorated()
	if got := SweepStale(st); got.Document != st.Document {
		t.Fatalf("sweep of an intact document built a new snapshot")
	}

	st = collapsedAt(st, document.Point{Key: tx.Key(), Offset: 4})
	st = transform.New(st, Transient()).InsertText("!").Apply(true)
	if got, want := spellingCount(SweepStale(st)), 4; got != want {
		t.Fatalf("edit after the run: %d spelling marks, want %d", got, want)
	}
}

func twoBlocks() transform.State {
	doc := document.New(
		document.NewBlock("paragraph", document.NewText("ab")),
		document.NewBlock("paragraph",
			document.NewText("c"),
			document.NewInline("link", document.NewText("de")),
			document.NewText(""),
		),
	)
	return transform.NewState(doc)
}

func TestTag_RestartsPerBlockAndUntags(t *testing.T) {
	st := twoBlocks()
	tagged, req := Tag(st)

	if got, want := req.Text, "ab\ncde"; got != want {
		t.Fatalf("request text=%q, want %q", got, want)
	}
	if got, want := len(req.BlockStarts), 2; got != want || req.BlockStarts[0] != 0 || req.BlockStarts[1] != 3 {
		t.Fatalf("block starts=%v, want [0 3]", req.BlockStarts)
	}
	offs := Offsets(tagged)
	want := [][]int{{0, 1}, {0, 1, 2}}
	for b := range want {
		if len(offs[b]) != len(want[b]) {
			t.Fatalf("block %d offsets=%v, want %v", b, offs[b], want[b])
		}
		for i := range want[b] {
			if offs[b][i] != want[b][i] {
				t.Fatalf("block %d offsets=%v, want %v", b, offs[b], want[b])
			}
		}
	}
	if tagged.Selection != st.Selection {
		t.Fatalf("tagging moved the selection")
	}

	for b, block := range Offsets(Untag(tagged)) {
		for _, o := range block {
			if o != -1 {
				t.Fatalf("block %d still tagged: %v", b, block)
			}
		}
	}
}

func TestRequest_Locate(t *testing.T) {
	req := Request{Text: "ab\ncde", BlockStarts: []int{0, 3}}
	cases := []struct {
		offset int
		want   Location
	}{
		{0, Location{0, 0}},
		{2, Location{0, 2}},
		{3, Location{1, 0}},
		{5, Location{1, 2}},
	}
	for _, tc := range cases {
		got, ok := req.Locate(tc.offset)
		if !ok || got != tc.want {
			t.Fatalf("locate(%d)=%+v ok=%v, want %+v", tc.offset, got, ok, tc.want)
		}
	}
	if _, ok := req.Locate(-1); ok {
		t.Fatalf("negative offset located")
	}
}

func world() Suggestion {
	s := helo
	s.Offset, s.Length, s.Message = 5, 5, "Did you mean 'word'?"
	return s
}

func TestApply_StampsFreshAndDropsStale(t *testing.T) {
	tx := document.NewText("helo world")
	st := transform.NewState(document.New(document.NewBlock("paragraph", tx)))
	tagged, req := Tag(st)

	// The user types inside the first word while the check is in flight.
	edited := collapsedAt(tagged, document.Point{Key: tx.Key(), Offset: 1})
	edited = transform.New(edited, Transient()).InsertText("x").Apply(true)

	got := Apply(edited, req, []Suggestion{helo, world()})
	text, _ := got.Document.Text(tx.Key())
	for i, ch := range text.Characters() {
		if ch.Marks.HasType(TypeOffset) {
			t.Fatalf("offset tag left at %d", i)
		}
		m, has := ch.Marks.FirstOfType(TypeSpelling)
		if wantMark := i >= 6; has != wantMark {
			t.Fatalf("char %d (%q): spelling=%v, want %v", i, ch.Text, has, wantMark)
		}
		if has {
			if pos, _ := m.Position(); pos != i-6 {
				t.Fatalf("char %d: position %d, want %d", i, pos, i-6)
			}
		}
	}
	if got.Selection != edited.Selection {
		t.Fatalf("apply moved the selection")
	}
}

func TestApply_SkipsIgnoredRulesAndIgnoredMessages(t *testing.T) {
	st, tx := decorated()
	st, err := Ignore(transform.New(st).MoveOffsetsTo(0, 4).Apply(false), SpellingMark(helo, 0, 4))
	if err != nil {
		t.Fatalf("ignore: %v", err)
	}
	tagged, req := Tag(st)

	quotes := world()
	quotes.Rule.ID = "EN_QUOTES"
	got := Apply(tagged, req, []Suggestion{helo, quotes})

	text, _ := got.Document.Text(tx.Key())
	for i, ch := range text.Characters() {
		marks := ch.Marks.OfType(TypeSpelling)
		switch {
		case i < 4 && (len(marks) != 1 || !Ignored(marks[0])):
			t.Fatalf("char %d: marks %v, want one ignored mark", i, marks)
		case i >= 4 && len(marks) != 0:
			t.Fatalf("char %d: marks %v, want none", i, marks)
		}
	}

	got = Apply(tagged, req, []Suggestion{quotes}, IgnoreRules())
	if n := spellingCount(got); n != 4+5 {
		t.Fatalf("with no ignored rules: %d spelling marks, want 9", n)
	}
}

func TestSelectError_SelectsRunAndIgnores(t *testing.T) {
	st, tx := decorated()
	st = collapsedAt(st, document.Point{Key: tx.Key(), Offset: 2})

	st, shown := SelectError(st, nil)
	if shown == nil {
		t.Fatalf("no decoration selected")
	}
	if got, want := st.Selection.Anchor(), (document.Point{Key: tx.Key()}); got != want {
		t.Fatalf("anchor=%v, want %v", got, want)
	}
	if got, want := st.Selection.Focus(), (document.Point{Key: tx.Key(), Offset: 4}); got != want {
		t.Fatalf("focus=%v, want %v", got, want)
	}

	if _, again := SelectError(st, shown); again == nil {
		t.Fatalf("expanded selection over the run lost the display")
	}

	ignored, err := Ignore(st, *shown)
	if err != nil {
		t.Fatalf("ignore: %v", err)
	}
	if got, want := ignored.Selection, document.Collapsed(document.Point{Key: tx.Key(), Offset: 4}); got != want {
		t.Fatalf("selection after ignore=%+v, want %+v", got, want)
	}
	text, _ := ignored.Document.Text(tx.Key())
	for i := 0; i < 4; i++ {
		ch, _ := text.Character(i)
		m, _ := ch.Marks.FirstOfType(TypeSpelling)
		if !Ignored(m) {
			t.Fatalf("char %d not ignored", i)
		}
	}

	back := collapsedAt(ignored, document.Point{Key: tx.Key(), Offset: 1})
	if _, shown := SelectError(back, nil); shown != nil {
		t.Fatalf("ignored decoration displayed")
	}
}

func TestSelectError_ClosesDisplay(t *testing.T) {
	st, tx := decorated()
	shown := SpellingMark(helo, 0, 4)

	st = collapsedAt(st, document.Point{Key: tx.Key(), Offset: 1})
	if _, got := SelectError(st, &shown); got != nil {
		t.Fatalf("collapsed cursor kept the display")
	}
	blurred := transform.New(st).Blur().Apply(false)
	if _, got := SelectError(blurred, nil); got != nil {
		t.Fatalf("blurred editor displayed a decoration")
	}
	plain := collapsedAt(st, document.Point{Key: tx.Key(), Offset: 6})
	if _, got := SelectError(plain, nil); got != nil {
		t.Fatalf("undecorated character displayed a decoration")
	}
}

func TestIgnore_StaleDisplay(t *testing.T) {
	st, tx := decorated()
	st = transform.New(st).Select(document.Collapsed(document.Point{Key: tx.Key(), Offset: 5})).Apply(true)

	_, err := Ignore(st, SpellingMark(helo, 0, 4))
	if !errors.Is(err, ErrStaleSuggestion) {
		t.Fatalf("err=%v, want ErrStaleSuggestion", err)
	}
}

func TestReplace(t *testing.T) {
	st, tx := decorated()
	st = collapsedAt(st, document.Point{Key: tx.Key(), Offset: 3})
	st, shown := SelectError(st, nil)
	if shown == nil {
		t.Fatalf("no decoration selected")
	}
	repl := Replacements(*shown)
	if len(repl) != 1 || repl[0] != "hello" {
		t.Fatalf("replacements=%v", repl)
	}

	got := Replace(st, repl[0])
	if text, want := got.Document.PlainText(), "hello world"; text != want {
		t.Fatalf("text=%q, want %q", text, want)
	}
	if n := spellingCount(got); n != 0 {
		t.Fatalf("%d spelling marks survived the replacement", n)
	}
	if sel := got.Selection; !sel.IsCollapsed() || sel.Focus().Offset != 5 {
		t.Fatalf("selection=%+v, want cursor at 5", sel)
	}
}

func TestDictionary_Check(t *testing.T) {
	d := NewDictionary("hello", "help", "world")
	got, err := d.Check(context.Background(), "Helo, world!")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("suggestions=%+v, want one", got)
	}
	s := got[0]
	if s.Offset != 0 || s.Length != 4 {
		t.Fatalf("span=(%d,%d), want (0,4)", s.Offset, s.Length)
	}
	if len(s.Replacements) != 2 || s.Replacements[0].Value != "Hello" || s.Replacements[1].Value != "Help" {
		t.Fatalf("replacements=%+v", s.Replacements)
	}
	if RuleOf(SpellingMark(s, 0, 4)) != s.Rule {
		t.Fatalf("rule did not survive the mark")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := d.Check(ctx, "zzz"); !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v, want context.Canceled", err)
	}
}

func TestTag_ReplacesLeftoverTags(t *testing.T) {
	tx := document.NewText("ab helo")
	st := transform.NewState(document.New(document.NewBlock("paragraph", tx)))
	st, _ = Tag(st)

	// Text typed in front of the tagged run shifts every old tag.
	st = collapsedAt(st, document.Point{Key: tx.Key(), Offset: 0})
	st = transform.New(st, Transient()).InsertText("xx").Apply(true)
	st, req := Tag(st)

	if got, want := fmt.Sprint(Offsets(st)[0]), "[0 1 2 3 4 5 6 7 8]"; got != want {
		t.Fatalf("offsets=%s, want %s", got, want)
	}
	for i, ch := range st.Document.Texts()[0].Characters() {
		if got, want := len(ch.Marks.OfType(TypeOffset)), 1; got != want {
			t.Fatalf("char %d carries %d offset tags, want %d", i, got, want)
		}
	}

	first := helo
	first.Message = "first"
	second := helo
	second.Offset, second.Message = 5, "second"
	got := Apply(st, req, []Suggestion{first, second})

	var marks []byte
	for _, ch := range got.Document.Texts()[0].Characters() {
		m, ok := ch.Marks.FirstOfType(TypeSpelling)
		switch {
		case !ok:
			marks = append(marks, '.')
		case Message(m) == "first":
			marks = append(marks, 'f')
		default:
			marks = append(marks, 's')
		}
	}
	if got, want := string(marks), "ffff.ssss"; got != want {
		t.Fatalf("marks %q, want %q", got, want)
	}
}

func TestDictionary_ConcurrentChecks(t *testing.T) {
	d := NewDictionary("hello", "help", "world")
	texts := []string{"Helo wrld", "STRASSE straße", "hello world", "hepl"}

	want := make([]string, len(texts))
	for i, text := range texts {
		got, err := d.Check(context.Background(), text)
		if err != nil {
			t.Fatalf("check %q: %v", text, err)
		}
		want[i] = fmt.Sprint(got)
	}

	var wg sync.WaitGroup
	errs := make(chan string, 8*len(texts))
	for n := 0; n < 8; n++ {
		for i, text := range texts {
			wg.Add(1)
			go func() {
				defer wg.Done()
				got, err := d.Check(context.Background(), text)
				if err != nil || fmt.Sprint(got) != want[i] {
					errs <- fmt.Sprintf("check %q: got %v (err %v), want %s", text, got, err, want[i])
				}
			}()
		}
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Fatal(e)
	}
}
