package document

import "github.com/iw2rmb/inkwell/key"

// Point addresses a cursor position: a text key and a character offset.
type Point struct {
	Key    key.Key
	Offset int
}

// Selection is an anchor/focus pair. IsBackward is true when the focus
// precedes the anchor in document order.
type Selection struct {
	AnchorKey    key.Key
	AnchorOffset int
	FocusKey     key.Key
	FocusOffset  int
	IsBackward   bool
	IsBlurred    bool
}

// SelectionSpec is the caller-supplied description validated by NewSelection.
type SelectionSpec struct {
	AnchorKey    key.Key
	AnchorOffset int
	FocusKey     key.Key
	FocusOffset  int
	IsBackward   bool
	IsBlurred    bool
}

// NewSelection validates spec. Empty keys and negative offsets are caller
// bugs and are rejected with an error wrapping ErrInvalidSelectionSpec.
func NewSelection(spec SelectionSpec) (Selection, error) {
	switch {
	case spec.AnchorKey.IsZero():
		return Selection{}, &SelectionError{Field: "anchorKey", Message: "must not be empty"}
	case spec.FocusKey.IsZero():
		return Selection{}, &SelectionError{Field: "focusKey", Message: "must not be empty"}
	case spec.AnchorOffset < 0:
		return Selection{}, &SelectionError{Field: "anchorOffset", Message: "must not be negative"}
	case spec.FocusOffset < 0:
		return Selection{}, &SelectionError{Field: "focusOffset", Message: "must not be negative"}
	}
	return Selection(spec), nil
}

// Collapsed returns a collapsed selection at p.
func Collapsed(p Point) Selection {
	return Selection{AnchorKey: p.Key, AnchorOffset: p.Offset, FocusKey: p.Key, FocusOffset: p.Offset}
}

func (s Selection) Anchor() Point { return Point{Key: s.AnchorKey, Offset: s.AnchorOffset} }

func (s Selection) Focus() Point { return Point{Key: s.FocusKey, Offset: s.FocusOffset} }

func (s Selection) IsCollapsed() bool { return s.Anchor() == s.Focus() }

func (s Selection) IsExpanded() bool { return !s.IsCollapsed() }

// IsSet reports whether the selection points anywhere.
func (s Selection) IsSet() bool { return !s.AnchorKey.IsZero() && !s.FocusKey.IsZero() }

// Start returns the earlier of anchor and focus.
func (s Selection) Start() Point {
	if s.IsBackward {
		return s.Focus()
	}
	return s.Anchor()
}

// End returns the later of anchor and focus.
func (s Selection) End() Point {
	if s.IsBackward {
		return s.Anchor()
	}
	return s.Focus()
}

// CollapseToEnd moves the anchor onto the focus point.
func (s Selection) CollapseToEnd() Selection {
	s.AnchorKey, s.AnchorOffset = s.FocusKey, s.FocusOffset
	s.IsBackward = false
	return s
}

// CollapseToStart collapses onto the earlier point.
func (s Selection) CollapseToStart() Selection {
	p := s.Start()
	out := Collapsed(p)
	out.IsBlurred = s.IsBlurred
	return out
}

// MoveOffsetsTo keeps both keys and replaces the offsets.
func (s Selection) MoveOffsetsTo(anchorOffset, focusOffset int) Selection {
	s.AnchorOffset, s.FocusOffset = anchorOffset, focusOffset
	return s
}

func clampInt(v, min, max int) int {
	if max < min {
		return min
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ClampPoint clamps p into d. A point on a key that is not a text node of d
// moves to the start of the first text; ok is false when d has no text.
func (d *Document) ClampPoint(p Point) (Point, bool) {
	if text, ok := d.Text(p.Key); ok {
		return Point{Key: p.Key, Offset: clampInt(p.Offset, 0, text.Len())}, true
	}
	texts := d.Texts()
	if len(texts) == 0 {
		return Point{}, false
	}
	return Point{Key: texts[0].key, Offset: 0}, true
}

// Normalize clamps both points into d and recomputes IsBackward.
func (s Selection) Normalize(d *Document) Selection {
	if !s.IsSet() {
		return s
	}
	_, anchorOK := d.Text(s.AnchorKey)
	_, focusOK := d.Text(s.FocusKey)
	if !anchorOK || !focusOK {
		p, ok := d.ClampPoint(Point{})
		if !ok {
			return Selection{IsBlurred: s.IsBlurred}
		}
		out := Collapsed(p)
		out.IsBlurred = s.IsBlurred
		return out
	}
	anchor, _ := d.ClampPoint(s.Anchor())
	focus, _ := d.ClampPoint(s.Focus())
	return Selection{
		AnchorKey:    anchor.Key,
		AnchorOffset: anchor.Offset,
		FocusKey:     focus.Key,
		FocusOffset:  focus.Offset,
		IsBackward:   d.ComparePoints(focus, anchor) < 0,
		IsBlurred:    s.IsBlurred,
	}
}
