package surface

import (
	"strings"

	"github.com/iw2rmb/inkwell/document"
)

// View renders the surface for a terminal, one line per row. The selection
// is highlighted and, when focused with a collapsed selection, the cursor is
// drawn on the cell it sits before; a cursor at the end of a row is drawn as
// a one-cell placeholder.
func (s *Surface) View(st Style, sel document.Selection, focused bool) string {
	cursorX, cursorY := -1, -1
	if focused && sel.IsSet() && sel.IsCollapsed() {
		if x, y, ok := s.Locate(sel.Focus()); ok {
			cursorX, cursorY = x, y
		}
	}
	hasSel := sel.IsSet() && sel.IsExpanded()
	start, end := sel.Start(), sel.End()

	lines := make([]string, len(s.rows))
	for i, r := range s.rows {
		var sb strings.Builder
		drewCursor := false
		for _, l := range r.leaves {
			for j, c := range l.clusters {
				style := st.Text
				if l.label {
					style = st.Void.Inherit(style)
				}
				for _, m := range l.marks {
					if st.Skip != nil && st.Skip(m) {
						continue
					}
					if ms, ok := st.Marks[m.Type]; ok {
						style = ms.Inherit(style)
					}
				}
				if hasSel && !l.label {
					p := document.Point{Key: l.text, Offset: l.start + j}
					if s.doc.ComparePoints(start, p) <= 0 && s.doc.ComparePoints(p, end) < 0 {
						style = st.Selection.Inherit(style)
					}
				}
				if i == cursorY && l.cellAt(j) == cursorX && !drewCursor {
					style = st.Cursor.Inherit(style)
					drewCursor = true
				}
				sb.WriteString(style.Render(c))
			}
		}
		if i == cursorY && !drewCursor {
			sb.WriteString(st.Cursor.Render(" "))
		}
		line := sb.String()
		if r.block != nil {
			if bs, ok := st.Blocks[r.block.Type()]; ok {
				line = bs.Render(line)
			}
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// Width returns the widest row in cells.
func (s *Surface) Width() int {
	w := 0
	for _, r := range s.rows {
		w = max(w, r.width)
	}
	return w
}
