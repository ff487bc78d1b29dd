package editor

import (
	"github.com/iw2rmb/inkwell/document"
	"github.com/iw2rmb/inkwell/resolve"
)

// screenToPoint maps viewport-local mouse coordinates to a document point.
//
// Coordinates are in terminal cells relative to the editor's viewport: (0,0)
// is the top-left of the visible content region.
func (m *Model) screenToPoint(x, y int) (document.Point, bool) {
	if m.surf == nil {
		return document.Point{}, false
	}
	if x < 0 {
		x = 0
	}
	return m.surf.Resolve(float64(x), float64(y+m.viewport.YOffset))
}

// screenToDropPoint maps viewport-local coordinates to the point where
// dropped content lands. Voids never receive the drop; it goes next to them.
func (m *Model) screenToDropPoint(x, y int) (document.Point, bool) {
	if m.surf == nil {
		return document.Point{}, false
	}
	doc := m.state.Value.Document
	return resolve.FindDropPoint(m.surf, float64(x)+0.5, float64(y+m.viewport.YOffset)+0.5, doc)
}

// lineTarget resolves the point dy rows away from the focus, aiming at
// column x. A negative x keeps the focus column.
func (m *Model) lineTarget(x, dy int) (document.Point, int, bool) {
	fx, fy, ok := m.surf.Locate(m.state.Value.Selection.Focus())
	if !ok {
		return document.Point{}, 0, false
	}
	if x < 0 {
		x = fx
	}
	y := fy + dy
	if y < 0 || y >= m.surf.Rows() {
		return document.Point{}, x, false
	}
	p, ok := m.surf.Resolve(float64(x), float64(y))
	return p, x, ok
}

// lineEdge resolves the start or end of the focus row.
func (m *Model) lineEdge(end bool) (document.Point, bool) {
	_, fy, ok := m.surf.Locate(m.state.Value.Selection.Focus())
	if !ok {
		return document.Point{}, false
	}
	x := -1.0
	if end {
		x = float64(m.surf.Width() + 1)
	}
	return m.surf.Resolve(x, float64(fy))
}
