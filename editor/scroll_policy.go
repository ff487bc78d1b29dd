package editor

// ScrollPolicy decides whether the surface may scroll away from the cursor.
type ScrollPolicy int

const (
	// ScrollAllowManual lets wheel events move the surface independently of
	// the selection focus.
	ScrollAllowManual ScrollPolicy = iota
	// ScrollFollowCursorOnly drops wheel events; the surface only moves to
	// keep the focus point visible.
	ScrollFollowCursorOnly
)
