package editor

import (
	"github.com/iw2rmb/inkwell/document"
	"github.com/iw2rmb/inkwell/transform"
)

// ChangeEvent describes the editor value after an update that changed it.
type ChangeEvent struct {
	Value     transform.State
	Displayed *document.Mark

	// Text is the plain text of the document.
	Text string
}

func buildChangeEvent(s State) ChangeEvent {
	return ChangeEvent{
		Value:     s.Value,
		Displayed: s.Displayed,
		Text:      s.Value.Document.PlainText(),
	}
}
