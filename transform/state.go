package transform

import "github.com/iw2rmb/inkwell/document"

// State is the immutable editor value: a document snapshot, a selection into
// it and the marks the next insertion will carry.
type State struct {
	Document  *document.Document
	Selection document.Selection

	// Marks overrides inherited marks for the next inserted text. It is set
	// by ToggleMark on a collapsed selection and cleared when the cursor
	// moves.
	Marks document.MarkSet
}

// NewState returns a State with the cursor at the start of doc.
func NewState(doc *document.Document) State {
	s := State{Document: doc}
	if p, ok := doc.ClampPoint(document.Point{}); ok {
		s.Selection = document.Collapsed(p)
	}
	return s
}

// Option configures a Change.
type Option func(*options)

type options struct {
	transient []string
}

// WithTransientTypes lists mark types that inserted text never inherits from
// its neighbours. Decorations whose runs are validated after every edit use
// this so that typing inside a run breaks it.
func WithTransientTypes(types ...string) Option {
	return func(o *options) {
		o.transient = append(o.transient, types...)
	}
}
