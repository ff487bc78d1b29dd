// Package editor provides a Bubble Tea rich-text editor component.
//
// The package maps keys and mouse input onto document changes, renders the
// document through a surface inside a viewport, and runs spell checks in
// the background. Checks are debounced on document changes, at most one is
// in flight, and their suggestions are applied only to text that did not
// change while the check ran.
package editor
