// Package spellcheck maintains spelling decorations on a document that keeps
// changing while checks are in flight.
//
// A decoration covering a run of characters is stored as one "spelling"
// mark per character, each carrying its position in the run and the run
// length. Edits that land inside a run break the positional chain, and
// SweepStale removes such runs whole.
//
// A check is a round trip: Tag stamps every character with an "offset" mark
// and returns the Request to send; Apply takes the response and stamps only
// those suggestions whose characters still carry the expected tags, so
// results for text that changed in the meantime are dropped.
package spellcheck
