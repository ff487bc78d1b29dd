// Package transform records primitive edits against one document snapshot
// and replays them atomically.
//
// A Change is bound to the State it was created from. Builder calls never
// fail: absent keys and out-of-range offsets are skipped when the change is
// applied, because decoration passes routinely race with user edits.
package transform
