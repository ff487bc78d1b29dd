// Package debounce delays an action until calls to it stop arriving.
//
// A Debouncer owns no timers and starts no goroutines. The host records each
// call with Call, arms a timer of its own for the returned deadline, and
// reports the timer back with Fire; only the most recent timer can fire.
package debounce

import "time"

// Debouncer coalesces bursts of calls into one trailing invocation.
//
// Semantics:
//   - The invocation is due Wait after the last call of a burst.
//   - With MaxWait > 0 it is due no later than MaxWait after the first call
//     of the burst, so a steady stream of calls cannot postpone it forever.
//   - After an invocation, Cancel or Flush, the next call starts a new burst.
//
// The zero value invokes immediately on the next Fire.
type Debouncer struct {
	Wait    time.Duration
	MaxWait time.Duration

	seq      uint64
	pending  bool
	first    time.Time
	deadline time.Time
}

// New returns a Debouncer.
func New(wait, maxWait time.Duration) *Debouncer {
	return &Debouncer{Wait: wait, MaxWait: maxWait}
}

// Call records a call at now. It returns when the invocation is due and the
// sequence number the host passes back to Fire; earlier sequence numbers are
// superseded.
func (d *Debouncer) Call(now time.Time) (time.Time, uint64) {
	if !d.pending {
		d.pending = true
		d.first = now
	}
	d.seq++
	due := now.Add(d.Wait)
	if d.MaxWait > 0 {
		if ceiling := d.first.Add(d.MaxWait); ceiling.Before(due) {
			due = ceiling
		}
	}
	d.deadline = due
	return due, d.seq
}

// Fire reports whether the timer armed for seq should invoke now. It is
// false for superseded timers, early timers and when nothing is pending.
func (d *Debouncer) Fire(now time.Time, seq uint64) bool {
	if !d.pending || seq != d.seq || now.Before(d.deadline) {
		return false
	}
	d.pending = false
	return true
}

// Cancel drops the pending invocation.
func (d *Debouncer) Cancel() {
	d.pending = false
	d.seq++
}

// Flush drops the pending invocation and reports whether there was one; the
// caller invokes immediately when it returns true.
func (d *Debouncer) Flush() bool {
	if !d.pending {
		return false
	}
	d.Cancel()
	return true
}

// Pending reports whether an invocation is due.
func (d *Debouncer) Pending() bool { return d.pending }

// Deadline returns when the pending invocation is due.
func (d *Debouncer) Deadline() (time.Time, bool) {
	return d.deadline, d.pending
}
