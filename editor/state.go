package editor

import (
	"time"

	"github.com/iw2rmb/inkwell/debounce"
	"github.com/iw2rmb/inkwell/document"
	"github.com/iw2rmb/inkwell/spellcheck"
	"github.com/iw2rmb/inkwell/transform"
)

// Spell-check timing of the demo editor.
const (
	DefaultCheckWait    = 3000 * time.Millisecond
	DefaultCheckMaxWait = 30000 * time.Millisecond
)

// State is the application state around the editor value: the value
// itself, the decoration on display, undo history and the bookkeeping of
// the spell-check round trip.
//
// State is a value. The transitions below return a new State and the
// effects the host must carry out; they never block and never start work
// of their own.
type State struct {
	Value     transform.State
	Displayed *document.Mark
	History   transform.History

	check    debounce.Debouncer
	inflight bool
}

// Tick asks the host to call OnTick with Seq at At.
type Tick struct {
	At  time.Time
	Seq uint64
}

// Effects lists the work a transition hands to the host.
type Effects struct {
	Tick  *Tick
	Check *spellcheck.Request
	// Deferred is set when a due check was postponed because another one
	// is in flight.
	Deferred bool
}

// CheckResult is the outcome of a check requested through Effects.Check.
type CheckResult struct {
	Request     spellcheck.Request
	Suggestions []spellcheck.Suggestion
	Err         error
}

// NewState returns the state for value with the given check timing.
func NewState(value transform.State, history transform.History, wait, maxWait time.Duration) State {
	return State{
		Value:   value,
		History: history,
		check:   debounce.Debouncer{Wait: wait, MaxWait: maxWait},
	}
}

// Inflight reports whether a check is outstanding.
func (s State) Inflight() bool { return s.inflight }

// CheckPending reports whether a check is scheduled.
func (s State) CheckPending() bool { return s.check.Pending() }

// OnChange installs next as the editor value.
//
// Semantics:
//   - a document change (re)schedules the check
//   - the decoration under the selection is selected or closed
//   - decoration runs broken by the change are removed
func (s State) OnChange(next transform.State, now time.Time) (State, Effects) {
	var eff Effects
	if next.Document != s.Value.Document {
		at, seq := s.check.Call(now)
		eff.Tick = &Tick{At: at, Seq: seq}
	}
	s.Value, s.Displayed = spellcheck.SelectError(next, s.Displayed)
	s.Value = spellcheck.SweepStale(s.Value)
	return s, eff
}

// OnTick handles the timer armed for seq. When the check is due it tags the
// value and asks for the check, unless one is already in flight, in which
// case the check is scheduled again. At most one check is in flight.
func (s State) OnTick(now time.Time, seq uint64) (State, Effects) {
	if !s.check.Fire(now, seq) {
		return s, Effects{}
	}
	return s.start(now)
}

// FlushCheck runs a scheduled check now instead of at its deadline.
func (s State) FlushCheck(now time.Time) (State, Effects) {
	if !s.check.Flush() {
		return s, Effects{}
	}
	return s.start(now)
}

// CancelCheck drops a scheduled check.
func (s State) CancelCheck() State {
	s.check.Cancel()
	return s
}

func (s State) start(now time.Time) (State, Effects) {
	var eff Effects
	if s.inflight {
		at, seq := s.check.Call(now)
		eff.Tick = &Tick{At: at, Seq: seq}
		eff.Deferred = true
		return s, eff
	}
	tagged, req := spellcheck.Tag(s.Value)
	s.Value = tagged
	s.inflight = true
	eff.Check = &req
	return s, eff
}

// OnResult applies a finished check. Suggestions for text that changed
// since the request are dropped; a failed check only removes its tags.
func (s State) OnResult(r CheckResult) State {
	s.inflight = false
	if r.Err != nil {
		s.Value = spellcheck.Untag(s.Value)
		return s
	}
	s.Value = spellcheck.Apply(s.Value, r.Request, r.Suggestions)
	return s
}
