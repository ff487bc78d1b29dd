package editor

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/inkwell/spellcheck"
)

// tickMsg is delivered when the check timer armed for seq expires. at is the
// deadline the timer was armed for.
type tickMsg struct {
	seq uint64
	at  time.Time
}

type checkResultMsg struct {
	result CheckResult
}

// effects turns the work requested by a transition into commands. Without a
// checker nothing is scheduled, so the value is never tagged.
func (m Model) effects(eff Effects) tea.Cmd {
	if m.cfg.Checker == nil {
		return nil
	}
	var cmds []tea.Cmd
	if eff.Deferred {
		m.log.Debug("spell check deferred", "reason", "check in flight")
	}
	if t := eff.Tick; t != nil {
		seq, at := t.Seq, t.At
		d := max(at.Sub(m.cfg.Now()), 0)
		cmds = append(cmds, tea.Tick(d, func(time.Time) tea.Msg {
			return tickMsg{seq: seq, at: at}
		}))
	}
	if req := eff.Check; req != nil {
		m.log.Debug("spell check started", "len", len(req.Text), "blocks", len(req.BlockStarts))
		cmds = append(cmds, m.checkCmd(*req))
	}
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	}
	return tea.Batch(cmds...)
}

func (m Model) checkCmd(req spellcheck.Request) tea.Cmd {
	checker, timeout := m.cfg.Checker, m.cfg.CheckTimeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		suggestions, err := checker.Check(ctx, req.Text)
		return checkResultMsg{result: CheckResult{Request: req, Suggestions: suggestions, Err: err}}
	}
}
