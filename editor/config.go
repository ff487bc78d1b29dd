package editor

import (
	"log/slog"
	"time"

	"github.com/iw2rmb/inkwell/document"
	"github.com/iw2rmb/inkwell/spellcheck"
	"github.com/iw2rmb/inkwell/surface"
)

// Config configures the editor Model.
type Config struct {
	// Initial document. Nil starts with one empty paragraph.
	Document *document.Document

	Style  Style
	KeyMap KeyMap

	// Surface controls layout of the rendered document.
	Surface surface.Config

	// Undo depth; 0 means transform.DefaultHistoryLimit, negative disables
	// undo.
	HistoryLimit int

	ReadOnly     bool
	ScrollPolicy ScrollPolicy
	Clipboard    Clipboard

	// Checker runs spell checks. Nil disables checking.
	Checker spellcheck.Checker
	// Debounce timing of checks; zero values mean DefaultCheckWait and
	// DefaultCheckMaxWait.
	CheckWait    time.Duration
	CheckMaxWait time.Duration
	// CheckTimeout bounds one check; 0 means no timeout.
	CheckTimeout time.Duration

	// OnChange is called after every update that changed the value.
	OnChange func(ChangeEvent)

	// Logger receives debug records for deferred checks, dropped results
	// and ignored input. Nil discards them.
	Logger *slog.Logger

	// Now is the clock used for debouncing. Nil means time.Now.
	Now func() time.Time
}

func (c Config) withDefaults() Config {
	if c.CheckWait == 0 {
		c.CheckWait = DefaultCheckWait
	}
	if c.CheckMaxWait == 0 {
		c.CheckMaxWait = DefaultCheckMaxWait
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if len(c.KeyMap.Enter.Keys()) == 0 {
		c.KeyMap = DefaultKeyMap()
	}
	return c
}
