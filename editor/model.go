package editor

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/inkwell/document"
	"github.com/iw2rmb/inkwell/internal/logging"
	"github.com/iw2rmb/inkwell/spellcheck"
	"github.com/iw2rmb/inkwell/surface"
	"github.com/iw2rmb/inkwell/transform"
)

// Model is a Bubble Tea component that edits a rich-text document.
//
// The model renders the document through a surface, maps keys and mouse
// input onto changes, and drives the spell-check round trip through State.
type Model struct {
	cfg   Config
	state State
	surf  *surface.Surface
	log   *slog.Logger

	focused bool

	viewport viewport.Model

	dragging   bool
	dragAnchor document.Point

	// goalX is the column vertical movement aims for; -1 when unset.
	goalX int
}

func New(cfg Config) Model {
	cfg = cfg.withDefaults()
	doc := cfg.Document
	if doc == nil {
		doc = document.New(document.NewBlock(transform.DefaultBlockType, document.NewText("")))
	}
	st := NewState(transform.NewState(doc), transform.NewHistory(cfg.HistoryLimit), cfg.CheckWait, cfg.CheckMaxWait)
	m := Model{
		cfg:      cfg,
		state:    st,
		log:      logging.OrDiscard(cfg.Logger),
		focused:  true,
		viewport: viewport.New(0, 0),
		goalX:    -1,
	}
	m.rebuildContent()
	return m
}

// Value returns the current editor value.
func (m Model) Value() transform.State { return m.state.Value }

// State returns the application state.
func (m Model) State() State { return m.state }

// Surface returns the rendering of the current value.
func (m Model) Surface() *surface.Surface { return m.surf }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) SetSize(width, height int) Model {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	m.viewport.Width = width
	m.viewport.Height = height

	m.rebuildContent()
	m.followCursor()
	return m
}

func (m Model) Focus() Model {
	if !m.focused {
		m.focused = true
		m, _ = m.apply(m.change().Focus(), false)
		m.followCursor()
	}
	return m
}

func (m Model) Blur() Model {
	if m.focused {
		m.focused = false
		m, _ = m.apply(m.change().Blur(), false)
	}
	return m
}

func (m Model) Focused() bool { return m.focused }

// KeyMap returns the bindings in effect.
func (m Model) KeyMap() KeyMap { return m.cfg.KeyMap }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil
	case tea.KeyMsg:
		return m.updateKey(msg)
	case tea.MouseMsg:
		return m.updateMouse(msg)
	case tickMsg:
		st, eff := m.state.OnTick(msg.at, msg.seq)
		return m.commit(st, eff)
	case checkResultMsg:
		if msg.result.Err != nil {
			m.log.Debug("spell check failed", "err", msg.result.Err)
		}
		return m.commit(m.state.OnResult(msg.result), Effects{})
	}
	return m, nil
}

func (m Model) View() string {
	v := m.viewport.View()
	box := m.suggestionView()
	if box == "" {
		return v
	}
	if over, ok := m.overlaySuggestion(v, box); ok {
		return over
	}
	return v + "\n" + box
}

// change starts a change on the current value.
func (m Model) change() *transform.Change {
	return transform.New(m.state.Value, spellcheck.Transient())
}

// apply installs the result of c. Document changes are recorded for undo
// when record is set.
func (m Model) apply(c *transform.Change, record bool) (Model, tea.Cmd) {
	return m.install(c.Apply(true), record)
}

func (m Model) install(next transform.State, record bool) (Model, tea.Cmd) {
	st := m.state
	if record && next.Document != st.Value.Document {
		st.History = st.History.Record(st.Value)
	}
	st, eff := st.OnChange(next, m.cfg.Now())
	return m.commit(st, eff)
}

// commit makes st current and turns eff into commands.
func (m Model) commit(st State, eff Effects) (Model, tea.Cmd) {
	changed := !sameValue(st.Value, m.state.Value) || st.Displayed != m.state.Displayed
	m.state = st
	cmd := m.effects(eff)
	if changed {
		m.rebuildContent()
		m.followCursor()
		if m.cfg.OnChange != nil {
			m.cfg.OnChange(buildChangeEvent(m.state))
		}
	}
	return m, cmd
}

func sameValue(a, b transform.State) bool {
	return a.Document == b.Document && a.Selection == b.Selection && a.Marks.Equal(b.Marks)
}

func (m *Model) rebuildContent() {
	m.surf = surface.Render(m.state.Value.Document, m.cfg.Surface)
	m.viewport.SetContent(m.renderContent())
}

func (m *Model) followCursor() {
	_, row, ok := m.surf.Locate(m.state.Value.Selection.Focus())
	if !ok {
		return
	}
	h := m.viewport.Height - m.viewport.Style.GetVerticalFrameSize()
	if h <= 0 {
		return
	}

	y := m.viewport.YOffset
	if row < y {
		m.viewport.SetYOffset(row)
		return
	}
	if row >= y+h {
		m.viewport.SetYOffset(row - h + 1)
	}
}
