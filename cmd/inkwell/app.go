package main

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/inkwell/document"
	"github.com/iw2rmb/inkwell/editor"
	"github.com/iw2rmb/inkwell/store"
)

var (
	quitKey = key.NewBinding(key.WithKeys("esc", "ctrl+q"), key.WithHelp("esc", "quit"))
	helpKey = key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help"))

	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// app hosts the editor and persists documents it asks to save.
type app struct {
	ctx    context.Context
	store  *store.Store
	name   string
	log    *slog.Logger
	editor editor.Model
	help   help.Model

	status string
	width  int
	height int
}

type savedMsg struct {
	written bool
	err     error
}

func newApp(ctx context.Context, st *store.Store, name string, m editor.Model, log *slog.Logger) app {
	return app{ctx: ctx, store: st, name: name, log: log, editor: m, help: help.New()}
}

func (a app) Init() tea.Cmd { return a.editor.Init() }

func (a app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.help.Width = msg.Width
		a.editor = a.editor.SetSize(msg.Width, a.editorHeight())
		return a, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, quitKey):
			return a, tea.Quit
		case key.Matches(msg, helpKey):
			a.help.ShowAll = !a.help.ShowAll
			a.editor = a.editor.SetSize(a.width, a.editorHeight())
			return a, nil
		}
	case editor.SaveMsg:
		return a, a.save(msg.Document)
	case savedMsg:
		switch {
		case msg.err != nil:
			a.log.Error("save failed", "name", a.name, "err", msg.err)
			a.status = "save failed: " + msg.err.Error()
		case msg.written:
			a.status = "saved " + a.name
		default:
			a.status = a.name + " unchanged"
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.editor, cmd = a.editor.Update(msg)
	return a, cmd
}

func (a app) save(doc *document.Document) tea.Cmd {
	ctx, st, name := a.ctx, a.store, a.name
	return func() tea.Msg {
		written, err := st.Save(ctx, name, doc)
		return savedMsg{written: written, err: err}
	}
}

func (a app) editorHeight() int {
	return max(a.height-lipgloss.Height(a.footer()), 0)
}

func (a app) footer() string {
	status := a.status
	if status == "" {
		status = a.name
	}
	return statusStyle.Render(status) + "\n" + a.help.View(a.editor.KeyMap())
}

func (a app) View() string {
	return a.editor.View() + "\n" + a.footer()
}
