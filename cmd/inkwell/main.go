// Command inkwell edits rich-text documents in the terminal and keeps them
// in a SQLite snapshot store.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/iw2rmb/inkwell"
	"github.com/iw2rmb/inkwell/document"
	"github.com/iw2rmb/inkwell/editor"
	"github.com/iw2rmb/inkwell/internal/logging"
	"github.com/iw2rmb/inkwell/spellcheck"
	"github.com/iw2rmb/inkwell/store"
)

// CLI defines the command-line interface for inkwell.
type CLI struct {
	Globals

	Edit    EditCmd    `cmd:"" help:"Edit a document in the terminal"`
	Export  ExportCmd  `cmd:"" help:"Write a stored document as JSON or YAML"`
	Import  ImportCmd  `cmd:"" help:"Store a JSON or YAML document"`
	List    ListCmd    `cmd:"" help:"List stored documents"`
	Rm      RmCmd      `cmd:"" help:"Delete a stored document"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// Globals are the flags shared by every command.
type Globals struct {
	DB        string `name:"db" help:"Snapshot database path" default:"inkwell.db" type:"path"`
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)" default:"info" enum:"debug,info,warn,error"`
	LogFormat string `name:"log-format" help:"Log format (text, json)" default:"text" enum:"text,json"`
	LogFile   string `name:"log-file" help:"Append logs to this file instead of stderr" type:"path"`

	Stdout io.Writer `kong:"-"`
}

func (g *Globals) stdout() io.Writer {
	if g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

// logger builds the command logger. The editor owns the terminal, so
// interactive commands log only to --log-file.
func (g *Globals) logger(interactive bool) (*slog.Logger, func(), error) {
	level, err := logging.ParseLevel(g.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	format, err := logging.ParseFormat(g.LogFormat)
	if err != nil {
		return nil, nil, err
	}
	if g.LogFile == "" {
		if interactive {
			return logging.Discard(), func() {}, nil
		}
		return logging.New(os.Stderr, level, format), func() {}, nil
	}
	f, err := os.OpenFile(g.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return logging.New(f, level, format), func() { _ = f.Close() }, nil
}

func (g *Globals) open(ctx context.Context, log *slog.Logger) (*store.Store, error) {
	return store.Open(ctx, store.Config{Path: g.DB, Logger: log})
}

// EditCmd opens a document in the terminal editor. Unknown names start
// from an empty document.
type EditCmd struct {
	Name         string        `arg:"" help:"Document name"`
	Words        string        `help:"Word list for spell checking, one word per line" type:"existingfile"`
	CheckWait    time.Duration `name:"check-wait" help:"Idle time before a spell check" default:"3s"`
	CheckMaxWait time.Duration `name:"check-max-wait" help:"Longest delay of a spell check while typing" default:"30s"`
	CheckTimeout time.Duration `name:"check-timeout" help:"Time limit of one spell check" default:"10s"`
	ReadOnly     bool          `name:"read-only" help:"Open without editing"`
	Color        string        `help:"Color profile (auto, none, ansi, ansi256, truecolor)" default:"auto" enum:"auto,none,ansi,ansi256,truecolor"`
}

func (c *EditCmd) Run(g *Globals) error {
	ctx := context.Background()
	log, done, err := g.logger(true)
	if err != nil {
		return err
	}
	defer done()

	st, err := g.open(ctx, log)
	if err != nil {
		return err
	}
	defer st.Close()

	doc, err := st.Load(ctx, c.Name)
	switch {
	case errors.Is(err, store.ErrNotFound):
		log.Info("new document", "name", c.Name)
	case err != nil:
		return err
	}

	checker, err := loadChecker(c.Words)
	if err != nil {
		return err
	}

	m := editor.New(editor.Config{
		Document:     doc,
		Style:        editor.DefaultStyleFor(renderer(os.Stdout, c.Color)),
		ReadOnly:     c.ReadOnly,
		Checker:      checker,
		CheckWait:    c.CheckWait,
		CheckMaxWait: c.CheckMaxWait,
		CheckTimeout: c.CheckTimeout,
		Logger:       log,
	})
	p := tea.NewProgram(newApp(ctx, st, c.Name, m, log), tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run editor: %w", err)
	}
	return nil
}

// renderer returns a lipgloss renderer for w with the requested color
// profile; "auto" keeps the detected one.
func renderer(w io.Writer, color string) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	switch color {
	case "none":
		r.SetColorProfile(termenv.Ascii)
	case "ansi":
		r.SetColorProfile(termenv.ANSI)
	case "ansi256":
		r.SetColorProfile(termenv.ANSI256)
	case "truecolor":
		r.SetColorProfile(termenv.TrueColor)
	}
	return r
}

// loadChecker reads a word list. Blank lines and lines starting with # are
// skipped. An empty path disables checking.
func loadChecker(path string) (spellcheck.Checker, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list: %w", err)
	}
	defer f.Close()

	var words []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		w := strings.TrimSpace(sc.Text())
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		words = append(words, w)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read word list: %w", err)
	}
	return spellcheck.NewDictionary(words...), nil
}

// ExportCmd writes a stored document.
type ExportCmd struct {
	Name   string `arg:"" help:"Document name"`
	Format string `help:"Output format (json, yaml)" default:"json" enum:"json,yaml"`
	Out    string `short:"o" help:"Output file (default stdout)" type:"path"`
}

func (c *ExportCmd) Run(g *Globals) error {
	ctx := context.Background()
	log, done, err := g.logger(false)
	if err != nil {
		return err
	}
	defer done()

	st, err := g.open(ctx, log)
	if err != nil {
		return err
	}
	defer st.Close()

	doc, err := st.Load(ctx, c.Name)
	if err != nil {
		return err
	}

	w := g.stdout()
	if c.Out != "" {
		f, err := os.Create(c.Out)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	if c.Format == "yaml" {
		return document.EncodeYAML(w, doc)
	}
	return document.EncodeJSON(w, doc)
}

// ImportCmd stores a document file.
type ImportCmd struct {
	Path   string `arg:"" help:"Document file" type:"existingfile"`
	Name   string `help:"Document name (default: file name without extension)"`
	Format string `help:"Input format (json, yaml; default: from extension)"`
}

func (c *ImportCmd) Run(g *Globals) error {
	ctx := context.Background()
	log, done, err := g.logger(false)
	if err != nil {
		return err
	}
	defer done()

	name := c.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(c.Path), filepath.Ext(c.Path))
	}
	format := c.Format
	switch format {
	case "":
		format = formatOf(c.Path)
	case "json", "yaml":
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	f, err := os.Open(c.Path)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	var doc *document.Document
	if format == "yaml" {
		doc, err = document.DecodeYAML(f)
	} else {
		doc, err = document.DecodeJSON(f)
	}
	if err != nil {
		return fmt.Errorf("decode %s: %w", c.Path, err)
	}

	st, err := g.open(ctx, log)
	if err != nil {
		return err
	}
	defer st.Close()

	written, err := st.Save(ctx, name, doc)
	if err != nil {
		return err
	}
	if written {
		fmt.Fprintf(g.stdout(), "imported %s\n", name)
	} else {
		fmt.Fprintf(g.stdout(), "%s unchanged\n", name)
	}
	return nil
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	}
	return "json"
}

// ListCmd lists stored documents.
type ListCmd struct{}

func (c *ListCmd) Run(g *Globals) error {
	ctx := context.Background()
	log, done, err := g.logger(false)
	if err != nil {
		return err
	}
	defer done()

	st, err := g.open(ctx, log)
	if err != nil {
		return err
	}
	defer st.Close()

	snaps, err := st.List(ctx)
	if err != nil {
		return err
	}
	for _, s := range snaps {
		fmt.Fprintf(g.stdout(), "%-24s %s  %s\n", s.Name, s.Digest[:12], s.UpdatedAt.Format(time.RFC3339))
	}
	return nil
}

// RmCmd deletes a stored document.
type RmCmd struct {
	Name string `arg:"" help:"Document name"`
}

func (c *RmCmd) Run(g *Globals) error {
	ctx := context.Background()
	log, done, err := g.logger(false)
	if err != nil {
		return err
	}
	defer done()

	st, err := g.open(ctx, log)
	if err != nil {
		return err
	}
	defer st.Close()
	return st.Delete(ctx, c.Name)
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(g *Globals) error {
	fmt.Fprintf(g.stdout(), "inkwell %s\n", inkwell.Version())
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("inkwell"),
		kong.Description("Terminal rich-text editor with background spell checking"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
