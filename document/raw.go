package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/iw2rmb/inkwell/key"
)

// Raw is the persisted form of a node: a tree of {kind, type, nodes |
// characters, data} records. Text nodes may use the terse forms "text" (no
// marks) or "ranges" (runs sharing one mark set) instead of "characters".
type Raw struct {
	Kind       string         `json:"kind" yaml:"kind"`
	Key        string         `json:"key,omitempty" yaml:"key,omitempty"`
	Type       string         `json:"type,omitempty" yaml:"type,omitempty"`
	IsVoid     bool           `json:"isVoid,omitempty" yaml:"isVoid,omitempty"`
	Data       map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
	Nodes      []Raw          `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	Text       string         `json:"text,omitempty" yaml:"text,omitempty"`
	Ranges     []RawRange     `json:"ranges,omitempty" yaml:"ranges,omitempty"`
	Characters []RawCharacter `json:"characters,omitempty" yaml:"characters,omitempty"`
}

type RawMark struct {
	Type string         `json:"type" yaml:"type"`
	Data map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
}

type RawRange struct {
	Text  string    `json:"text" yaml:"text"`
	Marks []RawMark `json:"marks,omitempty" yaml:"marks,omitempty"`
}

type RawCharacter struct {
	Text  string    `json:"text" yaml:"text"`
	Marks []RawMark `json:"marks,omitempty" yaml:"marks,omitempty"`
}

// rawEnvelope accepts both a bare document record and {"document": {...}}.
type rawEnvelope struct {
	Raw      `yaml:",inline"`
	Document *Raw `json:"document,omitempty" yaml:"document,omitempty"`
}

func (e rawEnvelope) root() Raw {
	if e.Document != nil {
		return *e.Document
	}
	return e.Raw
}

// DecodeJSON reads a document from its raw JSON form.
func DecodeJSON(r io.Reader) (*Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var env rawEnvelope
	if err := dec.Decode(&env); err != nil {
		return nil, &ParseError{Format: "JSON", Msg: err.Error(), Err: err}
	}
	return FromRaw(env.root())
}

// DecodeYAML reads a document from its raw YAML form.
func DecodeYAML(r io.Reader) (*Document, error) {
	var env rawEnvelope
	if err := yaml.NewDecoder(r).Decode(&env); err != nil {
		return nil, &ParseError{Format: "YAML", Msg: err.Error(), Err: err}
	}
	return FromRaw(env.root())
}

// EncodeJSON writes d in raw JSON form.
func EncodeJSON(w io.Writer, d *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ToRaw(d))
}

// EncodeYAML writes d in raw YAML form.
func EncodeYAML(w io.Writer, d *Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(ToRaw(d)); err != nil {
		return err
	}
	return enc.Close()
}

// MarshalJSON returns the compact raw JSON form of d.
func MarshalJSON(d *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(ToRaw(d)); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// FromRaw builds a document from a raw record. The record's kind may be
// "document" or empty.
func FromRaw(r Raw) (*Document, error) {
	if r.Kind != "" && r.Kind != "document" {
		return nil, &ParseError{Format: "raw", Path: "$", Msg: fmt.Sprintf("root kind %q, want document", r.Kind)}
	}
	nodes := make([]*Node, 0, len(r.Nodes))
	for i, c := range r.Nodes {
		n, err := nodeFromRaw(c, fmt.Sprintf("$.nodes[%d]", i))
		if err != nil {
			return nil, err
		}
		if n.kind != KindBlock {
			return nil, &ParseError{Format: "raw", Path: fmt.Sprintf("$.nodes[%d]", i), Msg: "top-level nodes must be blocks"}
		}
		nodes = append(nodes, n)
	}
	d := New(nodes...)
	if r.Key != "" {
		key.Observe(key.Key(r.Key))
		d.root.key = key.Key(r.Key)
	}
	d.root.data = NewData(r.Data)
	return d, nil
}

func nodeFromRaw(r Raw, path string) (*Node, error) {
	var n *Node
	switch r.Kind {
	case "text":
		chars, err := charactersFromRaw(r, path)
		if err != nil {
			return nil, err
		}
		n = &Node{kind: KindText, key: key.Generate(), chars: chars}
	case "block", "inline":
		kind := KindBlock
		if r.Kind == "inline" {
			kind = KindInline
		}
		children := make([]*Node, 0, len(r.Nodes))
		for i, c := range r.Nodes {
			child, err := nodeFromRaw(c, fmt.Sprintf("%s.nodes[%d]", path, i))
			if err != nil {
				return nil, err
			}
			if kind == KindInline && child.kind == KindBlock {
				return nil, &ParseError{Format: "raw", Path: path, Msg: "inline nodes cannot hold blocks"}
			}
			children = append(children, child)
		}
		n = newContainer(kind, r.Type, children)
		n.void = r.IsVoid
		n.data = NewData(r.Data)
	default:
		return nil, &ParseError{Format: "raw", Path: path, Msg: fmt.Sprintf("unknown kind %q", r.Kind)}
	}
	if r.Key != "" {
		k := key.Key(r.Key)
		key.Observe(k)
		n.key = k
	}
	return n, nil
}

func charactersFromRaw(r Raw, path string) ([]Character, error) {
	switch {
	case len(r.Characters) > 0:
		chars := make([]Character, 0, len(r.Characters))
		for i, c := range r.Characters {
			marks, err := marksFromRaw(c.Marks, fmt.Sprintf("%s.characters[%d]", path, i))
			if err != nil {
				return nil, err
			}
			for _, g := range NewText(c.Text).chars {
				chars = append(chars, Character{Text: g.Text, Marks: marks})
			}
		}
		return chars, nil
	case len(r.Ranges) > 0:
		var chars []Character
		for i, rg := range r.Ranges {
			marks, err := marksFromRaw(rg.Marks, fmt.Sprintf("%s.ranges[%d]", path, i))
			if err != nil {
				return nil, err
			}
			for _, g := range NewText(rg.Text).chars {
				chars = append(chars, Character{Text: g.Text, Marks: marks})
			}
		}
		return chars, nil
	default:
		return NewText(r.Text).chars, nil
	}
}

func marksFromRaw(in []RawMark, path string) (MarkSet, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(MarkSet, 0, len(in))
	for i, m := range in {
		if m.Type == "" {
			return nil, &ParseError{Format: "raw", Path: fmt.Sprintf("%s.marks[%d]", path, i), Msg: "mark type is required"}
		}
		out = append(out, NewMark(m.Type, m.Data))
	}
	return out, nil
}

// ToRaw returns the raw form of d. Keys are kept so that persisted
// selections stay valid; text nodes are written as ranges.
func ToRaw(d *Document) Raw {
	r := Raw{Kind: "document", Key: string(d.root.key), Data: rawData(d.root.data)}
	for _, n := range d.root.nodes {
		r.Nodes = append(r.Nodes, nodeToRaw(n))
	}
	return r
}

func nodeToRaw(n *Node) Raw {
	r := Raw{Kind: n.kind.String(), Key: string(n.key)}
	if n.kind == KindText {
		r.Ranges = rangesOf(n.chars)
		if len(r.Ranges) == 0 {
			r.Ranges = []RawRange{{Text: ""}}
		}
		return r
	}
	r.Type = n.typ
	r.IsVoid = n.void
	r.Data = rawData(n.data)
	for _, c := range n.nodes {
		r.Nodes = append(r.Nodes, nodeToRaw(c))
	}
	return r
}

func rangesOf(chars []Character) []RawRange {
	var out []RawRange
	var cur MarkSet
	var text []byte
	flush := func() {
		if len(text) == 0 {
			return
		}
		out = append(out, RawRange{Text: string(text), Marks: rawMarks(cur)})
		text = text[:0]
	}
	for i, c := range chars {
		if i > 0 && !cur.Equal(c.Marks) {
			flush()
		}
		cur = c.Marks
		text = append(text, c.Text...)
	}
	flush()
	return out
}

func rawMarks(s MarkSet) []RawMark {
	if len(s) == 0 {
		return nil
	}
	out := make([]RawMark, len(s))
	for i, m := range s {
		out[i] = RawMark{Type: m.Type, Data: rawData(m.Data)}
	}
	return out
}

func rawData(d Data) map[string]any {
	if len(d) == 0 {
		return nil
	}
	out := make(map[string]any, len(d))
	for k, v := range d {
		if nested, ok := v.(Data); ok {
			v = rawData(nested)
		}
		out[k] = v
	}
	return out
}
