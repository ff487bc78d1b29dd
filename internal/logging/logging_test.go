package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestNew_JSONUsesRFC3339(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, LevelDebug, FormatJSON).Debug("check deferred", "inflight", true)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	if got, want := rec["msg"], "check deferred"; got != want {
		t.Fatalf("msg=%v, want %v", got, want)
	}
	ts, _ := rec["time"].(string)
	if _, err := time.Parse(time.RFC3339, ts); err != nil {
		t.Fatalf("time %q is not RFC3339: %v", ts, err)
	}
	if got, want := rec["inflight"], true; got != want {
		t.Fatalf("inflight=%v, want %v", got, want)
	}
}

func TestNew_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelWarn, FormatText)
	l.Info("dropped")
	l.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") || !strings.Contains(out, "msg=kept") {
		t.Fatalf("output=%q", out)
	}
}

func TestParse(t *testing.T) {
	if lvl, err := ParseLevel("DEBUG"); err != nil || lvl != LevelDebug {
		t.Fatalf("ParseLevel(DEBUG)=%v,%v", lvl, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("ParseLevel(loud) did not fail")
	}
	if f, err := ParseFormat("json"); err != nil || f != FormatJSON {
		t.Fatalf("ParseFormat(json)=%v,%v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("ParseFormat(xml) did not fail")
	}
}

func TestOrDiscard(t *testing.T) {
	if OrDiscard(nil) == nil {
		t.Fatalf("nil logger not replaced")
	}
	l := Discard()
	if OrDiscard(l) != l {
		t.Fatalf("logger replaced")
	}
	l.Error("nowhere")
}
