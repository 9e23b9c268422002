package log

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"
)

// memOutput captures formatted entries for assertions.
type memOutput struct {
	mu    sync.Mutex
	lines []string
}

func (m *memOutput) Write(_ *Entry, formatted []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = append(m.lines, string(formatted))
	return nil
}

func (m *memOutput) Close() error { return nil }

func TestLevelFiltering(t *testing.T) {
	out := &memOutput{}
	l := NewLogger(WithLevel(WarnLevel), WithFormatter(&TextFormatter{DisableTimestamp: true}), WithOutput(out))
	l.Debug("dropped")
	l.Info("dropped too")
	l.Warn("kept")
	l.Error("kept as well")
	if len(out.lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %v", len(out.lines), out.lines)
	}
	if !strings.HasPrefix(out.lines[0], "WARN kept") {
		t.Fatalf("unexpected first line: %q", out.lines[0])
	}
}

func TestWithFieldsAppearInOutput(t *testing.T) {
	out := &memOutput{}
	l := NewLogger(WithLevel(InfoLevel), WithFormatter(&TextFormatter{DisableTimestamp: true}), WithOutput(out))
	l = l.With(Component("dispatcher"), Int64("tenant", 42))
	l.Info("published", Str("kind", "service_update"))
	if len(out.lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(out.lines))
	}
	line := out.lines[0]
	for _, want := range []string{"component=dispatcher", "tenant=42", "kind=service_update"} {
		if !strings.Contains(line, want) {
			t.Fatalf("line %q missing %q", line, want)
		}
	}
}

func TestJSONFormatter(t *testing.T) {
	out := &memOutput{}
	l := NewLogger(WithLevel(InfoLevel), WithFormatter(&JSONFormatter{}), WithOutput(out))
	l.Info("hello", Str("org", "acme"))
	if len(out.lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(out.lines))
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(out.lines[0]), &obj); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if obj["msg"] != "hello" || obj["level"] != "INFO" || obj["org"] != "acme" {
		t.Fatalf("unexpected object: %v", obj)
	}
}

func TestParseLevel(t *testing.T) {
	if lv, err := ParseLevel("debug"); err != nil || lv != DebugLevel {
		t.Fatalf("debug: %v %v", lv, err)
	}
	if lv, err := ParseLevel(""); err != nil || lv != InfoLevel {
		t.Fatalf("empty: %v %v", lv, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestApplyConfig(t *testing.T) {
	l, err := ApplyConfig(&Config{Level: "error", Format: "json", Output: "null"})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if l.GetLevel() != ErrorLevel {
		t.Fatalf("level: %v", l.GetLevel())
	}
	if _, err := ApplyConfig(&Config{Format: "xml"}); err == nil {
		t.Fatalf("expected error for unknown format")
	}
	if _, err := ApplyConfig(&Config{Output: "file"}); err == nil {
		t.Fatalf("expected error for file output without path")
	}
}
