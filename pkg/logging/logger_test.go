package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func decodeEntries(t *testing.T, buf *bytes.Buffer) []LogEntry {
	t.Helper()
	var entries []LogEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry LogEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("Failed to unmarshal log line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{Level(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("Level.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{"warning", WarnLevel},
		{"ERROR", ErrorLevel},
		{"verbose", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLookupLevel(t *testing.T) {
	for _, name := range []string{"debug", " Info ", "WARNING", "error"} {
		if _, err := LookupLevel(name); err != nil {
			t.Errorf("LookupLevel(%q) error = %v", name, err)
		}
	}
	if _, err := LookupLevel("trace"); !errors.Is(err, ErrUnknownLevel) {
		t.Errorf("LookupLevel(trace) error = %v, want ErrUnknownLevel", err)
	}
}

func TestLevelText(t *testing.T) {
	var l Level
	if err := l.UnmarshalText([]byte("warn")); err != nil || l != WarnLevel {
		t.Errorf("UnmarshalText(warn) = %v, %v", l, err)
	}
	if err := l.UnmarshalText([]byte("loud")); err == nil {
		t.Error("UnmarshalText accepted an unknown level")
	}
	if text, _ := DebugLevel.MarshalText(); string(text) != "DEBUG" {
		t.Errorf("MarshalText() = %s, want DEBUG", text)
	}
}

func TestDomainFields(t *testing.T) {
	tests := []struct {
		field Field
		key   string
		value any
	}{
		{Stage("classify"), "stage", "classify"},
		{RunID("abc"), "run_id", "abc"},
		{Vertex("v7"), "vertex", "v7"},
		{Epsilon(0.5), "eps", 0.5},
		{Mu(3), "mu", 3},
		{Line(12), "line", 12},
		{Latency(2 * time.Second), "latency", "2s"},
		{Error(errors.New("boom")), "error", "boom"},
		{Error(nil), "error", nil},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if tt.field.Key != tt.key {
				t.Errorf("Key = %q, want %q", tt.field.Key, tt.key)
			}
			if tt.field.Value != tt.value {
				t.Errorf("Value = %v, want %v", tt.field.Value, tt.value)
			}
		})
	}
}

func TestJSONLogger_BasicLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	logger.Info("graph loaded", Vertices(4), Arcs(10))

	entries := decodeEntries(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	entry := entries[0]
	if entry.Level != "INFO" {
		t.Errorf("Level = %v, want INFO", entry.Level)
	}
	if entry.Message != "graph loaded" {
		t.Errorf("Message = %v, want 'graph loaded'", entry.Message)
	}
	// JSON numbers decode as float64.
	if entry.Fields["vertices"] != float64(4) {
		t.Errorf("Fields[vertices] = %v, want 4", entry.Fields["vertices"])
	}
	if entry.Time == "" {
		t.Error("Time field is empty")
	}
}

func TestJSONLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("dropped")
	logger.Info("dropped")
	logger.Warn("kept")
	logger.Error("kept")

	entries := decodeEntries(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Level != "WARN" || entries[1].Level != "ERROR" {
		t.Errorf("levels = %s,%s, want WARN,ERROR", entries[0].Level, entries[1].Level)
	}

	logger.SetLevel(DebugLevel)
	if logger.GetLevel() != DebugLevel {
		t.Errorf("GetLevel() = %v, want DEBUG", logger.GetLevel())
	}
}

func TestJSONLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	child := logger.With(Component("loader"), RunID("r1"))
	child.Info("parsed", Line(3))
	logger.Info("parent")

	entries := decodeEntries(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Fields["component"] != "loader" || entries[0].Fields["run_id"] != "r1" {
		t.Errorf("child fields = %v", entries[0].Fields)
	}
	if entries[0].Fields["line"] != float64(3) {
		t.Errorf("line field = %v, want 3", entries[0].Fields["line"])
	}
	if entries[1].Fields != nil {
		t.Errorf("parent should carry no fields, got %v", entries[1].Fields)
	}
}

func TestStageTimer(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	timer := StartStage(logger, "cross-link", Arcs(6))
	if d := timer.End(); d < 0 {
		t.Errorf("End() = %v, want non-negative", d)
	}
	StartStage(logger, "load").EndError(errors.New("unreadable"))

	entries := decodeEntries(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Fields["stage"] != "cross-link" || entries[0].Level != "DEBUG" {
		t.Errorf("unexpected stage entry: %+v", entries[0])
	}
	if _, ok := entries[0].Fields["latency"]; !ok {
		t.Error("stage entry lacks latency")
	}
	if entries[1].Level != "ERROR" || entries[1].Fields["error"] != "unreadable" {
		t.Errorf("unexpected failure entry: %+v", entries[1])
	}
}

func TestDefaultLoggerOverride(t *testing.T) {
	var buf bytes.Buffer
	prev := DefaultLogger()
	defer SetDefaultLogger(prev)

	SetDefaultLogger(NewJSONLogger(&buf, InfoLevel))
	OrDefault(nil).Info("via default")

	if !strings.Contains(buf.String(), "via default") {
		t.Errorf("default logger not used: %q", buf.String())
	}

	nop := NewNopLogger()
	if OrDefault(nop) != nop {
		t.Error("OrDefault should keep an explicit logger")
	}
}

func BenchmarkJSONLogger_Info(b *testing.B) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("similarity resolved", Vertex("a"), Vertex("b"))
		buf.Reset()
	}
}
