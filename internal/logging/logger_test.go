package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestFieldConstructors(t *testing.T) {
	trap := errors.New("wasm trap")
	tests := []struct {
		name      string
		field     Field
		wantKey   string
		wantValue any
	}{
		{"String", String("export", "calculate_fibonacci"), "export", "calculate_fibonacci"},
		{"Int", Int("bytes", 201), "bytes", 201},
		{"Uint64", Uint64("n", 93), "n", uint64(93)},
		{"Float64", Float64("elapsed_ms", 0.25), "elapsed_ms", 0.25},
		{"Err", Err(trap), "error", trap},
		{"Err nil", Err(nil), "error", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.field.Key != tt.wantKey {
				t.Errorf("Key = %q, want %q", tt.field.Key, tt.wantKey)
			}
			if tt.field.Value != tt.wantValue {
				t.Errorf("Value = %v, want %v", tt.field.Value, tt.wantValue)
			}
		})
	}
}

func TestNewDefaultLogger(t *testing.T) {
	if NewDefaultLogger() == nil {
		t.Fatal("NewDefaultLogger returned nil")
	}
}

func TestZerologAdapter_Levels(t *testing.T) {
	tests := []struct {
		name      string
		log       func(l *ZerologAdapter)
		wantLevel string
		contains  []string
	}{
		{
			name:      "info with fields",
			log:       func(l *ZerologAdapter) { l.Info("HTTP server listening", String("addr", "127.0.0.1:8080")) },
			wantLevel: "info",
			contains:  []string{"HTTP server listening", "127.0.0.1:8080"},
		},
		{
			name: "error with cause",
			log: func(l *ZerologAdapter) {
				l.Error("calculation failed", errors.New("wasm trap"), String("calculator", "wasm-naive"), Uint64("n", 60))
			},
			wantLevel: "error",
			contains:  []string{`"error":"wasm trap"`, "wasm-naive", `"n":60`},
		},
		{
			name:      "error without cause",
			log:       func(l *ZerologAdapter) { l.Error("calculator not registered", nil) },
			wantLevel: "error",
			contains:  []string{"calculator not registered"},
		},
		{
			name:      "debug",
			log:       func(l *ZerologAdapter) { l.Debug("wasm call", Float64("elapsed_ms", 1.5)) },
			wantLevel: "debug",
			contains:  []string{"wasm call", "1.5"},
		},
		{
			name:      "printf",
			log:       func(l *ZerologAdapter) { l.Printf("F(%d) = %d", 10, 55) },
			wantLevel: "info",
			contains:  []string{"F(10) = 55"},
		},
		{
			name:      "println",
			log:       func(l *ZerologAdapter) { l.Println("shutting", "down") },
			wantLevel: "info",
			contains:  []string{`"message":"shutting down"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(NewZerologAdapter(zerolog.New(&buf)))
			out := buf.String()
			if !strings.Contains(out, `"level":"`+tt.wantLevel+`"`) {
				t.Errorf("output %s is not at level %s", out, tt.wantLevel)
			}
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("output %s does not contain %s", out, want)
				}
			}
		})
	}
}

func TestApplyFields_ValueTypes(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"int64", int64(-7), `"v":-7`},
		{"uint32", uint32(93), `"v":93`},
		{"bool", true, `"v":true`},
		{"duration", 1500 * time.Millisecond, `"v":1500`},
		{"error", errors.New("oops"), `"v":"oops"`},
		{"struct", struct{ X int }{X: 1}, `"v":{"X":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewZerologAdapter(zerolog.New(&buf)).Info("typed", Field{Key: "v", Value: tt.value})
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output %s does not contain %s", buf.String(), tt.want)
			}
		})
	}
}

func TestZerologAdapter_ImplementsLogger(t *testing.T) {
	var _ Logger = NewLogger(io.Discard, "test")
	var _ Logger = NopLogger{}
}

// decodeEntries parses one JSON object per line.
func decodeEntries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	dec := json.NewDecoder(buf)
	for dec.More() {
		var entry map[string]any
		if err := dec.Decode(&entry); err != nil {
			t.Fatalf("decoding log entry: %v", err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestZerologAdapter_Uint64KeepsFullRange(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		want  string
	}{
		{"index", Uint64("n", 0), `"n":0`},
		{"F(93)", Uint64("value", 12200160415121876738), `"value":12200160415121876738`},
		{"max uint64", Uint64("value", 18446744073709551615), `"value":18446744073709551615`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewLogger(&buf, "test").Info("calculated", tt.field)
			// Compared as text: decoding into float64 would lose the low digits.
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output %s does not contain %s", buf.String(), tt.want)
			}
		})
	}
}

func TestZerologAdapter_ComponentTagging(t *testing.T) {
	var buf bytes.Buffer
	base := NewZerologAdapter(zerolog.New(&buf))

	base.Info("untagged")
	base.Component("wasmhost").Debug("wasm call", String("export", "calculate_fibonacci"))
	base.Component("server").Error("calculation failed", errors.New("trap"), Uint64("n", 50))
	NewLogger(&buf, "app").Info("started")

	entries := decodeEntries(t, &buf)
	want := []struct {
		message   string
		component any
	}{
		{"untagged", nil},
		{"wasm call", "wasmhost"},
		{"calculation failed", "server"},
		{"started", "app"},
	}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i, w := range want {
		if entries[i]["message"] != w.message {
			t.Errorf("entry %d message = %v, want %q", i, entries[i]["message"], w.message)
		}
		if entries[i]["component"] != w.component {
			t.Errorf("entry %q component = %v, want %v", w.message, entries[i]["component"], w.component)
		}
	}
	if entries[2]["error"] != "trap" {
		t.Errorf("server entry error = %v, want %q", entries[2]["error"], "trap")
	}
}

func TestZerologAdapter_ComponentKeepsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologAdapter(zerolog.New(&buf)).WithLevel(zerolog.InfoLevel).Component("wasmhost")

	logger.Debug("hidden")
	logger.Info("shown")

	entries := decodeEntries(t, &buf)
	if len(entries) != 1 || entries[0]["message"] != "shown" {
		t.Errorf("entries = %v, want only the info entry", entries)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestZerologAdapter_WithLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "test").WithLevel(zerolog.ErrorLevel)

	logger.Info("hidden")
	logger.Error("shown", nil)

	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("info entry should be filtered, got: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("error entry should be written, got: %s", buf.String())
	}
}

func TestNopLogger(t *testing.T) {
	var l Logger = NopLogger{}
	l.Info("x")
	l.Error("x", nil)
	l.Debug("x")
	l.Printf("%d", 1)
	l.Println("x")
}
