package logx

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewWritesConsoleAndFile(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	logger, closer, err := New(dir, "debug", &console, false)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Info().Str("version", "1.0.3").Msg("installed oscal-cli")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if !strings.Contains(console.String(), "installed oscal-cli") {
		t.Fatalf("expected console output, got %q", console.String())
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || !strings.HasSuffix(entries[0].Name(), ".log") {
		t.Fatalf("expected a single .log file, got %v", entries)
	}
	data, err := os.ReadFile(dir + string(os.PathSeparator) + entries[0].Name())
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"version":"1.0.3"`) {
		t.Fatalf("expected json log line, got %q", data)
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var console bytes.Buffer
	logger, closer, err := New(t.TempDir(), "warn", &console, false)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	defer closer.Close()

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	if strings.Contains(console.String(), "hidden") {
		t.Fatalf("info line should be filtered, got %q", console.String())
	}
	if !strings.Contains(console.String(), "shown") {
		t.Fatalf("expected warn line, got %q", console.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"":        zerolog.InfoLevel,
		"DEBUG":   zerolog.DebugLevel,
		"warning": zerolog.WarnLevel,
		"off":     zerolog.Disabled,
	}
	for raw, want := range cases {
		got, err := ParseLevel(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %v, got %v", raw, want, got)
		}
	}
	if _, err := ParseLevel("chatty"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
