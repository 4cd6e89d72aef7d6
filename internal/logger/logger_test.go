package logger

import (
	"bytes"
	"context"
	"log/slog"
	"regexp"
	"strings"
	"testing"
)

var ansi = regexp.MustCompile("\033\\[[0-9;]*m")

func plain(s string) string { return ansi.ReplaceAllString(s, "") }

func TestDefault(t *testing.T) {
	t.Parallel()
	log := Default()
	if log == nil {
		t.Fatal("Default() returned nil")
	}
	log.Debug("debug message")
}

func TestDiscard(t *testing.T) {
	t.Parallel()
	log := Discard()
	if log == nil {
		t.Fatal("Discard() returned nil")
	}
	log.Error("dropped", "key", "value")
	log.With("a", 1).WithGroup("g").Debug("dropped")
}

func TestJSON(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelInfo)
	log.Info("hello", "key", "value")

	output := buf.String()
	if !strings.Contains(output, `"key":"value"`) {
		t.Fatalf("expected key=value in JSON output, got: %s", output)
	}
	if !strings.Contains(output, `"level":"INFO"`) {
		t.Fatalf("expected level INFO in output, got: %s", output)
	}
}

func TestJSONLevelFiltering(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := JSON(&buf, slog.LevelWarn)
	log.Info("should not appear")

	if buf.Len() > 0 {
		t.Fatalf("expected no output for info at warn level, got: %s", buf.String())
	}
	log.Warn("should appear")
	if !strings.Contains(buf.String(), "should appear") {
		t.Fatalf("expected warn message in output, got: %s", buf.String())
	}
}

func TestText(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	Text(&buf, slog.LevelDebug).Debug("scan", "records", 3)

	if !strings.Contains(buf.String(), "records=3") {
		t.Fatalf("expected records=3 in text output, got: %s", buf.String())
	}
}

func TestSetup(t *testing.T) {
	t.Parallel()

	for _, format := range []string{"", "pretty", "json", "TEXT"} {
		var buf bytes.Buffer
		log, err := Setup(&buf, format, "debug")
		if err != nil {
			t.Fatalf("Setup(%q): %v", format, err)
		}
		log.Debug("hello")
		if !strings.Contains(buf.String(), "hello") {
			t.Fatalf("Setup(%q): expected debug output, got: %s", format, buf.String())
		}
	}

	if _, err := Setup(&bytes.Buffer{}, "xml", "info"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestWith(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	JSON(&buf, slog.LevelInfo).With("component", "loader").Info("child message")

	if !strings.Contains(buf.String(), `"component":"loader"`) {
		t.Fatalf("expected component attr in output, got: %s", buf.String())
	}
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	ctx := WithContext(context.Background(), JSON(&buf, slog.LevelInfo))

	FromContext(ctx).Info("roundtrip test")
	if !strings.Contains(buf.String(), "roundtrip test") {
		t.Fatalf("expected message via context logger, got: %s", buf.String())
	}
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext with no logger returned nil")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tc := range tests {
		if got := ParseLevel(tc.input); got != tc.expected {
			t.Errorf("ParseLevel(%q): expected %v, got %v", tc.input, tc.expected, got)
		}
	}
}

func TestPrettyHandlerEnabled(t *testing.T) {
	t.Parallel()
	h := NewPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})

	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("expected info to be disabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("expected error to be enabled at warn level")
	}
}

func TestPrettyFormat(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	slog.New(NewPrettyHandler(&buf, nil)).Warn("skipped record", "key", "/enc_0/W_0", "bytes", 42)

	out := plain(buf.String())
	for _, want := range []string{"WRN skipped record", "key=/enc_0/W_0", "bytes=42"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got: %s", want, out)
		}
	}
}

func TestPrettyHandlerWithAttrsAndGroups(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	h := NewPrettyHandler(&buf, nil).
		WithAttrs([]slog.Attr{slog.String("path", "model.pcf")}).
		WithGroup("a").
		WithGroup("b")
	slog.New(h).Info("nested", "key", "val")

	out := plain(buf.String())
	if !strings.Contains(out, "path=model.pcf") {
		t.Fatalf("expected handler attr in output, got: %s", out)
	}
	if !strings.Contains(out, "a.b.key=val") {
		t.Fatalf("expected 'a.b.key=val' in output, got: %s", out)
	}
}

func TestPrettyHandlerEmptyGroup(t *testing.T) {
	t.Parallel()
	h := NewPrettyHandler(&bytes.Buffer{}, nil)
	if h.WithGroup("") != h {
		t.Fatal("WithGroup empty string should return same handler")
	}
}

func TestPrettyQuotesStrings(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	slog.New(NewPrettyHandler(&buf, nil)).Info("test", "msg", "hello world", "key", "simple")

	out := plain(buf.String())
	if !strings.Contains(out, `msg="hello world"`) {
		t.Fatalf("expected quoted string with spaces, got: %s", out)
	}
	if !strings.Contains(out, "key=simple") {
		t.Fatalf("expected unquoted simple string, got: %s", out)
	}
}
