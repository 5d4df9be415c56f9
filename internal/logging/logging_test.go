package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestHandlerLevels(t *testing.T) {
	ctx := context.Background()

	quiet := NewHandler(&bytes.Buffer{}, false)
	if quiet.Enabled(ctx, slog.LevelInfo) {
		t.Error("info enabled without verbose")
	}
	if !quiet.Enabled(ctx, slog.LevelWarn) {
		t.Error("warn disabled without verbose")
	}

	verbose := NewHandler(&bytes.Buffer{}, true)
	if !verbose.Enabled(ctx, slog.LevelDebug) {
		t.Error("debug disabled with verbose")
	}
}

func TestHandlerOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, true))

	logger.Debug("scan complete", "files", 12)

	out := buf.String()
	if !strings.Contains(out, "scan complete") || !strings.Contains(out, "files=12") {
		t.Errorf("output = %q", out)
	}
	// Non-terminal writers get plain text.
	if strings.Contains(out, "\x1b[") {
		t.Errorf("output has ANSI escapes: %q", out)
	}
}
