// Package logging configures the process-wide diagnostic logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Setup installs the default slog logger. Diagnostics go to stderr so
// reports and rendered output on stdout stay clean. Verbose lowers the
// level from warn to debug.
func Setup(verbose bool) {
	slog.SetDefault(slog.New(NewHandler(os.Stderr, verbose)))
}

// NewHandler returns a tinted handler writing to w. Color is enabled only
// when w is a terminal.
func NewHandler(w io.Writer, verbose bool) slog.Handler {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd())
	}

	return tint.NewHandler(w, &tint.Options{
		NoColor:    noColor,
		TimeFormat: time.Kitchen,
		Level:      level,
	})
}
