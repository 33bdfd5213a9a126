// Package gjlog wires up zerolog for the gribjump CLI and harvest
// layer. The gribjump core package never logs on its own — callers at
// this layer decide what's worth recording.
package gjlog

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New builds a Logger from a level name ("trace".."error") and format
// ("console" or "json"), writing to w.
func New(w io.Writer, level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	var out io.Writer = w
	if format != "json" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}

	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// Default builds a console logger at info level writing to stderr, for
// callers that haven't loaded a gjconfig.Config yet.
func Default() zerolog.Logger {
	return New(os.Stderr, "info", "console")
}
