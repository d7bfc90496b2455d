package logger

import (
	"io"
	"log/slog"
	"os"
)

// New JSON-логгер в stdout. В dev пишем debug.
func New(env string) *slog.Logger {
	return NewTo(os.Stdout, env)
}

func NewTo(w io.Writer, env string) *slog.Logger {
	level := slog.LevelInfo
	if env == "dev" {
		level = slog.LevelDebug
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("env", env)
}

// Component дочерний логгер с полем component.
func Component(l *slog.Logger, name string) *slog.Logger {
	return l.With("component", name)
}
