package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is a small fluent wrapper over slog that every service shares.
// Action tags the entry with the operation being performed, so the JSON
// output stays grep-able per workflow step.
type Logger struct {
	l *slog.Logger
}

// New builds a JSON logger writing to stdout at the given level
// (DEBUG | INFO | WARN | ERROR).
func New(level string) (Logger, error) {
	var lvl slog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		lvl = slog.LevelDebug
	case "INFO", "":
		lvl = slog.LevelInfo
	case "WARN":
		lvl = slog.LevelWarn
	case "ERROR":
		lvl = slog.LevelError
	default:
		return Logger{}, fmt.Errorf("unknown log level: %s", level)
	}

	hostname, _ := os.Hostname()
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	return Logger{l: slog.New(h).With("hostname", hostname)}, nil
}

// Discard returns a logger that drops everything. Used in tests.
func Discard() Logger {
	h := slog.NewTextHandler(io.Discard, nil)
	return Logger{l: slog.New(h)}
}

// Action returns a logger tagged with the current operation.
func (lg Logger) Action(action string) Logger {
	return Logger{l: lg.l.With("action", action)}
}

func (lg Logger) With(args ...any) Logger {
	return Logger{l: lg.l.With(args...)}
}

func (lg Logger) WithGroup(name string) Logger {
	return Logger{l: lg.l.WithGroup(name)}
}

func (lg Logger) Debug(msg string, args ...any) {
	lg.l.Debug(msg, args...)
}

func (lg Logger) Info(msg string, args ...any) {
	lg.l.Info(msg, args...)
}

func (lg Logger) Warn(msg string, args ...any) {
	lg.l.Warn(msg, args...)
}

func (lg Logger) Error(msg string, err error, args ...any) {
	if err != nil {
		args = append(args, "error", err.Error())
	}
	lg.l.Error(msg, args...)
}
