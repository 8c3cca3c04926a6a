// Package logutil configures the slog output of the fa command.
package logutil

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"time"
)

// LevelTrace sits below slog.LevelDebug. Subset construction logs every new state at it.
const LevelTrace slog.Level = -8

// NewLogger builds the text handler used by the command line.
//
// Records carry their source as file:line without the directory, and LevelTrace prints
// as TRACE instead of slog's default "DEBUG-4".
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       level,
		AddSource:   true,
		ReplaceAttr: replaceAttr,
	}))
}

func replaceAttr(_ []string, attr slog.Attr) slog.Attr {
	switch attr.Key {
	case slog.LevelKey:
		if level, ok := attr.Value.Any().(slog.Level); ok && level == LevelTrace {
			attr.Value = slog.StringValue("TRACE")
		}
	case slog.SourceKey:
		if source, ok := attr.Value.Any().(*slog.Source); ok {
			source.File = filepath.Base(source.File)
		}
	}
	return attr
}

// Level maps the FA_DEBUG and FA_TRACE settings to a handler level. Trace wins over debug.
func Level(debug, trace bool) slog.Level {
	switch {
	case trace:
		return LevelTrace
	case debug:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// Trace logs msg at LevelTrace on the default logger, attributed to its caller.
func Trace(msg string, args ...any) {
	logAt(context.Background(), 2, msg, args...)
}

// TraceContext is Trace with a context for the handler.
func TraceContext(ctx context.Context, msg string, args ...any) {
	logAt(ctx, 2, msg, args...)
}

// logAt attributes the record to the frame skip levels above logAt.
func logAt(ctx context.Context, skip int, msg string, args ...any) {
	logger := slog.Default()
	if !logger.Enabled(ctx, LevelTrace) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(skip+1, pcs[:])
	record := slog.NewRecord(time.Now(), LevelTrace, msg, pcs[0])
	record.Add(args...)
	_ = logger.Handler().Handle(ctx, record)
}
