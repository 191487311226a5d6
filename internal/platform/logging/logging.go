// Package logging owns process-wide logger initialization. Records at info
// and below go to stdout, anything above info to stderr, which keeps build
// phase output and failures separable when driven from a notebook or CI.
package logging

import (
	"context"
	"log/slog"
	"os"
	"sync"
)

var setupOnce sync.Once

// Setup installs the default slog logger. It is explicit and idempotent:
// calling it more than once never binds a second handler.
func Setup() {
	setupOnce.Do(func() {
		slog.SetDefault(slog.New(newSplitHandler()))
	})
}

func newSplitHandler() splitHandler {
	return splitHandler{
		out: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		err: slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}),
	}
}

// splitHandler routes records by level: info and below to out, above info
// to err.
type splitHandler struct {
	out slog.Handler
	err slog.Handler
}

func (h splitHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (h splitHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level > slog.LevelInfo {
		return h.err.Handle(ctx, r)
	}
	return h.out.Handle(ctx, r)
}

func (h splitHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return splitHandler{out: h.out.WithAttrs(attrs), err: h.err.WithAttrs(attrs)}
}

func (h splitHandler) WithGroup(name string) slog.Handler {
	return splitHandler{out: h.out.WithGroup(name), err: h.err.WithGroup(name)}
}
