// Package clog carries a structured logger in a context.Context.
package clog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	slogctx "github.com/veqryn/slog-context"
)

// Options configures New.
type Options struct {
	Level   string // debug, info, warn or error
	Format  string // text or json
	NoColor bool
}

// New returns a logger writing to w. Text output goes through tint; JSON
// output through slog's JSON handler. Both are wrapped so attributes added
// with WithAttrs reach every record logged from the context.
func New(w io.Writer, opts Options) (*slog.Logger, error) {
	var level slog.Level
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
	}

	var h slog.Handler
	switch strings.ToLower(opts.Format) {
	case "", "text":
		h = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.TimeOnly,
			NoColor:    opts.NoColor,
		})
	case "json":
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}
	return slog.New(slogctx.NewHandler(h, nil)), nil
}

// Ctx returns the logger stored in ctx, or slog's default logger.
func Ctx(ctx context.Context) *slog.Logger {
	return slogctx.FromCtx(ctx)
}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return slogctx.NewCtx(ctx, logger)
}

// WithAttrs returns a copy of ctx whose records carry attrs.
func WithAttrs(ctx context.Context, attrs ...any) context.Context {
	return slogctx.With(ctx, attrs...)
}
