package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

// Setup installs the default slog logger. JSON output is used in production.
func Setup(production, debug bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if production {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// Printf adapts a slog logger to the printf style used by the core packages
type Printf struct {
	ctx    context.Context
	logger *slog.Logger
}

// NewPrintf returns a printf style logger writing through logger with ctx
func NewPrintf(ctx context.Context, logger *slog.Logger, args ...any) *Printf {
	return &Printf{ctx: ctx, logger: logger.With(args...)}
}

func (p *Printf) Debugf(msg string, args ...any) {
	p.logger.DebugContext(p.ctx, fmt.Sprintf(msg, args...))
}

func (p *Printf) Infof(msg string, args ...any) {
	p.logger.InfoContext(p.ctx, fmt.Sprintf(msg, args...))
}

func (p *Printf) Warningf(msg string, args ...any) {
	p.logger.WarnContext(p.ctx, fmt.Sprintf(msg, args...))
}
