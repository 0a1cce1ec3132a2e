package crawl

import (
	"context"
	"log/slog"
)

type loggerCtxKey struct{}

// ContextWithLogger returns ctx carrying l, so per-filer log fields follow
// the work down through filing collection and downloads.
func ContextWithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, l)
}

// ContextLogger returns the logger carried by ctx, or def when it carries
// none.
func ContextLogger(ctx context.Context, def *slog.Logger) *slog.Logger {
	if l, ok := ctx.Value(loggerCtxKey{}).(*slog.Logger); ok {
		return l
	}
	return def
}
