// Package logger provides the process-wide slog logger and the request-scoped
// variant injected by the request logging middleware.
//
//	log := logger.WithCtx(r.Context())
//	log.Info("order placed", "order_id", id, "total", total)
//	// → time=... level=INFO msg="order placed" request_id=a1b2c3d4 order_id=... total=35
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/storefront/config"
)

var L *slog.Logger

func init() {
	L = slog.New(consoleHandler(os.Stdout))
	slog.SetDefault(L)
}

// Level is debug outside production and info in production.
func Level() slog.Level {
	switch config.AppEnv() {
	case "production", "prod":
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

func consoleHandler(w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: Level()}
	switch config.AppEnv() {
	case "production", "prod":
		return slog.NewJSONHandler(w, opts)
	default:
		return slog.NewTextHandler(w, opts)
	}
}

// Setup attaches the mongo sink when LOG_MONGO_URI is configured. The
// returned func flushes and disconnects it; it is a no-op otherwise.
func Setup(ctx context.Context) func() {
	uri := config.LogMongoURI()
	if uri == "" {
		return func() {}
	}

	mh, err := NewMongoHandler(ctx, uri, config.Get("LOG_MONGO_DATABASE", config.MongoDatabase()), Level())
	if err != nil {
		L.Warn("mongo log sink disabled", "error", err)
		return func() {}
	}

	L = slog.New(NewMultiHandler(consoleHandler(os.Stdout), mh))
	slog.SetDefault(L)
	return mh.Close
}

// Silence routes all output to w. Tests pass io.Discard.
func Silence(w io.Writer) {
	L = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelError}))
	slog.SetDefault(L)
}

type ctxKey struct{}

// WithCtx returns the request logger stored by InjectLogger, or the base
// logger when the context carries none.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L
	}
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a request-scoped logger in ctx.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
