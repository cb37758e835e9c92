package logger

import (
	"context"
	"log/slog"
	"os"
)

type ctxKey string

const requestIDKey ctxKey = "request_id"

// Handler decorates a slog handler with the request id carried in the
// context, when present.
type Handler struct {
	inner slog.Handler
}

// NewHandler creates a new Handler. A nil inner handler defaults to a JSON
// handler on stdout.
func NewHandler(inner slog.Handler) *Handler {
	if inner == nil {
		inner = slog.NewJSONHandler(os.Stdout, nil)
	}

	return &Handler{inner: inner}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok && requestID != "" {
		record.AddAttrs(slog.String("request_id", requestID))
	}

	return h.inner.Handle(ctx, record)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{inner: h.inner.WithAttrs(attrs)}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{inner: h.inner.WithGroup(name)}
}

// WithRequestID stores the request id for Handler to pick up.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}
