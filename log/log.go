// Package log provides the process slog logger. Its handler mirrors every
// record onto the active OpenTelemetry span as a span event, so traces carry
// the log line that explains them.
package log

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/mikkokotila/eightchars/observability"
	"go.opentelemetry.io/otel/attribute"
)

var logger *slog.Logger
var initOnce sync.Once

func init() {
	initOnce.Do(func() {
		logger = slog.New(NewHandler(slog.NewTextHandler(os.Stdout, nil)))
	})
}

// Logger returns the process logger.
func Logger() *slog.Logger {
	return logger
}

// Handler wraps a slog.Handler and forwards records to the recording span in
// the context, if any.
type Handler struct {
	handler slog.Handler
}

// NewHandler returns a span-forwarding Handler wrapping h.
func NewHandler(h slog.Handler) *Handler {
	// Avoid chains of Handlers.
	if sh, ok := h.(*Handler); ok {
		h = sh.Handler()
	}
	return &Handler{h}
}

// Enabled implements slog.Handler by delegating to the wrapped handler.
func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle implements slog.Handler. The record is attached to the active span
// as an event; error-level records additionally record an error on the span
// (an exception event; the span status is left unchanged).
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		span := observability.SpanFromContext(ctx)
		if span != nil && span.IsRecording() {
			spanAttrs := make([]attribute.KeyValue, 0, r.NumAttrs()+1)
			r.Attrs(func(attr slog.Attr) bool {
				spanAttrs = append(spanAttrs, spanAttribute(attr.Key, attr.Value))
				return true
			})
			spanAttrs = append(spanAttrs, attribute.String("log.level", r.Level.String()))
			span.AddEvent(fmt.Sprintf("log.%s", r.Level.String()), observability.WithAttributes(spanAttrs...))

			if r.Level >= slog.LevelError {
				span.RecordError(recordError(r))
			}
		}
	}

	return h.handler.Handle(ctx, r)
}

// recordError extracts the error value from an error-level record, falling
// back to a synthetic error built from the message.
func recordError(r slog.Record) error {
	var found error
	r.Attrs(func(attr slog.Attr) bool {
		if attr.Key != "error" {
			return true
		}
		if err, ok := attr.Value.Any().(error); ok {
			found = err
		} else {
			found = fmt.Errorf("%v", attr.Value.Any())
		}
		return false
	})
	if found != nil {
		return found
	}
	return fmt.Errorf("%s", r.Message)
}

func spanAttribute(key string, v slog.Value) attribute.KeyValue {
	switch v.Kind() {
	case slog.KindString:
		return attribute.String(key, v.String())
	case slog.KindBool:
		return attribute.Bool(key, v.Bool())
	case slog.KindInt64:
		return attribute.Int64(key, v.Int64())
	case slog.KindUint64:
		// OpenTelemetry has no unsigned attribute kind.
		return attribute.Int64(key, int64(v.Uint64()))
	case slog.KindFloat64:
		return attribute.Float64(key, v.Float64())
	case slog.KindDuration:
		return attribute.String(key, v.Duration().String())
	case slog.KindTime:
		return attribute.String(key, v.Time().Format(time.RFC3339Nano))
	default:
		return attribute.String(key, fmt.Sprint(v.Any()))
	}
}

// Handler returns the wrapped slog.Handler.
func (h *Handler) Handler() slog.Handler { return h.handler }

// WithAttrs implements slog.Handler.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return NewHandler(h.handler.WithAttrs(attrs))
}

// WithGroup implements slog.Handler.
func (h *Handler) WithGroup(name string) slog.Handler {
	return NewHandler(h.handler.WithGroup(name))
}
