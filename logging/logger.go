// Package logging provides the logrus logger used by the CLI surface.
package logging

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	oteltrace "go.opentelemetry.io/otel/trace"
)

var Logger *logrus.Logger

func init() {
	Logger = logrus.New()
	Logger.SetOutput(os.Stdout)
	Logger.SetLevel(logrus.InfoLevel)

	logrus.SetFormatter(&logrus.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	})
}

// SetDebug raises the log level to debug.
func SetDebug(enabled bool) {
	if enabled {
		Logger.SetLevel(logrus.DebugLevel)
	} else {
		Logger.SetLevel(logrus.InfoLevel)
	}
}

// WithTrace returns an entry annotated with the trace and span ids of the
// active span, so CLI log lines correlate with exported traces.
func WithTrace(ctx context.Context) *logrus.Entry {
	span := oteltrace.SpanFromContext(ctx)
	sc := span.SpanContext()
	if !sc.IsValid() {
		return logrus.NewEntry(Logger)
	}
	return Logger.WithFields(logrus.Fields{
		"trace_id": sc.TraceID().String(),
		"span_id":  sc.SpanID().String(),
	})
}
