package observability

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrorSeverity represents the severity level of an error.
type ErrorSeverity string

const (
	SeverityLow      ErrorSeverity = "low"
	SeverityMedium   ErrorSeverity = "medium"
	SeverityHigh     ErrorSeverity = "high"
	SeverityCritical ErrorSeverity = "critical"
)

// ErrorCategory represents the category of an error.
type ErrorCategory string

const (
	CategoryValidation    ErrorCategory = "validation"
	CategoryCalculation   ErrorCategory = "calculation"
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryInternal      ErrorCategory = "internal"
)

// ErrorContext carries reporting context alongside an error.
type ErrorContext struct {
	Severity    ErrorSeverity
	Category    ErrorCategory
	Operation   string
	Component   string
	Additional  map[string]interface{}
	Retryable   bool
	ExpectedErr bool
}

// EnhancedError wraps an error with observability context.
type EnhancedError struct {
	OriginalError error
	Context       ErrorContext
	Timestamp     time.Time
	StackTrace    string
}

// Error implements the error interface.
func (e *EnhancedError) Error() string {
	return e.OriginalError.Error()
}

// Unwrap returns the original error.
func (e *EnhancedError) Unwrap() error {
	return e.OriginalError
}

// ErrorRecorder records errors onto spans and the structured log together.
type ErrorRecorder struct {
	observer ObserverInterface
}

// NewErrorRecorder creates a new error recorder.
func NewErrorRecorder() *ErrorRecorder {
	return &ErrorRecorder{observer: Observer()}
}

// RecordError records an error with context on the active span and in the log.
func (er *ErrorRecorder) RecordError(ctx context.Context, err error, errorCtx ErrorContext) *EnhancedError {
	if err == nil {
		return nil
	}

	enhanced := &EnhancedError{
		OriginalError: err,
		Context:       errorCtx,
		Timestamp:     time.Now(),
		StackTrace:    captureStackTrace(2),
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		er.recordToSpan(span, enhanced)
	}
	er.logStructuredError(ctx, enhanced)

	return enhanced
}

// RecordEvent records an important event on the active span.
func (er *ErrorRecorder) RecordEvent(ctx context.Context, eventName string, attributes map[string]interface{}) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		otelAttrs := make([]attribute.KeyValue, 0, len(attributes))
		for key, value := range attributes {
			otelAttrs = append(otelAttrs, attributeFromValue(key, value))
		}
		span.AddEvent(eventName, trace.WithAttributes(otelAttrs...))
	}

	slog.InfoContext(ctx, "Event recorded", "event_name", eventName, "attributes", attributes)
}

// RecordValidationFailure records an input validation failure.
func (er *ErrorRecorder) RecordValidationFailure(ctx context.Context, field string, value interface{}, reason string) {
	errorCtx := ErrorContext{
		Severity:  SeverityMedium,
		Category:  CategoryValidation,
		Operation: "validation",
		Component: "input_validator",
		Additional: map[string]interface{}{
			"field":  field,
			"value":  value,
			"reason": reason,
		},
		ExpectedErr: true,
	}
	er.RecordError(ctx, fmt.Errorf("validation failed for field %q: %s", field, reason), errorCtx)
}

func (er *ErrorRecorder) recordToSpan(span trace.Span, enhanced *EnhancedError) {
	span.RecordError(enhanced.OriginalError)

	statusCode := codes.Error
	if enhanced.Context.Severity == SeverityLow {
		statusCode = codes.Ok
	}
	span.SetStatus(statusCode, enhanced.OriginalError.Error())

	attrs := []attribute.KeyValue{
		attribute.String("error.type", string(enhanced.Context.Category)),
		attribute.String("error.severity", string(enhanced.Context.Severity)),
		attribute.String("error.operation", enhanced.Context.Operation),
		attribute.String("error.component", enhanced.Context.Component),
		attribute.Bool("error.retryable", enhanced.Context.Retryable),
		attribute.Bool("error.expected", enhanced.Context.ExpectedErr),
		attribute.String("error.timestamp", enhanced.Timestamp.Format(time.RFC3339)),
	}
	for key, value := range enhanced.Context.Additional {
		attrs = append(attrs, attributeFromValue(fmt.Sprintf("error.%s", key), value))
	}
	span.SetAttributes(attrs...)

	span.AddEvent(fmt.Sprintf("Error recorded: %s", enhanced.Context.Category), trace.WithAttributes(
		attribute.String("error.message", enhanced.OriginalError.Error()),
		attribute.String("error.severity", string(enhanced.Context.Severity)),
	))
}

func (er *ErrorRecorder) logStructuredError(ctx context.Context, enhanced *EnhancedError) {
	logArgs := []interface{}{
		"error", enhanced.OriginalError.Error(),
		"error_type", enhanced.Context.Category,
		"severity", enhanced.Context.Severity,
		"operation", enhanced.Context.Operation,
		"component", enhanced.Context.Component,
		"retryable", enhanced.Context.Retryable,
		"expected", enhanced.Context.ExpectedErr,
	}
	for key, value := range enhanced.Context.Additional {
		logArgs = append(logArgs, key, value)
	}
	if enhanced.Context.Severity == SeverityHigh || enhanced.Context.Severity == SeverityCritical {
		logArgs = append(logArgs, "stack_trace", enhanced.StackTrace)
	}

	switch enhanced.Context.Severity {
	case SeverityCritical, SeverityHigh:
		slog.ErrorContext(ctx, "Error occurred", logArgs...)
	case SeverityMedium:
		slog.WarnContext(ctx, "Error occurred", logArgs...)
	default:
		slog.InfoContext(ctx, "Error occurred", logArgs...)
	}
}

func attributeFromValue(key string, value interface{}) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case bool:
		return attribute.Bool(key, v)
	default:
		return attribute.String(key, fmt.Sprintf("%v", v))
	}
}

func captureStackTrace(skip int) string {
	const maxStackSize = 50
	pc := make([]uintptr, maxStackSize)
	n := runtime.Callers(skip, pc)
	if n == 0 {
		return "no stack trace available"
	}

	frames := runtime.CallersFrames(pc[:n])
	var stackTrace string
	for {
		frame, more := frames.Next()
		stackTrace += fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function)
		if !more {
			break
		}
	}
	return stackTrace
}

var globalErrorRecorder *ErrorRecorder
var globalErrorRecorderOnce sync.Once

func getGlobalErrorRecorder() *ErrorRecorder {
	globalErrorRecorderOnce.Do(func() {
		globalErrorRecorder = NewErrorRecorder()
	})
	return globalErrorRecorder
}

// RecordError provides a convenient global function for error recording.
func RecordError(ctx context.Context, err error, errorCtx ErrorContext) *EnhancedError {
	return getGlobalErrorRecorder().RecordError(ctx, err, errorCtx)
}

// RecordEvent provides a convenient global function for event recording.
func RecordEvent(ctx context.Context, eventName string, attributes map[string]interface{}) {
	getGlobalErrorRecorder().RecordEvent(ctx, eventName, attributes)
}

// RecordValidationFailure provides a convenient global function.
func RecordValidationFailure(ctx context.Context, field string, value interface{}, reason string) {
	getGlobalErrorRecorder().RecordValidationFailure(ctx, field, value, reason)
}
