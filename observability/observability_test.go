package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserverAutoInitializes(t *testing.T) {
	observer := Observer()
	require.NotNil(t, observer)

	// Repeated lookups return the same instance.
	assert.Same(t, observer, Observer())
}

func TestCreateSpanReturnsRecordingSpan(t *testing.T) {
	observer := Observer()

	ctx, span := observer.CreateSpan(context.Background(), "test-span")
	defer span.End()

	require.NotNil(t, ctx)
	require.NotNil(t, span)
	assert.True(t, span.IsRecording())
	assert.NotNil(t, SpanFromContext(ctx))
}

func TestTracerIsAvailable(t *testing.T) {
	observer := Observer()
	assert.NotNil(t, observer.Tracer("eightchars-test"))
}

func TestRecordErrorBuildsEnhancedError(t *testing.T) {
	recorder := NewErrorRecorder()
	original := errors.New("bracketing failed at seed")

	enhanced := recorder.RecordError(context.Background(), original, ErrorContext{
		Severity:  SeverityHigh,
		Category:  CategoryCalculation,
		Operation: "find_bracket",
		Component: "astronomy",
		Additional: map[string]interface{}{
			"target_longitude_deg": 315.0,
			"seed_jd":              2447196.5,
		},
	})

	require.NotNil(t, enhanced)
	assert.Equal(t, original.Error(), enhanced.Error())
	assert.ErrorIs(t, enhanced, original)
	assert.Equal(t, CategoryCalculation, enhanced.Context.Category)
	assert.NotEmpty(t, enhanced.StackTrace)
}

func TestRecordErrorWithNilErrorIsNoop(t *testing.T) {
	recorder := NewErrorRecorder()
	assert.Nil(t, recorder.RecordError(context.Background(), nil, ErrorContext{}))
}

func TestRecordEventDoesNotPanicWithoutSpan(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordEvent(context.Background(), "calculation started", map[string]interface{}{
			"operation": "compute",
		})
	})
}

func TestRecordValidationFailure(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordValidationFailure(context.Background(), "latitude", 91.0, "must be within [-90, 90]")
	})
}
