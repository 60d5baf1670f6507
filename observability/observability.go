// Package observability owns the process-wide OpenTelemetry bootstrap: a
// tracer provider (stdout exporter by default, OTLP over gRPC when an
// endpoint is configured), span helpers, and an error recorder.
package observability

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const tracerName = "eightchars"

var resource *sdkresource.Resource
var initResourcesOnce sync.Once
var initObserverOnce sync.Once

// Wrappers for the OpenTelemetry trace package.
var WithAttributes = trace.WithAttributes
var SpanFromContext = trace.SpanFromContext

// ObserverInterface is the tracing surface the calculation packages depend on.
type ObserverInterface interface {
	Shutdown(ctx context.Context) error
	Tracer(name string) trace.Tracer
	CreateSpan(ctx context.Context, name string) (context.Context, trace.Span)
}

type observer struct {
	tp *sdktrace.TracerProvider
}

var oi *observer

// NewLocalObserver initializes the tracer provider with the stdout exporter.
func NewLocalObserver() ObserverInterface {
	initObserverOnce.Do(func() {
		tp, _ := initStdoutProvider()
		oi = &observer{tp: tp}
	})
	return oi
}

// NewObserver initializes the tracer provider. An empty address selects the
// stdout exporter; otherwise the OTLP gRPC exporter targets the address.
func NewObserver(address string) (ObserverInterface, error) {
	var err error
	initObserverOnce.Do(func() {
		var tp *sdktrace.TracerProvider
		if address == "" {
			tp, err = initStdoutProvider()
		} else {
			tp, err = initTracerProvider(address)
		}
		oi = &observer{tp: tp}
	})
	return oi, err
}

// Observer returns the process observer, auto-initializing a local stdout
// observer when nothing has been configured.
func Observer() ObserverInterface {
	if oi == nil {
		return NewLocalObserver()
	}
	return oi
}

// Shutdown flushes and stops the tracer provider.
func (o *observer) Shutdown(ctx context.Context) error {
	return o.tp.Shutdown(ctx)
}

// Tracer returns a named tracer.
func (o *observer) Tracer(name string) trace.Tracer {
	return o.tp.Tracer(name)
}

// CreateSpan starts a new span on the engine tracer.
func (o *observer) CreateSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(tracerName)
	return tracer.Start(ctx, name)
}

func initResource() *sdkresource.Resource {
	initResourcesOnce.Do(func() {
		extraResources, _ := sdkresource.New(
			context.Background(),
			sdkresource.WithOS(),
			sdkresource.WithProcess(),
			sdkresource.WithHost(),
			sdkresource.WithAttributes(
				attribute.String("application", "eightchars"),
				attribute.String("service.name", "eightchars"),
				attribute.String("service.namespace", "observability"),
			),
		)
		resource, _ = sdkresource.Merge(
			sdkresource.Default(),
			extraResources,
		)
	})
	return resource
}

func initStdoutProvider() (*sdktrace.TracerProvider, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize stdouttrace export pipeline: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(initResource()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return tp, nil
}

func initTracerProvider(address string) (*sdktrace.TracerProvider, error) {
	if address == "" {
		return nil, fmt.Errorf("address is required")
	}
	conn, err := grpc.NewClient(address,
		// Note the use of insecure transport here. TLS is recommended in production.
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, err
	}

	exporter, err := otlptracegrpc.New(context.Background(), otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(initResource()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return tp, nil
}

// InitMeterProvider installs an OTLP gRPC meter provider. The endpoint is
// taken from the standard OTEL_EXPORTER_OTLP_* environment variables.
func InitMeterProvider() (*sdkmetric.MeterProvider, error) {
	exporter, err := otlpmetricgrpc.New(context.Background())
	if err != nil {
		return nil, fmt.Errorf("new otlp metric grpc exporter failed: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		sdkmetric.WithResource(initResource()),
	)
	otel.SetMeterProvider(mp)

	return mp, nil
}
