package tracing_test

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/apdexgauge/apdexgauge/internal/config"
	"github.com/apdexgauge/apdexgauge/internal/tracing"
)

func setupTestTracer(t *testing.T) (*tracetest.InMemoryExporter, trace.Tracer) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
	})
	return exporter, tp.Tracer("test")
}

func TestInitDisabledByDefault(t *testing.T) {
	p, err := tracing.Init(context.Background(), config.TracingConfig{})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })

	// Tracer must return a usable no-op (no panic)
	tracer := p.Tracer()
	_, span := tracer.Start(context.Background(), "test")
	span.End()
	if span.SpanContext().TraceID().IsValid() {
		t.Error("disabled provider produced a recording span")
	}
}

func TestInitWithEndpointEnablesTracing(t *testing.T) {
	// We can't actually connect to an endpoint in unit tests,
	// but we verify the provider is configured correctly.
	p, err := tracing.Init(context.Background(), config.TracingConfig{
		Endpoint:    "localhost:4317",
		Protocol:    "grpc",
		ServiceName: "test-service",
		SampleRate:  1.0,
		Insecure:    true,
	})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })

	_, span := p.Tracer().Start(context.Background(), "test")
	defer span.End()
	if !span.SpanContext().TraceID().IsValid() {
		t.Error("enabled provider produced an invalid trace ID")
	}
}

func TestInitHTTPProtocol(t *testing.T) {
	p, err := tracing.Init(context.Background(), config.TracingConfig{
		Endpoint: "localhost:4318",
		Protocol: "http",
		Insecure: true,
	})
	if err != nil {
		t.Fatalf("Init() with http protocol error = %v", err)
	}
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })
}

func TestInitUnsupportedProtocol(t *testing.T) {
	_, err := tracing.Init(context.Background(), config.TracingConfig{
		Endpoint: "localhost:4317",
		Protocol: "thrift",
		Insecure: true,
	})
	if err == nil {
		t.Fatal("Init() with unsupported protocol should return error")
	}
}

func TestInitInvalidSampleRate(t *testing.T) {
	tests := []struct {
		name string
		rate float64
	}{
		{"negative", -0.5},
		{"above one", 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tracing.Init(context.Background(), config.TracingConfig{
				Endpoint:   "localhost:4317",
				Protocol:   "grpc",
				Insecure:   true,
				SampleRate: tt.rate,
			})
			if err == nil {
				t.Fatalf("Init() with sample_rate=%g should return error", tt.rate)
			}
		})
	}
}

func TestRunSpanAttributes(t *testing.T) {
	exporter, tracer := setupTestTracer(t)

	ctx, span := tracing.StartRunSpan(context.Background(), tracer, "jsonl", []string{"a.jsonl", "b.jsonl"})
	if !trace.SpanContextFromContext(ctx).IsValid() {
		t.Fatal("StartRunSpan did not put a span in the context")
	}

	score := 0.875
	tracing.EndRunSpan(span, nil, &score, 200, 3)

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("exported %d spans, want 1", len(spans))
	}
	got := spans[0]
	if got.Name != "apdex.run" {
		t.Errorf("span name = %q, want apdex.run", got.Name)
	}
	if got.Status.Code != codes.Ok {
		t.Errorf("span status = %v, want Ok", got.Status.Code)
	}

	attrs := make(map[string]interface{})
	for _, kv := range got.Attributes {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	if attrs["apdex.input.format"] != "jsonl" {
		t.Errorf("format attribute = %v", attrs["apdex.input.format"])
	}
	if attrs["apdex.score"] != 0.875 {
		t.Errorf("score attribute = %v", attrs["apdex.score"])
	}
	if attrs["apdex.samples"] != int64(200) {
		t.Errorf("samples attribute = %v", attrs["apdex.samples"])
	}
	if attrs["apdex.invalid"] != int64(3) {
		t.Errorf("invalid attribute = %v", attrs["apdex.invalid"])
	}
}

func TestEndRunSpanRecordsError(t *testing.T) {
	exporter, tracer := setupTestTracer(t)

	_, span := tracing.StartRunSpan(context.Background(), tracer, "plain", []string{"-"})
	tracing.EndRunSpan(span, errors.New("source failed"), nil, 0, 0)

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("exported %d spans, want 1", len(spans))
	}
	got := spans[0]
	if got.Status.Code != codes.Error {
		t.Errorf("span status = %v, want Error", got.Status.Code)
	}
	for _, kv := range got.Attributes {
		if string(kv.Key) == "apdex.score" {
			t.Error("no-data run must not carry a score attribute")
		}
	}
	if len(got.Events) == 0 {
		t.Error("EndRunSpan did not record the error event")
	}
}

func TestEndRunSpanNilSpan(t *testing.T) {
	tracing.EndRunSpan(nil, nil, nil, 0, 0)
}
