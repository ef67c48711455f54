package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StartRunSpan starts a span covering one ingestion run.
func StartRunSpan(ctx context.Context, tracer trace.Tracer, format string, inputs []string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "apdex.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("apdex.input.format", format),
			attribute.StringSlice("apdex.input.sources", inputs),
		),
	)
}

// EndRunSpan records the run outcome on the span and ends it. A nil score
// means the run produced no samples.
func EndRunSpan(span trace.Span, err error, score *float64, samples, invalid uint64) {
	if span == nil {
		return
	}

	span.SetAttributes(
		attribute.Int64("apdex.samples", int64(samples)),
		attribute.Int64("apdex.invalid", int64(invalid)),
	)
	if score != nil {
		span.SetAttributes(attribute.Float64("apdex.score", *score))
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
