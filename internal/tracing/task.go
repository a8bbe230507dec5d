package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// StartUploadSpan starts a span for one phase of the upload workflow.
func StartUploadSpan(ctx context.Context, phase, gfyName string) (context.Context, trace.Span) {
	ctx, span := Tracer().Start(ctx, "gfycat.upload."+phase,
		trace.WithSpanKind(trace.SpanKindClient),
	)
	if gfyName != "" {
		span.SetAttributes(attribute.String("gfycat.name", gfyName))
	}
	return ctx, span
}

// StartFinalizeSpan starts the root span of a background finalize task. The
// task outlives the upload call, so the upload span is attached as a link
// rather than as the parent.
func StartFinalizeSpan(ctx, parent context.Context, gfyName, taskID string) (context.Context, trace.Span) {
	ctx, span := Tracer().Start(ctx, "gfycat.upload.finalize",
		trace.WithNewRoot(),
		trace.WithLinks(trace.LinkFromContext(parent)),
	)
	span.SetAttributes(
		attribute.String("gfycat.name", gfyName),
		attribute.String("gfycat.finalize_task", taskID),
	)
	return ctx, span
}

// StartPaginationSpan starts a span covering a whole cursor walk.
func StartPaginationSpan(ctx context.Context, operation string) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "gfycat.paginate."+operation)
}
