package telemetry

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of service spans
const TracerName = "schoolms-backend"

// Span attribute keys used by the application services
const (
	AttrSchoolID      = "school.id"
	AttrLearnerID     = "learner.id"
	AttrInvoiceID     = "invoice.id"
	AttrInvoiceNumber = "invoice.number"
	AttrReceiptNumber = "receipt.number"
	AttrPaymentMethod = "payment.method"
	AttrAmount        = "amount"
	AttrStrategy      = "grading.strategy"
	AttrCount         = "count"
)

// StartServiceSpan starts an internal span named {service}.{method}
//
//	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "record")
//	defer span.End()
func StartServiceSpan(ctx context.Context, service, method string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, fmt.Sprintf("%s.%s", service, method),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// SchoolAttr tags a span with the tenant
func SchoolAttr(id uuid.UUID) attribute.KeyValue {
	return attribute.String(AttrSchoolID, id.String())
}

// IDAttr converts a UUID attribute
func IDAttr(key string, id uuid.UUID) attribute.KeyValue {
	return attribute.String(key, id.String())
}

// RecordError marks the span failed; a nil err is ignored
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// SetOK marks the span successful
func SetOK(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// TraceID returns the current trace id or ""
func TraceID(ctx context.Context) string {
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		return sc.TraceID().String()
	}
	return ""
}
