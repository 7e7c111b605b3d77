package otelhelper

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrorClassKey tags a failed span with a short error category such as
// "not_found" or "invalid_state".
const ErrorClassKey = "versify.error.class"

// SetError records err on the span and marks it failed. An empty class is not
// recorded.
func SetError(span trace.Span, err error, class string, attrs ...attribute.KeyValue) {
	span.RecordError(err, trace.WithAttributes(attrs...))
	span.SetStatus(codes.Error, err.Error())

	if class != "" {
		span.SetAttributes(attribute.String(ErrorClassKey, class))
	}
}
