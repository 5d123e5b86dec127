package nethttp

import (
	"context"
	"errors"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// startSpan opens the client span of a call and writes its trace
// context into header.
func (s *Service) startSpan(ctx context.Context, method, url, id string, header http.Header) (context.Context, trace.Span) {
	ctx, span := s.tracer.Start(ctx, "nethttp."+method, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.full", url),
		attribute.String("nethttp.call_id", id),
	)

	s.propagator.Inject(ctx, propagation.HeaderCarrier(header))

	return ctx, span
}

// endSpan records the outcome of a call on its span.
func endSpan(span trace.Span, status int, err error, cancelled bool) {
	if status != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}

	switch {
	case cancelled:
		span.SetStatus(codes.Error, "cancelled")
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		var statusErr *UnexpectedStatusError
		if errors.As(err, &statusErr) {
			span.SetAttributes(attribute.Int("http.response.status_code", statusErr.StatusCode))
		}
	default:
		span.SetStatus(codes.Ok, "")
	}

	span.End()
}
