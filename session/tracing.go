package session

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/MrEthical07/sessionauth/session"

type tracedBackend struct {
	next   Backend
	tracer trace.Tracer
}

// WithTracing wraps next so every call runs inside a client span named
// "session.backend.<op>". A nil provider uses the global one.
func WithTracing(next Backend, provider trace.TracerProvider) Backend {
	if next == nil {
		return nil
	}
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	return &tracedBackend{
		next:   next,
		tracer: provider.Tracer(tracerName),
	}
}

func (b *tracedBackend) start(ctx context.Context, op string) (context.Context, trace.Span) {
	return b.tracer.Start(ctx, "session.backend."+op, trace.WithSpanKind(trace.SpanKindClient))
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (b *tracedBackend) Search(ctx context.Context, token string) ([]Record, error) {
	ctx, span := b.start(ctx, "search")
	out, err := b.next.Search(ctx, token)
	span.SetAttributes(attribute.Int("session.matches", len(out)))
	finish(span, err)
	return out, err
}

func (b *tracedBackend) Save(ctx context.Context, rec Record) (Record, error) {
	ctx, span := b.start(ctx, "save")
	span.SetAttributes(attribute.String("session.user_id", rec.UserID))
	out, err := b.next.Save(ctx, rec)
	finish(span, err)
	return out, err
}

func (b *tracedBackend) Remove(ctx context.Context, rec Record) error {
	ctx, span := b.start(ctx, "remove")
	span.SetAttributes(attribute.String("session.user_id", rec.UserID))
	err := b.next.Remove(ctx, rec)
	finish(span, err)
	return err
}
