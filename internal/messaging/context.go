package messaging

import "context"

type correlationKey struct{}

// WithCorrelationID returns a context carrying id. Events published with
// that context inherit it, and consumers restore it before handling.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID returns the correlation id stored in ctx, or "".
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)

	return id
}
