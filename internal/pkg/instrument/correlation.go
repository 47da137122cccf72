package instrument

import "context"

type correlationKey struct{}

// CorrelationHeader carries the correlation id on HTTP requests and broker
// messages.
const CorrelationHeader = "X-Correlation-ID"

// SetCorrelationID returns a copy of ctx carrying id.
func SetCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// GetCorrelationID returns the id stored by SetCorrelationID, or "".
func GetCorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}
