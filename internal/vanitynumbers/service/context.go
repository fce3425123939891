package service

import "context"

type correlationKey struct{}

// WithCorrelationID tags ctx so published events can be traced back to the
// request or contact that caused them.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}
