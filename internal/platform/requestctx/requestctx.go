// Package requestctx carries the request id assigned at the edge of the HTTP
// stack so domain code can tag its log lines without importing transport
// types.
package requestctx

import "context"

type ctxKey struct{}

var requestIDKey ctxKey

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID returns the request id, or "" outside a request scope.
func GetRequestID(ctx context.Context) string {
	if value, ok := ctx.Value(requestIDKey).(string); ok {
		return value
	}
	return ""
}
