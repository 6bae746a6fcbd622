// Package context propagates the per-request correlation id from the HTTP
// layer down to services and repositories, so every log line of one turn can
// be tied together.
package context

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

const (
	RequestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
	unknownID       = "unknown"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		requestID = unknownID
	}
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID never fails; a missing id comes back as "unknown" so callers
// can log it unconditionally.
func GetRequestID(ctx context.Context) string {
	requestID, ok := ctx.Value(RequestIDKey).(string)
	if !ok || requestID == "" {
		return unknownID
	}
	return requestID
}

// FromFiberCtx detaches a request-scoped context from the fiber one. Handlers
// derive their deadline from this instead of fiber's context, which is
// recycled when the handler returns.
func FromFiberCtx(c *fiber.Ctx) context.Context {
	requestID, ok := c.Locals(requestIDHeader).(string)
	if !ok || requestID == "" {
		requestID = c.Get(requestIDHeader)
	}

	return WithRequestID(context.Background(), requestID)
}
