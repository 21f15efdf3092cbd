// Package reqctx carries per-request values (request ID, authenticated
// username) through context.Context so that handlers and the log handler can
// read them without depending on gin.
package reqctx

import (
	"context"

	"github.com/google/uuid"
)

type (
	requestIDKey struct{}
	usernameKey  struct{}
)

// NewRequestID generates a random UUID v4 request ID.
func NewRequestID() string {
	return uuid.NewString()
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns "" if no request ID is attached.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameKey{}, username)
}

// Username returns the identity attached by the auth middleware, or "".
func Username(ctx context.Context) string {
	u, _ := ctx.Value(usernameKey{}).(string)
	return u
}
