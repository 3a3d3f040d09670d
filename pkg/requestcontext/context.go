// Package requestcontext provides request-scoped values shared between
// middleware, handlers, and services. All operations within a single request
// observe the same "now" timestamp so expiry checks and audit fields agree.
package requestcontext

import (
	"context"
	"time"
)

type contextKeyTime struct{}

// WithTime injects a specific time into a context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, contextKeyTime{}, t)
}

// Now retrieves the request-scoped time from the context. Returns the zero
// time when no middleware captured one; callers fall back to their own clock.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(contextKeyTime{}).(time.Time); ok {
		return t
	}
	return time.Time{}
}
