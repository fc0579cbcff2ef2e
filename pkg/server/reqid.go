package server

import (
	"context"

	"github.com/google/uuid"
)

type requestIDKey struct{}

// withRequestID attaches a fresh correlation id to the context of one tool
// call. The id travels with the context instead of living in any shared
// state, so log lines from nested calls stay attributable.
func withRequestID(ctx context.Context) (context.Context, string) {
	id := uuid.NewString()
	return context.WithValue(ctx, requestIDKey{}, id), id
}

// RequestID returns the correlation id for the current call, or an empty
// string outside a tool dispatch.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
