package shared

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// ContextKey is the type of request-scoped values set by the API layer.
type ContextKey string

const (
	// UserIDContextKey holds the authenticated caller's uuid.UUID.
	UserIDContextKey ContextKey = "userID"

	// TraceIDKey holds the request's trace id string.
	TraceIDKey ContextKey = "traceID"
)

// WithTraceID stores traceID in ctx.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// NewTraceID returns the id of the span active in ctx, or a fresh random
// 32 character hex id when there is no valid span.
func NewTraceID(ctx context.Context) string {
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		return sc.TraceID().String()
	}
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// GetTraceID returns the trace id stored in ctx, or "".
func GetTraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(TraceIDKey).(string)
	return traceID
}

// WithUserID stores the authenticated caller in ctx.
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, UserIDContextKey, userID)
}

// GetUserID returns the caller stored in ctx. The boolean is false when no
// caller is present or the stored id is uuid.Nil.
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}
