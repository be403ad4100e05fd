package shared

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"

	"github.com/google/uuid"
)

// ContextKey is the key type for request-scoped values.
type ContextKey string

const (
	// CallerIDContextKey is the context key for the caller's user ID.
	// Every request is attributed to a caller before it reaches a handler.
	CallerIDContextKey ContextKey = "callerID"

	// TraceIDKey is the key for the trace ID in the request context.
	TraceIDKey ContextKey = "traceID"

	// traceIDLength is the number of random bytes in a trace ID.
	traceIDLength = 16
)

// SetTraceID adds a freshly generated trace ID to the context.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, generateTraceID())
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// SetCallerID records the caller's user ID in the context.
func SetCallerID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, CallerIDContextKey, id)
}

// GetCallerID retrieves the caller's user ID from the context.
// The second return value is false when no caller has been recorded.
func GetCallerID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(CallerIDContextKey).(uuid.UUID)
	return id, ok
}

// generateTraceID creates a random 32-character hex trace ID. crypto/rand
// failure falls back to uuid-derived bytes rather than a static value.
func generateTraceID() string {
	b := make([]byte, traceIDLength)
	if n, err := rand.Read(b); err != nil || n != traceIDLength {
		slog.Error("failed to generate random trace ID",
			slog.Any("error", err),
			slog.Int("bytes_read", n))
		u := uuid.New()
		copy(b, u[:])
	}
	return hex.EncodeToString(b)
}
