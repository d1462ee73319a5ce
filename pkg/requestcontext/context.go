// Package requestcontext provides HTTP-independent context accessors for request-scoped values.
//
// This package defines context keys and getter/setter functions for values that are
// typically set by middleware but consumed by services. By keeping this package free
// of net/http dependencies, services can import only what they need without pulling
// in HTTP-related code.
//
// Usage in services (read values):
//
//	identity, ok := requestcontext.Identity(ctx)
//	requestID := requestcontext.RequestID(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in middleware (set values):
//
//	ctx = requestcontext.WithIdentity(ctx, identity)
//	ctx = requestcontext.WithRequestID(ctx, requestID)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
//	ctx = requestcontext.WithAuthToken(ctx, "Bearer test")
package requestcontext

import (
	"context"
	"slices"
	"time"
)

// Context key types (unexported for encapsulation).
type (
	identityKey    struct{}
	authTokenKey   struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// Exported context keys for direct use in tests that need context.WithValue.
var (
	ContextKeyIdentity    = identityKey{}
	ContextKeyAuthToken   = authTokenKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// Caller is the resolved identity of the employee making a request.
type Caller struct {
	UserID      string
	Role        string
	Permissions []string
}

// HasPermission reports whether the caller holds permission p.
func (c Caller) HasPermission(p string) bool {
	return slices.Contains(c.Permissions, p)
}

// -----------------------------------------------------------------------------
// Auth context
// -----------------------------------------------------------------------------

// Identity retrieves the authenticated caller from the context.
func Identity(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(ContextKeyIdentity).(Caller)
	return c, ok
}

// WithIdentity injects the authenticated caller into the context.
func WithIdentity(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, ContextKeyIdentity, c)
}

// AuthToken retrieves the raw Authorization header value. It is forwarded to
// the deal registry on behalf of the caller.
func AuthToken(ctx context.Context) string {
	if token, ok := ctx.Value(ContextKeyAuthToken).(string); ok {
		return token
	}
	return ""
}

// WithAuthToken injects the raw Authorization header value.
func WithAuthToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ContextKeyAuthToken, token)
}

// -----------------------------------------------------------------------------
// Request metadata
// -----------------------------------------------------------------------------

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// -----------------------------------------------------------------------------
// Request time
// -----------------------------------------------------------------------------

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() if not set (for non-HTTP contexts like workers, CLI, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := TimeFrom(ctx); ok {
		return t
	}
	return time.Now()
}

// TimeFrom returns the request time when one was stored.
func TimeFrom(ctx context.Context) (time.Time, bool) {
	t, ok := ctx.Value(ContextKeyRequestTime).(time.Time)
	return t, ok
}

// WithTime injects a specific time into a context.
// Useful for:
//   - Service unit tests that don't run the full HTTP middleware chain
//   - Consumers that need consistent time within a batch operation
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
