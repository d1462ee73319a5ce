// Package requesttime pins one clock reading per request. Task timestamps and
// audit events written while serving the request all use it.
package requesttime

import (
	"net/http"
	"time"

	"dealchecker/pkg/requestcontext"
)

// Middleware stores the request's start time in the context. A time already
// present, such as one set by a test, is kept.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if _, ok := requestcontext.TimeFrom(ctx); !ok {
			ctx = requestcontext.WithTime(ctx, time.Now().UTC())
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
