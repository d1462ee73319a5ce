package testutil

import (
	"net/http"

	"dealchecker/pkg/requestcontext"
)

// WithCaller attaches an authenticated caller and its bearer token to the
// request, as auth.RequireAuth would.
func WithCaller(req *http.Request, caller requestcontext.Caller) *http.Request {
	ctx := requestcontext.WithIdentity(req.Context(), caller)
	ctx = requestcontext.WithAuthToken(ctx, "Bearer test-"+caller.UserID)
	return req.WithContext(ctx)
}
