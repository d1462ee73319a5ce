package auth

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"dealchecker/pkg/requestcontext"
)

// JWTValidator defines the interface for validating JWT tokens
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims represents the claims we expect from the JWT validator
type JWTClaims struct {
	UserID      string
	Role        string
	Permissions []string
}

// Capability is the set of permissions (and optional role) a route demands.
type Capability struct {
	Permissions []string
	Role        string
}

// Allowed reports whether the caller satisfies the capability: every required
// permission must be held and, when a role is named, the role must match.
func Allowed(caller requestcontext.Caller, required Capability) bool {
	for _, p := range required.Permissions {
		if !caller.HasPermission(p) {
			return false
		}
	}
	if required.Role != "" && caller.Role != required.Role {
		return false
	}
	return true
}

// writeJSONError writes a JSON error response with the given status code and error details.
func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// RequireAuth validates the bearer token and stores the caller and the raw
// Authorization header in the context.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			authHeader := r.Header.Get("Authorization")
			const bearerPrefix = "Bearer "
			token, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			ctx = requestcontext.WithIdentity(ctx, requestcontext.Caller{
				UserID:      claims.UserID,
				Role:        claims.Role,
				Permissions: claims.Permissions,
			})
			ctx = requestcontext.WithAuthToken(ctx, authHeader)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireCapability rejects callers that do not satisfy the capability. It
// must run after RequireAuth.
func RequireCapability(required Capability, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			caller, ok := requestcontext.Identity(ctx)
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
				return
			}
			if !Allowed(caller, required) {
				logger.WarnContext(ctx, "forbidden - capability check failed",
					"request_id", requestcontext.RequestID(ctx),
					"user_id", caller.UserID,
					"role", caller.Role,
					"required_role", required.Role,
					"required_permissions", required.Permissions,
				)
				writeJSONError(w, http.StatusForbidden, "forbidden", "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
