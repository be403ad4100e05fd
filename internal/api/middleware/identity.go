package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rohitid33/sprint-rail/internal/api/shared"
)

// IdentityMiddleware attributes every request to the configured caller ID.
// There is no credential check; the service runs single-identity and the
// fixed ID partitions data the same way a real authenticated user would.
func IdentityMiddleware(callerID uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetCallerID(r.Context(), callerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
