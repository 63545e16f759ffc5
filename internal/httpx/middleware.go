package httpx

import (
	"context"
	"net/http"

	"github.com/arkade-dev/storefront-api/internal/auth"
)

const sessionCookie = "sid"

type contextKey int

const identityKey contextKey = 0

// SessionReader resolves a session token to an identity. *auth.Sessions
// satisfies it; tests use a map-backed fake.
type SessionReader interface {
	Get(ctx context.Context, token string) (auth.Identity, error)
}

// SessionAuth resolves the session cookie once per request and stores the
// identity in the context. Requests without a valid session get a 401.
func SessionAuth(sessions SessionReader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(sessionCookie)
			if err != nil || c.Value == "" {
				writeMessage(w, http.StatusUnauthorized, "authentication required")
				return
			}
			who, err := sessions.Get(r.Context(), c.Value)
			if err != nil {
				writeMessage(w, http.StatusUnauthorized, "authentication required")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, who)))
		})
	}
}

// RequireAdmin gates a subtree to elevated roles. Must sit inside SessionAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		who, ok := IdentityFrom(r.Context())
		if !ok || !who.IsAdmin() {
			writeMessage(w, http.StatusForbidden, "not authorized to access this resource")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func IdentityFrom(ctx context.Context) (auth.Identity, bool) {
	who, ok := ctx.Value(identityKey).(auth.Identity)
	return who, ok
}
