package identitymw

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/feastly/api/internal/service/models/identity"
)

// CookieName is the session cookie shared by the auth handlers and this
// middleware.
const CookieName = "feastly_session"

type ctxKey struct{}

type resolver interface {
	Resolve(ctx context.Context, token string) (*identity.Identity, error)
}

// NewIdentityMiddleware resolves the session cookie into an Identity and
// stashes it in the request context. Requests without a valid session pass
// through with no identity; handlers decide whether that is acceptable.
func NewIdentityMiddleware(auth resolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(CookieName)
			if err != nil {
				next.ServeHTTP(w, r)

				return
			}

			ident, err := auth.Resolve(r.Context(), cookie.Value)
			if err != nil {
				slog.Error("Error resolving session", "error", err)
				next.ServeHTTP(w, r)

				return
			}

			if ident == nil {
				next.ServeHTTP(w, r)

				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), ident)))
		})
	}
}

// WithIdentity stores the caller identity in the context.
func WithIdentity(ctx context.Context, ident *identity.Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, ident)
}

// FromContext returns the caller identity, or nil when the request carried no
// valid session.
func FromContext(ctx context.Context) *identity.Identity {
	ident, _ := ctx.Value(ctxKey{}).(*identity.Identity)

	return ident
}
