package token

import (
	"net/http"
	"strings"

	"github.com/desempeno/evaluacion-backend/pkg/httputil"
)

// Middleware validates a bearer token when one is present and puts its
// claims into the request context for logging. Requests without an
// Authorization header pass through untouched: the legacy clients only
// send tokens on the admin views, so authentication stays optional at
// the transport level and the services enforce their own rules.
func Middleware(manager *Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			tokenString := strings.TrimPrefix(header, "Bearer ")
			if tokenString == header {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := manager.Validate(tokenString)
			if err != nil {
				httputil.Error(w, r, err)
				return
			}

			ctx := httputil.WithUserContext(r.Context(), claims.Cedula, claims.Nombre, string(claims.Role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
