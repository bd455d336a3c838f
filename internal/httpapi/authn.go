package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"acadcollab.org/internal/auth"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

// The two auth-entry routes plus the reset flow and probes are reachable
// without a token; everything else is gated.
var publicPaths = []string{
	"/auth/register",
	"/auth/login",
	"/auth/forgot-password",
	"/auth/reset-password",
	"/healthz",
	"/readyz",
	"/metrics",
}

func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			w.Header().Set("WWW-Authenticate", `Bearer realm="acadcollab"`)
			writeError(w, r, http.StatusUnauthorized, err.Error())
			return
		}

		claims, err := a.authority.Verify(token)
		if err != nil {
			w.Header().Set("WWW-Authenticate", `Bearer realm="acadcollab", error="invalid_token"`)
			writeError(w, r, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := auth.ContextWithIdentity(r.Context(), claims)
		ctx = auth.ContextWithToken(ctx, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole admits only callers whose authenticated role matches exactly.
// No identity in context yields 401; a different role yields 403.
func RequireRole(role auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := auth.IdentityFromContext(r.Context())
			if !ok {
				w.Header().Set("WWW-Authenticate", `Bearer realm="acadcollab"`)
				writeError(w, r, http.StatusUnauthorized, "authentication required")
				return
			}
			if claims.Role != role {
				w.Header().Set("WWW-Authenticate", `Bearer realm="acadcollab", error="insufficient_role"`)
				writeError(w, r, http.StatusForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return false
}
