package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"acadcollab.org/internal/auth"
)

func identityRequest(t *testing.T, role auth.Role) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	claims := &auth.Claims{
		Name:  "Test Actor",
		Email: "actor@example.com",
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "7",
		},
	}
	return req.WithContext(auth.ContextWithIdentity(req.Context(), claims))
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireRole(auth.RoleAdmin)(next)

	t.Run("matching role passes", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, identityRequest(t, auth.RoleAdmin))
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
	})

	t.Run("other role is forbidden", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, identityRequest(t, auth.RoleResearcher))
		if rr.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rr.Code)
		}
		if rr.Header().Get("WWW-Authenticate") == "" {
			t.Fatalf("expected WWW-Authenticate header")
		}
	})

	t.Run("missing identity is unauthorized", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/users", nil))
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rr.Code)
		}
		if rr.Header().Get("WWW-Authenticate") == "" {
			t.Fatalf("expected WWW-Authenticate header")
		}
	})
}

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "valid", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "case insensitive scheme", header: "bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "missing", header: "", wantErr: true},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", wantErr: true},
		{name: "empty token", header: "Bearer   ", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := extractBearerToken(tc.header)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.header)
				}
				return
			}
			if err != nil {
				t.Fatalf("extractBearerToken: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPublicPaths(t *testing.T) {
	public := []string{
		"/auth/register", "/auth/login", "/auth/forgot-password",
		"/auth/reset-password", "/healthz", "/readyz", "/metrics",
	}
	for _, p := range public {
		if !isPublicPath(p) {
			t.Fatalf("expected %q to be public", p)
		}
	}
	for _, p := range []string{"/users", "/projects", "/documents", "/messages", "/"} {
		if isPublicPath(p) {
			t.Fatalf("expected %q to require authentication", p)
		}
	}
}
