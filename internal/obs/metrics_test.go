package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                       "/",
		"/metrics":               "/metrics",
		"/users":                 "/users",
		"/users/42":              "/users/:id",
		"/projects/7":            "/projects/:id",
		"/projects/7/extra":      "/projects/7/extra",
		"/documents?projectId=3": "/documents",
		"/auth/login":            "/auth/login",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}
