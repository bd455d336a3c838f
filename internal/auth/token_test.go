package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestIssueAndVerify(t *testing.T) {
	authority, err := NewAuthority("test-secret", WithIssuer("test-issuer"))
	if err != nil {
		t.Fatalf("NewAuthority: %v", err)
	}

	token, expiresAt, err := authority.Issue(42, "Ada", "ada@x.com", RoleResearcher)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatalf("expected future expiration, got %v", expiresAt)
	}

	claims, err := authority.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	id, err := claims.UserID()
	if err != nil || id != 42 {
		t.Fatalf("unexpected user id: %d, err=%v", id, err)
	}
	if claims.Name != "Ada" || claims.Email != "ada@x.com" {
		t.Fatalf("identity fields not preserved: %+v", claims)
	}
	if claims.Role != RoleResearcher {
		t.Fatalf("unexpected role: %s", claims.Role)
	}
	if claims.Issuer != "test-issuer" {
		t.Fatalf("unexpected issuer: %s", claims.Issuer)
	}
}

func TestVerifyFailuresAreIndistinguishable(t *testing.T) {
	authority, err := NewAuthority("test-secret")
	if err != nil {
		t.Fatalf("NewAuthority: %v", err)
	}
	other, err := NewAuthority("another-secret")
	if err != nil {
		t.Fatalf("NewAuthority: %v", err)
	}

	valid, _, err := authority.Issue(7, "Grace", "grace@x.com", RoleAdmin)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	foreign, _, err := other.Issue(7, "Grace", "grace@x.com", RoleAdmin)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	cases := map[string]string{
		"empty":        "",
		"garbage":      "not-a-token",
		"two segments": strings.Join(strings.Split(valid, ".")[:2], "."),
		"wrong secret": foreign,
		"bad encoding": "x" + valid,
	}
	for name, token := range cases {
		if _, err := authority.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	current := time.Now().UTC()
	authority, err := NewAuthority("test-secret",
		WithTokenTTL(time.Hour),
		WithClock(func() time.Time { return current }),
	)
	if err != nil {
		t.Fatalf("NewAuthority: %v", err)
	}

	token, _, err := authority.Issue(1, "Ada", "ada@x.com", RoleResearcher)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := authority.Verify(token); err != nil {
		t.Fatalf("token should verify before expiry: %v", err)
	}

	current = current.Add(time.Hour + time.Minute)
	if _, err := authority.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after expiry, got %v", err)
	}
}

func TestNewAuthorityRequiresSecret(t *testing.T) {
	if _, err := NewAuthority("   "); err == nil {
		t.Fatal("expected error for blank secret")
	}
}

func TestContextHelpers(t *testing.T) {
	authority, err := NewAuthority("test-secret")
	if err != nil {
		t.Fatalf("NewAuthority: %v", err)
	}
	token, _, err := authority.Issue(7, "Grace", "grace@x.com", RoleAdmin)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	claims, err := authority.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}

	ctx := ContextWithIdentity(t.Context(), claims)
	got, ok := IdentityFromContext(ctx)
	if !ok || got.Email != "grace@x.com" {
		t.Fatalf("identity not round-tripped: %+v ok=%v", got, ok)
	}
	if !HasRole(ctx, RoleAdmin) {
		t.Fatal("expected admin role")
	}
	if HasRole(ctx, RoleResearcher) {
		t.Fatal("role check must be exact, not hierarchical")
	}

	ctx = ContextWithToken(ctx, token)
	raw, ok := TokenFromContext(ctx)
	if !ok || raw != token {
		t.Fatalf("token not round-tripped")
	}
}
