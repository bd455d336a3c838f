package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	defaultIssuer   = "acadcollab"
	defaultTokenTTL = 2 * time.Hour
)

// Claims is the signed assertion carried by a session token: identity id,
// name, email, and role, plus the registered timestamp claims. No secret
// material ever enters a token.
type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
	jwt.RegisteredClaims
}

// UserID returns the numeric identity id carried in the subject claim.
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return id, nil
}

// Authority issues and verifies session tokens. It holds only the signing
// secret; tokens are stateless and validity is purely signature plus expiry.
type Authority struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// AuthorityOption configures an Authority.
type AuthorityOption func(*Authority)

// WithIssuer overrides the issuer claim.
func WithIssuer(issuer string) AuthorityOption {
	return func(a *Authority) {
		if issuer = strings.TrimSpace(issuer); issuer != "" {
			a.issuer = issuer
		}
	}
}

// WithTokenTTL configures the validity window of issued tokens.
func WithTokenTTL(ttl time.Duration) AuthorityOption {
	return func(a *Authority) {
		if ttl > 0 {
			a.ttl = ttl
		}
	}
}

// WithClock overrides the time source (useful for expiry tests).
func WithClock(fn func() time.Time) AuthorityOption {
	return func(a *Authority) {
		if fn != nil {
			a.now = fn
		}
	}
}

// NewAuthority constructs an Authority signing with the given HS256 secret.
func NewAuthority(secret string, opts ...AuthorityOption) (*Authority, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("auth secret is not configured")
	}
	a := &Authority{
		secret: []byte(secret),
		issuer: defaultIssuer,
		ttl:    defaultTokenTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Issue signs a token binding the identity and role, expiring after the
// configured validity window.
func (a *Authority) Issue(userID int64, name, email string, role Role) (string, time.Time, error) {
	if userID <= 0 {
		return "", time.Time{}, errors.New("userID is required")
	}
	now := a.now().UTC()
	expiresAt := now.Add(a.ttl)
	claims := Claims{
		Name:  name,
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    a.issuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks the token signature and required claims. All failure modes
// collapse into ErrInvalidToken.
func (a *Authority) Verify(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.now))
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if err := a.validateClaims(claims); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (a *Authority) validateClaims(claims *Claims) error {
	if claims.Issuer != a.issuer {
		return fmt.Errorf("unexpected issuer: %s", claims.Issuer)
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return errors.New("subject missing")
	}
	if _, err := claims.UserID(); err != nil {
		return errors.New("subject is not an identity id")
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return errors.New("timestamps missing")
	}
	if _, err := ParseRole(string(claims.Role)); err != nil {
		return err
	}
	now := a.now().UTC()
	if now.After(claims.ExpiresAt.Time) {
		return errors.New("token expired")
	}
	// Allow a small clock skew of 5 seconds when validating issued-at.
	if claims.IssuedAt.Time.After(now.Add(5 * time.Second)) {
		return errors.New("token issued in the future")
	}
	if claims.ExpiresAt.Time.Before(claims.IssuedAt.Time) {
		return errors.New("token expiry precedes issued-at")
	}
	return nil
}
