package auth

import (
	"fmt"
	"strings"
)

// Role is the closed set of account roles. There is no hierarchy: an
// operation declares exactly one acceptable role, and admin does not
// implicitly satisfy a researcher check.
type Role string

const (
	RoleResearcher Role = "researcher"
	RoleAdmin      Role = "admin"
)

// ParseRole normalizes and validates a role string.
func ParseRole(s string) (Role, error) {
	switch Role(strings.TrimSpace(strings.ToLower(s))) {
	case RoleResearcher:
		return RoleResearcher, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("unknown role %q (valid options: researcher, admin)", s)
	}
}

// UnmarshalText implements encoding.TextUnmarshaler so roles survive JSON and
// env decoding without stringly-typed comparisons downstream.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func (r Role) String() string { return string(r) }
