package auth

import (
	"errors"
	"fmt"
	"strings"
)

// CookieName is the name under which the access token is stored.
const CookieName = "token"

// Cookie is the stored form of the access token, mirroring the attributes a
// browser session would set.
type Cookie struct {
	Value    string
	Path     string
	Secure   bool
	SameSite string
}

// NewCookie returns the canonical cookie for token.
func NewCookie(token string) Cookie {
	return Cookie{Value: token, Path: "/", Secure: true, SameSite: "strict"}
}

// String renders the cookie as `token=<jwt>; path=/; secure; samesite=strict`.
func (c Cookie) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s=%s", CookieName, c.Value)
	if c.Path != "" {
		fmt.Fprintf(&b, "; path=%s", c.Path)
	}
	if c.Secure {
		b.WriteString("; secure")
	}
	if c.SameSite != "" {
		fmt.Fprintf(&b, "; samesite=%s", c.SameSite)
	}
	return b.String()
}

// ParseCookie reads a cookie string produced by Cookie.String. Attribute
// names are case-insensitive.
func ParseCookie(s string) (Cookie, error) {
	parts := strings.Split(s, ";")
	name, value, ok := strings.Cut(strings.TrimSpace(parts[0]), "=")
	if !ok || name != CookieName {
		return Cookie{}, fmt.Errorf("cookie %q: missing %s=", s, CookieName)
	}
	if value == "" {
		return Cookie{}, errors.New("cookie has empty token")
	}

	c := Cookie{Value: value}
	for _, attr := range parts[1:] {
		k, v, _ := strings.Cut(strings.TrimSpace(attr), "=")
		switch strings.ToLower(k) {
		case "path":
			c.Path = v
		case "secure":
			c.Secure = true
		case "samesite":
			c.SameSite = strings.ToLower(v)
		}
	}
	return c, nil
}
