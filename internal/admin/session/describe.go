package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Description is what the console can tell about a bearer token without
// the signing key. Nothing here is verified.
type Description struct {
	Opaque    bool
	Subject   string
	Role      string
	Issuer    string
	ExpiresAt time.Time
}

// Describe parses token as an unverified JWT. Tokens that are not JWTs are
// reported as opaque.
func Describe(token string) Description {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Description{Opaque: true}
	}
	d := Description{}
	if sub, err := claims.GetSubject(); err == nil {
		d.Subject = sub
	}
	if iss, err := claims.GetIssuer(); err == nil {
		d.Issuer = iss
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		d.ExpiresAt = exp.Time
	}
	if d.Subject == "" {
		for _, key := range []string{"user_id", "id", "username"} {
			if v, ok := claims[key]; ok {
				d.Subject = fmt.Sprint(v)
				break
			}
		}
	}
	if role, ok := claims["role"]; ok {
		d.Role = fmt.Sprint(role)
	}
	return d
}

func (d Description) String() string {
	if d.Opaque {
		return "opaque token"
	}
	parts := []string{}
	if d.Subject != "" {
		parts = append(parts, "subject="+d.Subject)
	}
	if d.Role != "" {
		parts = append(parts, "role="+d.Role)
	}
	if d.Issuer != "" {
		parts = append(parts, "issuer="+d.Issuer)
	}
	if !d.ExpiresAt.IsZero() {
		parts = append(parts, "token_expires="+d.ExpiresAt.Format(time.RFC3339))
	}
	if len(parts) == 0 {
		return "jwt without claims"
	}
	return strings.Join(parts, " ")
}

// Mask shortens a token for display.
func Mask(token string) string {
	if token == "" {
		return "<empty>"
	}
	if len(token) > 12 {
		return token[:6] + "..." + token[len(token)-4:]
	}
	return token
}
