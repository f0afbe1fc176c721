package session

import (
	"net/http"
	"time"
)

const (
	// CookieName is the name the credential travels under as a cookie.
	CookieName = "adminToken"
	// DefaultTTL is the fixed credential lifetime.
	DefaultTTL = 24 * time.Hour
)

// Credential is the single bearer token the console holds.
type Credential struct {
	Token     string    `json:"token"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Path      string    `json:"path"`
	SameSite  string    `json:"same_site"`
	Secure    bool      `json:"secure"`
}

func newCredential(token string, now time.Time, ttl time.Duration, secure bool) Credential {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return Credential{
		Token:     token,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
		Path:      "/",
		SameSite:  "Lax",
		Secure:    secure,
	}
}

// Expired reports whether the credential is past its expiry at now.
func (c Credential) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// Cookie renders the credential as the cookie forwarded on cross-origin calls.
func (c Credential) Cookie() *http.Cookie {
	path := c.Path
	if path == "" {
		path = "/"
	}
	return &http.Cookie{
		Name:     CookieName,
		Value:    c.Token,
		Path:     path,
		Expires:  c.ExpiresAt,
		Secure:   c.Secure,
		HttpOnly: false,
		SameSite: http.SameSiteLaxMode,
	}
}
