package account

import (
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// User is a registered account. PasswordHash is never serialized.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Claims is the token payload issued at sign-in.
type Claims struct {
	Username string `json:"username"`
	gojwt.RegisteredClaims
}

// Stamp sets the issued-at, expiry and issuer claims.
func (c *Claims) Stamp(now time.Time, ttl time.Duration, issuer string) {
	c.IssuedAt = gojwt.NewNumericDate(now)
	c.ExpiresAt = gojwt.NewNumericDate(now.Add(ttl))
	if issuer != "" {
		c.Issuer = issuer
	}
}
