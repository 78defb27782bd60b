package models

import "github.com/golang-jwt/jwt/v5"

// IdentityClaims represents the JWT claims issued by the identity provider.
type IdentityClaims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, aud, exp, iat, etc.)
	Email                string `json:"email"`
	DisplayName          string `json:"name"`
	Role                 string `json:"role"` // "authenticated" or "anon"
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *IdentityClaims) GetUserID() string {
	return c.Subject
}
