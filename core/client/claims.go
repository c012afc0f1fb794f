package client

import (
	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

// Claims are the authorization claims the backend embeds in the bearer JWT.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt int64    `json:"oriat,omitempty"`
	Username     string   `json:"username,omitempty"`
	Email        string   `json:"email,omitempty"`
	IsAdmin      bool     `json:"is_admin,omitempty"`
	Roles        []string `json:"roles,omitempty"`
}

// ParseClaims decodes the token's claims without verifying the signature.
// The token is opaque to the client; this is for display only (whoami,
// expiry hints), never for trust decisions.
func ParseClaims(token string) (*Claims, error) {
	claims := new(Claims)
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return nil, errors.Wrap(err, "parsing token claims")
	}
	return claims, nil
}
