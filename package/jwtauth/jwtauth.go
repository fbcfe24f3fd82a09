package jwtauth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// ErrNoExpiry is returned when the token does not carry an exp claim
var ErrNoExpiry = errors.New("token has no expiry")

// TokenReader reads claims of tokens issued by the lab API. The console has
// no signing key, so signatures are not verified here; the API stays the
// only authority on whether a token is accepted.
type TokenReader struct {
	parser *jwt.Parser
}

// NewTokenReader creates a new TokenReader instance
func NewTokenReader() *TokenReader {
	return &TokenReader{
		parser: jwt.NewParser(),
	}
}

// Claims parses the token payload without verifying the signature
func (r *TokenReader) Claims(tokenString string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := r.parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// ExpiresAt returns the exp claim of the token
func (r *TokenReader) ExpiresAt(tokenString string) (time.Time, error) {
	claims, err := r.Claims(tokenString)
	if err != nil {
		return time.Time{}, err
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}, ErrNoExpiry
	}
	return time.Unix(int64(exp), 0).UTC(), nil
}

// Expired reports whether the token expiry is before now. Tokens without
// an expiry never expire.
func (r *TokenReader) Expired(tokenString string, now time.Time) (bool, error) {
	exp, err := r.ExpiresAt(tokenString)
	if errors.Is(err, ErrNoExpiry) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return now.After(exp), nil
}

// Subject returns a string claim such as "role" or "sub", empty when absent
func (r *TokenReader) Subject(tokenString, claim string) string {
	claims, err := r.Claims(tokenString)
	if err != nil {
		return ""
	}
	value, _ := claims[claim].(string)
	return value
}
