package recordstore

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// KeyExpiry inspects an API key and, when the key is a JWT carrying an exp
// claim (hosted record stores issue keys in this form), returns its expiry.
// The signature is not verified; the store enforces the key, this is only an
// early warning for stale local config. ok is false when the key carries no
// readable expiry.
func KeyExpiry(key string) (expiry time.Time, ok bool) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())

	var claims jwt.RegisteredClaims
	if _, _, err := parser.ParseUnverified(key, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
