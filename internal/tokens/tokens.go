package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Admin tokens are plain HS256 JWTs signed with a shared secret. The admin
// surface is a single moderated write path, so a static secret plus short
// TTLs is enough; OIDC takes over when an issuer is configured.

// GenerateAdminToken mints a signed token for the given subject.
func GenerateAdminToken(secret, sub string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   sub,
		"scope": "jokes:admin",
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// VerifyAdminToken validates signature, expiry, and the admin scope, and
// returns the claims.
func VerifyAdminToken(secret, raw string) (jwt.MapClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return nil, errors.New("invalid token")
	}
	if scope, _ := claims["scope"].(string); scope != "jokes:admin" {
		return nil, errors.New("missing admin scope")
	}
	return claims, nil
}
