package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// fallbackTokenTTL applies when a caller issues without an explicit TTL.
const fallbackTokenTTL = 15 * time.Minute

// TokenIssuer mints and verifies signed session tokens. It is purely
// functional given the secret; a bad secret or algorithm is a startup fault,
// never a per-call error.
type TokenIssuer struct {
	secret []byte
	method jwt.SigningMethod
}

// NewTokenIssuer builds an issuer for the given HMAC algorithm (HS256, HS384
// or HS512). An empty secret or non-HMAC algorithm is a configuration error.
func NewTokenIssuer(secret, algorithm string) (*TokenIssuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("token issuer: signing secret is empty")
	}
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("token issuer: unknown algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("token issuer: algorithm %q is not an HMAC method", algorithm)
	}
	return &TokenIssuer{secret: []byte(secret), method: method}, nil
}

// Issue signs the given claims with an absolute expiry of now+ttl. A zero or
// negative ttl falls back to fallbackTokenTTL.
func (ti *TokenIssuer) Issue(claims map[string]any, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = fallbackTokenTTL
	}
	mc := jwt.MapClaims{}
	for k, v := range claims {
		mc[k] = v
	}
	mc["exp"] = time.Now().UTC().Add(ttl).Unix()
	return jwt.NewWithClaims(ti.method, mc).SignedString(ti.secret)
}

// Verify parses a token, enforcing the configured algorithm, the signature
// and the expiry claim. It returns the embedded claims on success.
func (ti *TokenIssuer) Verify(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != ti.method.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return ti.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
