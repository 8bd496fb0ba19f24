package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned by TokenCodec.Verify for any token that does
// not verify: structural malformation, signature mismatch, wrong signing
// method, or expiry. Verification is all-or-nothing -- callers never see a
// partially-trusted claim set.
var ErrInvalidToken = errors.New("invalid session token")

// Claims is the signed claim set embedded in a session token: the account
// ID (subject) plus the role flag. The flag is baked in at issue time, so
// a later role change only takes effect on the next login.
type Claims struct {
	jwt.RegisteredClaims
	IsAdmin bool `json:"isAdmin"`
}

// TokenCodec signs and verifies session tokens. It exists as an interface
// so the stateless signed-token design can later grow a revocation list or
// different expiry policy without changing any call site.
type TokenCodec interface {
	// Issue produces a compact signed token for the given account.
	Issue(accountID string, isAdmin bool) (string, error)

	// Verify checks a token's signature and expiry and returns its claims.
	// Any failure returns ErrInvalidToken.
	Verify(token string) (*Claims, error)
}

// hmacCodec implements TokenCodec with HMAC-SHA256 signed JWTs.
type hmacCodec struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenCodec creates a codec signing with the given process-wide secret.
// Tokens expire after ttl.
func NewTokenCodec(secret []byte, ttl time.Duration) TokenCodec {
	return &hmacCodec{secret: secret, ttl: ttl}
}

// Issue produces a signed token embedding the account ID and role flag.
func (c *hmacCodec) Issue(accountID string, isAdmin bool) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		IsAdmin: isAdmin,
	})

	return token.SignedString(c.secret)
}

// Verify parses and validates a token, failing closed on any mismatch.
func (c *hmacCodec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but HMAC. Without this check
		// a forged token could name "none" or an asymmetric method.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
