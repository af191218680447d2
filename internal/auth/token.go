package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken indicates a token failed structural, signature or claim checks.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the signed identity claim carried by a session token.
// Only _id and iat are issued; other registered claims are left empty.
type Claims struct {
	UserID string `json:"_id"`
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies HS256 session tokens.
// Tokens carry no expiry; verification rejects claims issued in the future.
type TokenCodec struct {
	secret []byte
	leeway time.Duration
	now    func() time.Time
}

// NewTokenCodec creates a codec signing with secret.
// leeway is the tolerated clock skew for forward-dated iat claims.
func NewTokenCodec(secret []byte, leeway time.Duration) *TokenCodec {
	return &TokenCodec{
		secret: secret,
		leeway: leeway,
		now:    time.Now,
	}
}

// Issue signs a claim for userID stamped with the current time.
func (c *TokenCodec) Issue(userID string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("issue token: empty user id")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(c.now()),
		},
	})

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify decodes tokenString and checks its signature and claims.
// It does not check that the user still exists.
func (c *TokenCodec) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing _id", ErrInvalidToken)
	}
	if claims.IssuedAt == nil {
		return nil, fmt.Errorf("%w: missing iat", ErrInvalidToken)
	}
	if claims.IssuedAt.After(c.now().Add(c.leeway)) {
		return nil, fmt.Errorf("%w: issued in the future", ErrInvalidToken)
	}

	return claims, nil
}
