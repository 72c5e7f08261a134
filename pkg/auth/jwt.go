package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoSecret is returned when a token is issued or checked without a key.
var ErrNoSecret = errors.New("auth: signing secret is empty")

// Claims holds the typed JWT payload carried by a session cookie.
type Claims struct {
	Data map[string]interface{} `json:"data"`
	jwt.RegisteredClaims
}

// IssueToken signs data with HS256 under secret, using id as the token id.
// A zero ttl means no expiry.
func IssueToken(secret []byte, id string, data map[string]interface{}, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", ErrNoSecret
	}

	now := time.Now()
	claims := Claims{
		Data: data,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       id,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ValidateToken parses and validates a token produced by IssueToken.
func ValidateToken(secret []byte, t string) (*Claims, error) {
	if len(secret) == 0 {
		return nil, ErrNoSecret
	}

	token, err := jwt.ParseWithClaims(t, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Data == nil {
		claims.Data = map[string]interface{}{}
	}
	return claims, nil
}
