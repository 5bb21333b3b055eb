package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid session token")

// SessionClaims is the payload of the session cookie. It carries the user
// id and nothing else.
type SessionClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

func GenerateSessionToken(secret string, userID string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("session secret not configured")
	}

	now := time.Now()
	claims := SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}

func ParseSessionToken(tokenStr string, secret string) (*SessionClaims, error) {
	if secret == "" {
		return nil, errors.New("session secret not configured")
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))

	var claims SessionClaims
	token, err := parser.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
