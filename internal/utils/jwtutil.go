package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Scopes carried in issued tokens.
const (
	ScopeEditor = "editor"
	ScopeAdmin  = "admin"
)

type Claims struct {
	Scope   string `json:"scope"`
	AdminNo int    `json:"admin_no,omitempty"`
	jwt.RegisteredClaims
}

func GenerateToken(secret []byte, scope string, adminNo int, ttl time.Duration) (string, time.Time, error) {
	exp := time.Now().Add(ttl)
	claims := &Claims{
		Scope:   scope,
		AdminNo: adminNo,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   scope,
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(secret)
	return s, exp, err
}

func ParseToken(secret []byte, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("Invalid Token")
}
