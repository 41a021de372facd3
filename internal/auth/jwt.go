package auth

import (
	"errors"
	"time"

	"mentorly/config"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the wallet address proven at SIWE login.
type Claims struct {
	Address string `json:"address"`
	jwt.RegisteredClaims
}

var ErrInvalidToken = errors.New("invalid token")

func GenerateAccessToken(cfg *config.JWTConfig, address string) (string, error) {
	claims := Claims{
		Address: NormalizeAddress(address),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   NormalizeAddress(address),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(cfg.AccessExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    cfg.Issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.AccessSecret))
}

func ParseAccessToken(cfg *config.JWTConfig, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.AccessSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if !ValidAddress(claims.Address) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
