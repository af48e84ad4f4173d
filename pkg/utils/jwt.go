package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrSecretUnset is returned until SetSecret has been called with a real
// value, so a misconfigured deployment cannot mint or accept tokens.
var ErrSecretUnset = errors.New("jwt secret is not configured")

var jwtSecret []byte

// SetSecret allows injecting the secret from config
func SetSecret(secret string) {
	jwtSecret = []byte(secret)
}

// TokenKind separates short-lived access tokens from refresh tokens so a
// refresh token can never be replayed as a bearer credential.
type TokenKind string

const (
	TokenAccess  TokenKind = "access"
	TokenRefresh TokenKind = "refresh"
)

type AuthClaims struct {
	ActorID   string    `json:"actor_id"`
	ActorKind string    `json:"actor_kind"`
	Role      string    `json:"role"`
	Kind      TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

// GenerateTokenPair issues the access/refresh pair for one principal.
func GenerateTokenPair(actorID, actorKind, role string, accessTTL, refreshTTL time.Duration) (access string, refresh string, err error) {
	access, err = generate(actorID, actorKind, role, TokenAccess, accessTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err = generate(actorID, actorKind, role, TokenRefresh, refreshTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func generate(actorID, actorKind, role string, kind TokenKind, ttl time.Duration) (string, error) {
	if len(jwtSecret) == 0 {
		return "", ErrSecretUnset
	}
	claims := AuthClaims{
		ActorID:   actorID,
		ActorKind: actorKind,
		Role:      role,
		Kind:      kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ValidateToken parses a token of the expected kind.
func ValidateToken(tokenString string, expected TokenKind) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if len(jwtSecret) == 0 {
			return nil, ErrSecretUnset
		}
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return jwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	if claims.Kind != expected {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}
