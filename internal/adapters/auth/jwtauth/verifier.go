// Package jwtauth verifica localmente tokens HS256 emitidos por el identity provider.
package jwtauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"pet-health-core/internal/ports/auth"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims es el payload que firma el identity provider.
type Claims struct {
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

type Verifier struct {
	secret []byte
	issuer string
}

// NewVerifier crea un verifier HS256. issuer vacío => no se valida iss.
func NewVerifier(secret, issuer string) (*Verifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("jwt secret required")
	}
	return &Verifier{secret: []byte(secret), issuer: strings.TrimSpace(issuer)}, nil
}

func (v *Verifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrInvalidToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var c Claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return auth.Claims{}, ErrInvalidToken
	}

	sub := strings.TrimSpace(c.Subject)
	if sub == "" {
		return auth.Claims{}, fmt.Errorf("%w: missing sub", ErrInvalidToken)
	}

	return auth.Claims{
		UserID:      sub,
		Email:       strings.TrimSpace(c.Email),
		DisplayName: strings.TrimSpace(c.DisplayName),
	}, nil
}

// Sign emite un token para userID. Lo usan los tests y las herramientas de dev.
func Sign(secret, issuer, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	c := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}
