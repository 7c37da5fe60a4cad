package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jonathan/knit-tech-editor/internal/config"
)

// tokenIssuer names this service in the iss claim so that tokens minted by
// another deployment sharing the same secret are still rejected.
const tokenIssuer = "knit-tech-editor"

// JWTService mints and checks the bearer tokens the API hands out at login.
// The user ID travels in the registered sub claim; there are no custom claims.
type JWTService struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTService creates a token service from the JWT configuration.
func NewJWTService(cfg *config.JWTConfig) *JWTService {
	return &JWTService{
		secret: []byte(cfg.Secret),
		ttl:    time.Duration(cfg.ExpirationHours) * time.Hour,
	}
}

// GenerateToken signs an HS256 token for the given user.
func (s *JWTService) GenerateToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Authenticate verifies a token and returns the user ID it was issued for.
// It satisfies middleware.Authenticator.
func (s *JWTService) Authenticate(token string) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return uuid.Nil, fmt.Errorf("token expired: %w", err)
	case errors.Is(err, jwt.ErrSignatureInvalid):
		return uuid.Nil, fmt.Errorf("invalid token signature: %w", err)
	case err != nil:
		return uuid.Nil, fmt.Errorf("failed to parse token: %w", err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse subject claim: %w", err)
	}
	return userID, nil
}
