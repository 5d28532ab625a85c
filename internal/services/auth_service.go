package services

import (
	"errors"
	"time"

	"bazar-backend/internal/apperr"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

var (
	ErrTokenExpired = apperr.Unauthenticated("token expired")
	ErrInvalidToken = apperr.Unauthenticated("invalid token")
)

// AuthService issues and verifies the bearer tokens handed out on login.
type AuthService struct {
	secretKey []byte
	logger    zerolog.Logger
}

type Claims struct {
	AccountID string `json:"id"`
	jwt.RegisteredClaims
}

func NewAuthService(secret string, logger zerolog.Logger) *AuthService {
	return &AuthService{
		secretKey: []byte(secret),
		logger:    logger,
	}
}

// GenerateToken signs a token for accountID that expires after ttl.
func (s *AuthService) GenerateToken(accountID string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := &Claims{
		AccountID: accountID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error generating token")
		return "", apperr.Upstream("failed to generate token", err)
	}

	return tokenString, nil
}

// ValidateToken returns the account id carried by tokenString. Expired tokens
// fail with ErrTokenExpired, anything else with ErrInvalidToken.
func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperr.Wrap(ErrTokenExpired, err)
		}
		return "", apperr.Wrap(ErrInvalidToken, err)
	}

	if !token.Valid || claims.AccountID == "" {
		return "", ErrInvalidToken
	}

	return claims.AccountID, nil
}
