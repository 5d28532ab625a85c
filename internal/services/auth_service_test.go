package services

import (
	"errors"
	"testing"
	"time"

	"bazar-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	t.Parallel()

	auth := NewAuthService("super-secret", zerolog.Nop())
	id := models.NewID()

	tok, err := auth.GenerateToken(id, time.Hour)
	require.NoError(t, err)

	got, err := auth.ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestValidateTokenExpired(t *testing.T) {
	t.Parallel()

	auth := NewAuthService("secret", zerolog.Nop())
	tok, err := auth.GenerateToken(models.NewID(), -time.Second)
	require.NoError(t, err)

	_, err = auth.ValidateToken(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.False(t, errors.Is(err, ErrInvalidToken))
}

func TestValidateTokenWrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewAuthService("right-secret", zerolog.Nop()).GenerateToken(models.NewID(), time.Hour)
	require.NoError(t, err)

	_, err = NewAuthService("wrong-secret", zerolog.Nop()).ValidateToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.False(t, errors.Is(err, ErrTokenExpired))
}

func TestValidateTokenMalformed(t *testing.T) {
	t.Parallel()

	auth := NewAuthService("secret", zerolog.Nop())
	for _, tok := range []string{"", "garbage", "a.b.c"} {
		_, err := auth.ValidateToken(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tok)
	}
}

func TestValidateTokenRejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	claims := &Claims{
		AccountID:        models.NewID(),
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewAuthService("secret", zerolog.Nop()).ValidateToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenWithoutAccountID(t *testing.T) {
	t.Parallel()

	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewAuthService("secret", zerolog.Nop()).ValidateToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestBcryptHasher(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher()
	hash, err := h.Hash("p1")
	require.NoError(t, err)

	assert.NotEqual(t, "p1", hash)
	assert.True(t, h.Verify(hash, "p1"))
	assert.False(t, h.Verify(hash, "p2"))
	assert.False(t, h.Verify(hash, ""))

	again, err := h.Hash("p1")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "salted hashes differ")
}
