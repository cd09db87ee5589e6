package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"ecopulse/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	userID := uuid.New()

	token, err := svc.GenerateToken(userID, models.RoleUser)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsedID, role, err := svc.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, userID, parsedID)
	require.Equal(t, models.RoleUser, role)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-a", time.Hour)
	verifier := NewTokenService("secret-b", time.Hour)

	token, err := issuer.GenerateToken(uuid.New(), models.RoleUser)
	require.NoError(t, err)

	_, _, err = verifier.ParseToken(token)
	require.Error(t, err)
}

func TestTokenRejectsExpired(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: uuid.New().String(),
		Role:   models.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	token, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, _, err = svc.ParseToken(token)
	require.Error(t, err)
}

func TestTokenRequiresUserID(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	_, err := svc.GenerateToken(uuid.Nil, models.RoleUser)
	require.Error(t, err)
}
