package services

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nayan91296/TT-scrore-board-sub000/utils"
)

func TestLogin(t *testing.T) {
	hash, err := utils.HashPin("2468")
	require.NoError(t, err)
	secret := []byte("test-secret")
	svc := NewAuthService(hash, secret)

	_, err = svc.Login(context.Background(), "1111")
	assert.ErrorIs(t, err, ErrInvalidPIN)

	tokenString, err := svc.Login(context.Background(), "2468")
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	})
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, "admin", claims["role"])
	assert.Contains(t, claims, "exp")
}
